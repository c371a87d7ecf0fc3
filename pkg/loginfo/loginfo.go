// Package loginfo 从 LoginInfo2.dat 中挖掘登录过的账号及其昵称。
//
// 文件格式未公开，这里只做启发式提取：先按正则找出 wxid_ 账号，
// 再在账号之后的固定窗口内寻找最像昵称的可打印字符串。
package loginfo

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/afumu/wxbackup/pkg/wxid"
)

const (
	// WindowSize 账号之后用于搜索昵称的字节数
	WindowSize = 100

	minNameLen = 2
	maxNameLen = 30

	cjkStart = 0x4E00
)

var (
	wxidRe = regexp.MustCompile(`wxid_[a-z0-9]{10,20}`)

	allUpperRe = regexp.MustCompile(`^[A-Z_]+$`)
	phoneRe    = regexp.MustCompile(`^\+?\d+$`)
	symbolRe   = regexp.MustCompile(`^[^a-zA-Z0-9\x{4e00}-\x{9fa5}]+$`)
)

// Identity 挖掘出的账号信息
type Identity struct {
	WechatID string `json:"wechatId"`
	Nickname string `json:"nickname"`
}

// Mine 扫描原始字节，返回以 AccountKey 为键的账号信息。
// 找不到可信昵称时昵称回退为账号本身。
func Mine(raw []byte) map[string]Identity {
	result := make(map[string]Identity)
	for _, id := range FindIDs(raw) {
		nickname := ExtractNickname(raw, id)
		if nickname == "" {
			nickname = id
		}
		result[wxid.AccountKey(id)] = Identity{WechatID: id, Nickname: nickname}
	}
	return result
}

// FindIDs 按首次出现顺序返回去重后的账号
func FindIDs(raw []byte) []string {
	var ids []string
	seen := make(map[string]struct{})
	for _, m := range wxidRe.FindAll(raw, -1) {
		id := string(m)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// ExtractNickname 在 id 首次出现位置之后的窗口中寻找昵称，找不到返回空字符串。
func ExtractNickname(raw []byte, id string) string {
	pos := bytes.Index(raw, []byte(id))
	if pos < 0 {
		return ""
	}
	start := pos + len(id)
	end := start + WindowSize
	if end > len(raw) {
		end = len(raw)
	}

	for _, candidate := range printableRuns(raw[start:end]) {
		if name := strings.TrimSpace(candidate); Plausible(name) {
			return name
		}
	}
	return ""
}

// Plausible 判断候选字符串是否像一个昵称：
// 非空，且不是全大写标识、不是电话号码、也不是纯符号。
func Plausible(name string) bool {
	if name == "" {
		return false
	}
	return !allUpperRe.MatchString(name) &&
		!phoneRe.MatchString(name) &&
		!symbolRe.MatchString(name)
}

// printableRuns 把窗口切成连续可打印字符段，只保留长度在 [2,30] 之间、
// 且被不可打印字符截断的段；窗口末尾未被截断的段不计入。
func printableRuns(window []byte) []string {
	var (
		runs    []string
		current []rune
	)
	for i := 0; i < len(window); {
		r, size := utf8.DecodeRune(window[i:])
		i += size
		if r != utf8.RuneError && isPrintable(r) {
			current = append(current, r)
			continue
		}
		if len(current) >= minNameLen && len(current) <= maxNameLen {
			runs = append(runs, string(current))
		}
		current = current[:0]
	}
	return runs
}

func isPrintable(r rune) bool {
	return (r >= 0x20 && r <= 0x7E) || r >= cjkStart
}
