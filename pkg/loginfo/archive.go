package loginfo

import (
	"strings"
	"unicode/utf8"

	"github.com/afumu/wxbackup/pkg/wxid"
	"howett.net/plist"
)

// FromArchive 从账号目录下的 mmsetting.archive (NSKeyedArchiver 格式的 plist) 中查找账号信息。
// 在 $objects 中找到 MD5 等于 key 的账号字符串，取其后第一个像昵称的字符串。
func FromArchive(data []byte, key string) (Identity, bool) {
	var archive map[string]any
	if _, err := plist.Unmarshal(data, &archive); err != nil {
		return Identity{}, false
	}

	objects, _ := archive["$objects"].([]any)
	strs := make([]string, 0, len(objects))
	for _, obj := range objects {
		if s, ok := obj.(string); ok {
			strs = append(strs, strings.TrimSpace(s))
		}
	}

	key = strings.ToLower(key)
	for i, s := range strs {
		if s == "" || wxid.AccountKey(s) != key {
			continue
		}

		id := Identity{WechatID: s, Nickname: s}
		for _, cand := range strs[i+1:] {
			if archiveNickname(cand, s) {
				id.Nickname = cand
				break
			}
		}
		return id, true
	}
	return Identity{}, false
}

// archiveNickname 过滤掉归档中常见的类名、路径和其他账号
func archiveNickname(s, id string) bool {
	n := utf8.RuneCountInString(s)
	if n < minNameLen || n > maxNameLen || s == id {
		return false
	}
	if wxid.IsUserID(s) || wxid.IsAccountKey(s) || strings.HasPrefix(s, "$") ||
		strings.HasPrefix(s, "NS") || strings.ContainsAny(s, "/@") {
		return false
	}
	return Plausible(s)
}
