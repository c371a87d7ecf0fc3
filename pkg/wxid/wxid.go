package wxid

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
)

const (
	// ChatroomSuffix 群聊标识符中固定出现的片段
	ChatroomSuffix = "@chatroom"

	// UnknownID 无法从表名还原标识符时使用的占位值
	UnknownID = "未知"

	userPrefix = "wxid_"
)

var accountKeyRe = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

// AccountKey 计算标识符的 MD5 (32 位小写十六进制)，备份中的目录名和表名后缀都以它为键。
func AccountKey(id string) string {
	sum := md5.Sum([]byte(id))
	return hex.EncodeToString(sum[:])
}

// IsAccountKey 判断 s 是否形如 AccountKey (大小写不敏感)。
func IsAccountKey(s string) bool {
	return accountKeyRe.MatchString(s)
}

// IsChatroom 判断标识符是否为群聊
func IsChatroom(id string) bool {
	return strings.Contains(id, ChatroomSuffix)
}

// IsUserID 判断是否为系统分配的 wxid_ 形式账号
func IsUserID(id string) bool {
	return strings.HasPrefix(id, userPrefix)
}

// FriendlyName 生成展示名称。
// nickname 可用 (非空、非 wxid_ 开头、且不等于 id) 时直接返回；
// 否则按所在会话类型生成 "群聊-xxxx" / "联系人-xxxx" 形式的标签。
func FriendlyName(id, nickname string, isGroup bool) string {
	if nickname != "" && !IsUserID(nickname) && nickname != id {
		return nickname
	}

	prefix := "联系人"
	if isGroup {
		prefix = "群聊"
	}

	runes := []rune(id)
	if IsUserID(id) {
		return prefix + "-" + slice(runes, 5, 13)
	}
	// 群聊标识符与普通标识符都取前 8 位
	return prefix + "-" + slice(runes, 0, 8)
}

// slice 越界安全的截取
func slice(r []rune, from, to int) string {
	if from > len(r) {
		from = len(r)
	}
	if to > len(r) {
		to = len(r)
	}
	return string(r[from:to])
}
