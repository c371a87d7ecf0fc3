package wechat

import (
	"strings"

	"github.com/afumu/wxbackup/internal/model"
	"github.com/afumu/wxbackup/pkg/remark"
	"github.com/afumu/wxbackup/pkg/wxid"
)

// SenderDelimiter 群聊消息正文中分隔发送者与内容的标记
const SenderDelimiter = ":\n"

// Sender 是从群聊消息中拆出的发送者信息
type Sender struct {
	SenderID  string // 原始发送者标识
	Sender    string // 展示名称，没有分隔符时为空
	Remainder string // 去掉发送者后的正文
}

// SplitSender 按第一个 ":\n" 拆分消息。
// 没有分隔符时发送者为空，正文保持原样。
func SplitSender(text string) (senderID, remainder string, ok bool) {
	idx := strings.Index(text, SenderDelimiter)
	if idx < 0 {
		return "", text, false
	}
	return strings.TrimSpace(text[:idx]), text[idx+len(SenderDelimiter):], true
}

// ResolveSender 拆分消息并把发送者解析成展示名称
func ResolveSender(text string, contacts model.ContactMap, isGroup bool) Sender {
	id, rest, ok := SplitSender(text)
	if !ok {
		return Sender{Remainder: text}
	}
	return Sender{
		SenderID:  id,
		Sender:    ResolveName(id, contacts, isGroup),
		Remainder: rest,
	}
}

// ResolveName 先查联系人备注，查不到或结果等于标识符时生成友好名称
func ResolveName(id string, contacts model.ContactMap, isGroup bool) string {
	var name string
	if c, ok := contacts.Lookup(wxid.AccountKey(id)); ok {
		name = remark.Decode(c.RawRemark)
	}
	if name == "" || name == id {
		return wxid.FriendlyName(id, "", isGroup)
	}
	return name
}

// StripSender 只返回正文，常用于统计和文本提取
func StripSender(text string) string {
	_, rest, _ := SplitSender(text)
	return rest
}
