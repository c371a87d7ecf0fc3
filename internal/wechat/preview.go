package wechat

import (
	"github.com/afumu/wxbackup/internal/model"
)

// PreviewLimit 文本预览的最大字符数，超出部分以 "..." 代替
const PreviewLimit = 40

var previewLabels = map[int]string{
	model.MsgTypeImage: "[图片]",
	model.MsgTypeVoice: "[语音]",
	model.MsgTypeVideo: "[视频]",
	model.MsgTypeEmoji: "[表情]",
	model.MsgTypeApp:   "[链接]",
}

// Preview 生成会话列表中最后一条消息的预览
func Preview(msgType int, text string, contacts model.ContactMap, isGroup bool) string {
	if msgType != model.MsgTypeText {
		if label, ok := previewLabels[msgType]; ok {
			return label
		}
		return "[消息]"
	}

	preview := text
	if isGroup {
		if id, rest, ok := SplitSender(text); ok {
			preview = ResolveName(id, contacts, isGroup) + ": " + rest
		}
	}
	return Truncate(preview, PreviewLimit)
}

// Truncate 按字符数截断，超出时追加 "..."
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
