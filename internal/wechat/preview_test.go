package wechat

import (
	"strings"
	"testing"
)

func TestPreview(t *testing.T) {
	contacts := testContacts()
	long := strings.Repeat("长", 50)

	tests := []struct {
		name    string
		msgType int
		text    string
		isGroup bool
		want    string
	}{
		{"单聊文本", 1, "你好", false, "你好"},
		{"单聊不解析发送者", 1, "a:\nb", false, "a:\nb"},
		{"群聊已知发送者", 1, "wxid_alice12345:\n吃了吗", true, "hello: 吃了吗"},
		{"群聊未知发送者", 1, "wxid_foo:\n今天天气不错", true, "群聊-foo: 今天天气不错"},
		{"长文本截断", 1, long, false, strings.Repeat("长", 40) + "..."},
		{"恰好 40 字不截断", 1, strings.Repeat("a", 40), false, strings.Repeat("a", 40)},
		{"图片", 3, "", false, "[图片]"},
		{"语音", 34, "", false, "[语音]"},
		{"视频", 43, "", false, "[视频]"},
		{"表情", 47, "", false, "[表情]"},
		{"链接", 49, "", false, "[链接]"},
		{"其他", 10000, "x", false, "[消息]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preview(tt.msgType, tt.text, contacts, tt.isGroup); got != tt.want {
				t.Errorf("Preview = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	for _, s := range []string{"", "abc", strings.Repeat("字", 41), strings.Repeat("x", 1000)} {
		got := Truncate(s, PreviewLimit)
		if n := len([]rune(got)); n > PreviewLimit+3 {
			t.Errorf("Truncate 结果过长: %d 字符", n)
		}
	}
}
