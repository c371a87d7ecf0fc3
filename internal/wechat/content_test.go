package wechat

import (
	"strings"
	"testing"
)

func TestFormatContent(t *testing.T) {
	binary := strings.Repeat("\x01\x02", 20)

	tests := []struct {
		name    string
		msgType int
		text    string
		want    string
	}{
		{"文本", 1, "你好", "你好"},
		{"二进制文本", 1, binary, "[文本消息]"},
		{"空文本", 1, "", "[文本消息]"},
		{"图片", 3, "<img/>", "[图片]"},
		{"语音时长向上取整", 34, `<voicemsg voicelength="2300"/>`, "[语音 3\"]"},
		{"语音无时长", 34, "", "[语音]"},
		{"视频时长", 43, `<videomsg playlength="12"/>`, "[视频 12\"]"},
		{"视频无时长", 43, "x", "[视频]"},
		{"表情描述", 47, "[微笑]", "[表情: 微笑]"},
		{"表情 xml", 47, "<msg><fromusername>wxid_a</fromusername></msg>", "[表情]"},
		{"位置", 48, "<location><label><![CDATA[北京市海淀区]]></label></location>", "[位置] 北京市海淀区"},
		{"位置无标签", 48, "", "[位置]"},
		{"小程序", 49, "<appmsg><title>点餐</title><weappinfo/></appmsg>", "[小程序] 点餐"},
		{"文件带扩展名", 49, `<appmsg><title>报告</title><type>6</type><appattach fileext="pdf"/> type="6"</appmsg>`, "[文件] 报告.pdf"},
		{"文件无扩展名", 49, "<appmsg><title>报告</title>appmsg_file_type</appmsg>", "[文件] 报告"},
		{"分享", 49, "<appmsg><title><![CDATA[一篇文章]]></title></appmsg>", "[分享] 一篇文章"},
		{"分享无标题", 49, "<appmsg/>", "[分享]"},
		{"系统消息", 10000, "你已添加了张三", "你已添加了张三"},
		{"系统消息乱码", 10000, binary, "[系统消息]"},
		{"撤回", 10002, "张三撤回了一条消息", "[撤回] 张三撤回了一条消息"},
		{"撤回空", 10002, "", "[撤回了一条消息]"},
		{"未知类型可读", 42, "名片", "名片"},
		{"未知类型不可读", 42, "", "[消息类型: 42]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatContent(tt.msgType, tt.text); got != tt.want {
				t.Errorf("FormatContent(%d) = %q, want %q", tt.msgType, got, tt.want)
			}
		})
	}
}

func TestIsBinaryOrCorrupt(t *testing.T) {
	if IsBinaryOrCorrupt("正常的一句话\n第二行\t制表") {
		t.Error("正常文本不应被判定为二进制")
	}
	if !IsBinaryOrCorrupt("\x00\x01\x02abc") {
		t.Error("大量控制字符应被判定为二进制")
	}
	if !IsBinaryOrCorrupt("\uFFFD\uFFFDab") {
		t.Error("大量替换字符应被判定为二进制")
	}
	// 只检查前 100 个字符
	if IsBinaryOrCorrupt(strings.Repeat("a", 100) + strings.Repeat("\x00", 100)) {
		t.Error("前 100 个字符正常时不应被判定为二进制")
	}
}

func TestTypeName(t *testing.T) {
	if TypeName(1) != "文本" || TypeName(49) != "链接/文件" || TypeName(10000) != "系统消息" {
		t.Error("已知类型名称不正确")
	}
	if got := TypeName(999); got != "其他(999)" {
		t.Errorf("未知类型期望 其他(999), 实际 %q", got)
	}
}
