package wechat

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/afumu/wxbackup/internal/model"
)

var (
	voiceLenRe = regexp.MustCompile(`voicelength="(\d+)"`)
	playLenRe  = regexp.MustCompile(`playlength="(\d+)"`)
	fileExtRe  = regexp.MustCompile(`fileext="([^"]+)"`)
	bracketRe  = regexp.MustCompile(`\[([^\]]+)\]`)

	xmlTagCache = map[string][2]*regexp.Regexp{}
)

var typeNames = map[int]string{
	model.MsgTypeText:     "文本",
	model.MsgTypeImage:    "图片",
	model.MsgTypeVoice:    "语音",
	model.MsgTypeVideo:    "视频",
	model.MsgTypeEmoji:    "表情",
	model.MsgTypeLocation: "位置",
	model.MsgTypeApp:      "链接/文件",
	model.MsgTypeSystem:   "系统消息",
}

func init() {
	for _, tag := range []string{"title", "label", "fromusername"} {
		xmlTagCache[tag] = [2]*regexp.Regexp{
			regexp.MustCompile(`(?is)<` + tag + `(?:\s[^>]*)?><!\[CDATA\[(.*?)\]\]></` + tag + `>`),
			regexp.MustCompile(`(?is)<` + tag + `(?:\s[^>]*)?>(.*?)</` + tag + `>`),
		}
	}
}

// TypeName 返回统计中使用的消息类型名称
func TypeName(msgType int) string {
	if name, ok := typeNames[msgType]; ok {
		return name
	}
	return fmt.Sprintf("其他(%d)", msgType)
}

// FormatContent 按消息类型把正文转换成可读文本，用于导出
func FormatContent(msgType int, text string) string {
	readable := text != "" && !IsBinaryOrCorrupt(text)

	switch msgType {
	case model.MsgTypeText:
		if readable {
			return text
		}
		return "[文本消息]"
	case model.MsgTypeImage:
		return "[图片]"
	case model.MsgTypeVoice:
		if m := voiceLenRe.FindStringSubmatch(text); m != nil {
			ms, _ := strconv.Atoi(m[1])
			return fmt.Sprintf("[语音 %d\"]", int(math.Ceil(float64(ms)/1000)))
		}
		return "[语音]"
	case model.MsgTypeVideo:
		if m := playLenRe.FindStringSubmatch(text); m != nil {
			return fmt.Sprintf("[视频 %s\"]", m[1])
		}
		return "[视频]"
	case model.MsgTypeEmoji:
		if text == "" {
			return "[表情]"
		}
		if desc := extractXMLTag(text, "fromusername"); desc != "" && !IsBinaryOrCorrupt(desc) {
			return "[表情]"
		}
		if m := bracketRe.FindStringSubmatch(text); m != nil && !IsBinaryOrCorrupt(m[1]) {
			return "[表情: " + m[1] + "]"
		}
		return "[表情]"
	case model.MsgTypeLocation:
		if label := extractXMLTag(text, "label"); label != "" && !IsBinaryOrCorrupt(label) {
			return "[位置] " + label
		}
		return "[位置]"
	case model.MsgTypeApp:
		return formatAppMessage(text)
	case model.MsgTypeSystem:
		if readable {
			return text
		}
		return "[系统消息]"
	case model.MsgTypeRevoke:
		if readable {
			return "[撤回] " + text
		}
		return "[撤回了一条消息]"
	default:
		if readable {
			return text
		}
		return fmt.Sprintf("[消息类型: %d]", msgType)
	}
}

// formatAppMessage 区分小程序、文件与普通分享
func formatAppMessage(text string) string {
	title := extractXMLTag(text, "title")
	if title == "" || IsBinaryOrCorrupt(title) {
		return "[分享]"
	}
	if strings.Contains(text, "weapp") {
		return "[小程序] " + title
	}
	if strings.Contains(text, `type="6"`) || strings.Contains(text, "appmsg_file_type") {
		if m := fileExtRe.FindStringSubmatch(text); m != nil {
			return "[文件] " + title + "." + m[1]
		}
		return "[文件] " + title
	}
	return "[分享] " + title
}

// IsBinaryOrCorrupt 检查前 100 个字符，控制字符或替换字符超过 20% 时认为是二进制内容
func IsBinaryOrCorrupt(text string) bool {
	if text == "" {
		return false
	}
	var total, bad int
	for _, r := range text {
		if total == 100 {
			break
		}
		total++
		if (r < 32 && r != '\t' && r != '\n' && r != '\r') || r == 127 || r == 0xFFFD {
			bad++
		}
	}
	return float64(bad) > float64(total)*0.2
}

func extractXMLTag(text, tag string) string {
	res, ok := xmlTagCache[tag]
	if !ok {
		return ""
	}
	for _, re := range res {
		if m := re.FindStringSubmatch(text); m != nil && m[1] != "" {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
