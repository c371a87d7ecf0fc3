// Package remark 解析联系人表 dbContactRemark 字段。
//
// 该字段经 SQL 的 lower(quote(...)) 取出后形如 x'0a06e5bca0e4b889...'，
// 内部是若干条 tag(1 字节) + length(1 字节) + value 的记录。
package remark

import (
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// 已知的字段标签
const (
	TagNickname = 0x0a
	TagWechatID = 0x12
	TagRemark   = 0x1a
)

const headerLen = 4 // tag 与 length 各占两个十六进制字符

// Fields 是一条备注记录中解出的字段
type Fields struct {
	Nickname string `json:"nickname"`
	WechatID string `json:"wechatId"`
	Remark   string `json:"remark"`
}

// DisplayName 按 备注 > 昵称 > 微信号 的优先级返回第一个非空值 (已去除首尾空白)。
func (f Fields) DisplayName() string {
	for _, v := range []string{f.Remark, f.Nickname, f.WechatID} {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// Decode 解析原始字段并返回用于展示的名称，无法解析时返回空字符串。
func Decode(raw string) string {
	return Parse(raw).DisplayName()
}

// Parse 逐条读取记录。
// 遇到长度为 0、头部不完整、头部不是合法十六进制或剩余数据不足时停止；
// 单条记录的值无法解码时该字段置空，后出现的同名标签覆盖先出现的。
func Parse(raw string) Fields {
	var f Fields
	text := unwrap(raw)

	for i := 0; i+headerLen <= len(text); {
		tag, ok := hexByte(text[i : i+2])
		if !ok {
			break
		}
		n, ok := hexByte(text[i+2 : i+4])
		if !ok {
			break
		}
		// 长度按字节计，在十六进制文本中占两倍字符
		size := int(n) * 2
		if size == 0 || i+headerLen+size > len(text) {
			break
		}

		value := decodeValue(text[i+headerLen : i+headerLen+size])
		switch tag {
		case TagNickname:
			f.Nickname = value
		case TagWechatID:
			f.WechatID = value
		case TagRemark:
			f.Remark = value
		}

		i += headerLen + size
	}
	return f
}

// unwrap 去掉 x'...' 包装
func unwrap(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) >= 2 && (s[0] == 'x' || s[0] == 'X') && s[1] == '\'' {
		s = strings.TrimSuffix(s[2:], "'")
	}
	return s
}

func hexByte(s string) (byte, bool) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 1 {
		return 0, false
	}
	return b[0], true
}

func decodeValue(s string) string {
	b, err := hex.DecodeString(s)
	if err != nil || !utf8.Valid(b) {
		return ""
	}
	return string(b)
}
