package wechat

import (
	"strings"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

const maxNestDepth = 4

// HeadImageURL 从 dbContactHeadImage 字段 (protobuf 编码) 中找出第一个头像链接。
// 解析失败或没有链接时返回空字符串。
func HeadImageURL(b []byte) string {
	return findURL(b, 0)
}

func findURL(b []byte, depth int) string {
	if depth > maxNestDepth {
		return ""
	}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 || num <= 0 {
			return ""
		}
		b = b[n:]

		if typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return ""
			}
			b = b[n:]
			continue
		}

		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return ""
		}
		b = b[n:]

		if utf8.Valid(v) && isURL(string(v)) {
			return string(v)
		}
		// 可能是嵌套消息
		if u := findURL(v, depth+1); u != "" {
			return u
		}
	}
	return ""
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
