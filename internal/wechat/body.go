package wechat

import (
	"bytes"
	"strings"

	"github.com/klauspost/compress/zstd"
)

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// NormalizeBody 把 Message 列统一转换为文本。
// 字节内容按 UTF-8 解码并丢弃非法字节；zstd 压缩帧 (通常使用外部字典) 视为不透明数据返回空字符串。
func NormalizeBody(v any) string {
	switch b := v.(type) {
	case nil:
		return ""
	case string:
		return strings.ToValidUTF8(b, "")
	case []byte:
		if IsCompressed(b) {
			return ""
		}
		return strings.ToValidUTF8(string(b), "")
	default:
		return ""
	}
}

// IsCompressed 判断是否为 zstd 帧：魔数匹配且帧头可以被解析
func IsCompressed(b []byte) bool {
	if !bytes.HasPrefix(b, zstdMagic) {
		return false
	}
	var h zstd.Header
	return h.Decode(b) == nil
}
