package wechat

import (
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestNormalizeBody(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("创建 zstd 编码器失败: %v", err)
	}
	frame := enc.EncodeAll([]byte("<msg>compressed</msg>"), nil)
	enc.Close()

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"字符串", "你好", "你好"},
		{"字节", []byte("hello"), "hello"},
		{"空字节", []byte{}, ""},
		{"丢弃非法字节", []byte{'a', 0xff, 'b'}, "ab"},
		{"zstd 帧视为不透明", frame, ""},
		{"数字", int64(5), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeBody(tt.in); got != tt.want {
				t.Errorf("NormalizeBody = %q, want %q", got, tt.want)
			}
		})
	}
}
