package wxid

import (
	"strings"
	"testing"
)

func TestAccountKey(t *testing.T) {
	got := AccountKey("")
	if got != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Errorf("空字符串的 MD5 不正确: %s", got)
	}

	k1 := AccountKey("wxid_abcdefghij")
	k2 := AccountKey("wxid_abcdefghij")
	if k1 != k2 {
		t.Error("相同输入应得到相同的 key")
	}
	if len(k1) != 32 || strings.ToLower(k1) != k1 {
		t.Errorf("key 应为 32 位小写十六进制, 实际 %q", k1)
	}
	if !IsAccountKey(k1) {
		t.Errorf("IsAccountKey(%q) 应为 true", k1)
	}
}

func TestIsAccountKey(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0123456789abcdef0123456789abcdef", true},
		{"0123456789ABCDEF0123456789ABCDEF", true},
		{"0123456789abcdef0123456789abcde", false},
		{"../../etc/passwd", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsAccountKey(tt.in); got != tt.want {
			t.Errorf("IsAccountKey(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFriendlyName(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		nickname string
		isGroup  bool
		want     string
	}{
		{"昵称可用", "wxid_abcdefghijk", "张三", false, "张三"},
		{"昵称等于 id", "alice", "alice", false, "联系人-alice"},
		{"昵称为 wxid", "wxid_abcdefghijk", "wxid_abcdefghijk", false, "联系人-abcdefgh"},
		{"wxid 短 id", "wxid_foo", "", true, "群聊-foo"},
		{"群聊 id", "12345678901@chatroom", "", true, "群聊-12345678"},
		{"普通 id", "someuser_long", "", false, "联系人-someuser"},
		{"极短 id", "ab", "", false, "联系人-ab"},
		{"空 id", "", "", false, "联系人-"},
		{"前缀本身", "wxid_", "", false, "联系人-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FriendlyName(tt.id, tt.nickname, tt.isGroup); got != tt.want {
				t.Errorf("FriendlyName(%q, %q, %v) = %q, want %q", tt.id, tt.nickname, tt.isGroup, got, tt.want)
			}
		})
	}
}

func TestIsChatroom(t *testing.T) {
	if !IsChatroom("123@chatroom") {
		t.Error("123@chatroom 应被识别为群聊")
	}
	if IsChatroom("wxid_abc") {
		t.Error("wxid_abc 不应被识别为群聊")
	}
}
