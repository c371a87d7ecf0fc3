package strategy

import (
	"testing"
)

func TestIOS_Identify(t *testing.T) {
	s := NewIOS()

	tests := []struct {
		filename      string
		expectedType  GroupType
		expectedIndex string
		expectMatch   bool
	}{
		{"message_1.sqlite", Message, "1", true},
		{"message_4.sqlite", Message, "4", true},
		{"/backup/abc/DB/message_2.sqlite", Message, "2", true},
		{"message_5.sqlite", Unknown, "", false},
		{"message_1.sqlite-wal", Unknown, "", false},
		{"WCDB_Contact.sqlite", Contact, "", true},
		{"LoginInfo2.dat", LoginInfo, "", true},
		{"mmsetting.archive", Setting, "", true},
		{"Random.txt", Unknown, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			meta, match := s.Identify(tt.filename)
			if match != tt.expectMatch {
				t.Errorf("match: expected %v, got %v", tt.expectMatch, match)
			}
			if match {
				if meta.Type != tt.expectedType {
					t.Errorf("type: expected %v, got %v", tt.expectedType, meta.Type)
				}
				if meta.Index != tt.expectedIndex {
					t.Errorf("index: expected '%v', got '%v'", tt.expectedIndex, meta.Index)
				}
			}
		})
	}
}

func TestIOS_ChatTableKey(t *testing.T) {
	s := NewIOS()

	tests := []struct {
		table string
		key   string
	}{
		{"Chat_deadbeefdeadbeefdeadbeefdeadbeef", "deadbeefdeadbeefdeadbeefdeadbeef"},
		{"ChatExt2_0123456789abcdef0123456789abcdef", "0123456789abcdef0123456789abcdef"},
		{"Chat_abc_extra", "abc"},
		{"Chat", ""},
		{"Chat_", ""},
	}
	for _, tt := range tests {
		if got := s.ChatTableKey(tt.table); got != tt.key {
			t.Errorf("ChatTableKey(%q) = %q, want %q", tt.table, got, tt.key)
		}
	}
}

func TestIOS_IsChatTable(t *testing.T) {
	s := NewIOS()
	valid := []string{"Chat_abc123", "ChatExt2_DEADBEEF"}
	invalid := []string{"Chat_", "Friend", `Chat_a"; DROP TABLE x; --`, "chat_abc", "ChatExt_abc",
		"Chat_abc_extra", "ChatExt2__", "Chat_abc-1"}

	for _, name := range valid {
		if !s.IsChatTable(name) {
			t.Errorf("%q 应被识别为聊天表", name)
		}
	}
	for _, name := range invalid {
		if s.IsChatTable(name) {
			t.Errorf("%q 不应被识别为聊天表", name)
		}
	}
}
