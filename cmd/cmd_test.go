package cmd

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/afumu/wxbackup/pkg/wxid"

	_ "github.com/mattn/go-sqlite3"
)

// setupBackup 创建一个只有一个账号、一张聊天表的备份目录
func setupBackup(t *testing.T) (root, key, table string) {
	t.Helper()
	root = t.TempDir()
	key = wxid.AccountKey("wxid_abc12345678")
	dbDir := filepath.Join(root, key, "DB")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dbDir, "message_1.sqlite"))
	if err != nil {
		t.Fatalf("打开 db 失败: %v", err)
	}
	defer db.Close()

	table = "Chat_" + wxid.AccountKey("wxid_friend00001")
	stmts := []string{
		`CREATE TABLE "` + table + `" (MesLocalID INTEGER PRIMARY KEY, MesSvrID INTEGER, CreateTime INTEGER, Message TEXT, Type INTEGER, Des INTEGER)`,
		`INSERT INTO "` + table + `" (MesSvrID, CreateTime, Message, Type, Des) VALUES (1, 1700000000, '你好', 1, 0)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("准备数据失败: %v", err)
		}
	}
	return root, key, table
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--env", filepath.Join(t.TempDir(), "missing.env"), "--log-level", "error"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestUsersCommand(t *testing.T) {
	root, key, _ := setupBackup(t)

	out, err := run(t, "users", "--root", root)
	if err != nil {
		t.Fatalf("users 执行失败: %v", err)
	}
	if !strings.Contains(out, key) || !strings.Contains(out, "用户-"+key[:8]) {
		t.Errorf("输出不正确: %s", out)
	}
}

func TestChatsAndDatesCommand(t *testing.T) {
	root, key, table := setupBackup(t)

	out, err := run(t, "chats", key, "--root", root)
	if err != nil {
		t.Fatalf("chats 执行失败: %v", err)
	}
	if !strings.Contains(out, table) {
		t.Errorf("chats 输出缺少聊天表: %s", out)
	}

	out, err = run(t, "dates", key, table, "--root", root)
	if err != nil {
		t.Fatalf("dates 执行失败: %v", err)
	}
	if lines := strings.Fields(out); len(lines) != 1 {
		t.Errorf("期望 1 个日期, 实际 %q", out)
	}
}

func TestExportCommand(t *testing.T) {
	root, key, table := setupBackup(t)
	outDir := t.TempDir()

	out, err := run(t, "export", "chat", key, table, "--root", root, "--out", outDir, "--format", "json")
	if err != nil {
		t.Fatalf("export 执行失败: %v", err)
	}

	path := filepath.Join(outDir, "chat_"+table+".json")
	if strings.TrimSpace(out) != path {
		t.Errorf("输出路径不正确: %s", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取导出文件失败: %v", err)
	}
	if !strings.Contains(string(data), `"content": "你好"`) {
		t.Errorf("导出内容不正确: %s", data)
	}
}

func TestMissingRoot(t *testing.T) {
	if _, err := run(t, "users", "--root", filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("备份目录不存在时应返回错误")
	}
}
