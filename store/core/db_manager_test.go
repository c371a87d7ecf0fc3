package core

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConnectionPool(t *testing.T) {
	// 1. 设置测试环境
	tmpDir, err := os.MkdirTemp("", "wxbackup_pool_test")
	if err != nil {
		t.Fatalf("创建临时目录失败: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// 2. 创建一个虚拟的 SQLite 文件
	dbPath := filepath.Join(tmpDir, "test.db")
	setupDB(t, dbPath)

	// 3. 初始化连接池
	pool := NewConnectionPool(tmpDir)
	defer pool.CloseAll()

	// 4. 测试: 获取连接
	db, release, err := pool.Acquire(dbPath)
	if err != nil {
		t.Fatalf("Acquire 失败: %v", err)
	}

	// 5. 测试: 执行查询
	var result string
	err = db.QueryRow("SELECT content FROM test_table LIMIT 1").Scan(&result)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}

	if result != "hello world" {
		t.Errorf("期望 'hello world', 实际得到 '%s'", result)
	}

	// 只读连接不允许写入
	if _, err := db.Exec("INSERT INTO test_table (content) VALUES ('x')"); err == nil {
		t.Error("只读连接不应允许写入")
	}

	// 6. 测试: 连接复用
	db2, release2, err := pool.Acquire(dbPath)
	if err != nil {
		t.Fatalf("获取缓存连接失败: %v", err)
	}
	if db != db2 {
		t.Error("对于相同的路径，连接池应该返回相同的实例")
	}

	// 7. 测试: 淘汰连接，借用者归还之前仍然可用
	pool.Evict(dbPath)
	if pool.Len() != 0 || pool.Pending() != 1 {
		t.Fatalf("淘汰后期望 0 个缓存连接、1 个待关闭连接, 实际 %d/%d", pool.Len(), pool.Pending())
	}
	release()
	release() // 重复归还不应重复计数
	if err := db.Ping(); err != nil {
		t.Fatalf("仍有借用者时连接不应关闭: %v", err)
	}
	release2()

	// 验证已关闭
	if err := db.Ping(); err == nil {
		t.Error("数据库连接应该已关闭")
	}
	if pool.Pending() != 0 {
		t.Errorf("归还后不应有待关闭连接, 实际 %d", pool.Pending())
	}

	// 再次获取会打开新连接
	db3, release3, err := pool.Acquire(dbPath)
	if err != nil {
		t.Fatalf("重新打开失败: %v", err)
	}
	defer release3()
	if db3 == db {
		t.Error("淘汰后应返回新的连接")
	}
}

func TestConnectionPool_EvictAllDuringQuery(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "message_1.sqlite")
	setupDB(t, dbPath)

	pool := NewConnectionPool(tmpDir)
	defer pool.CloseAll()

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
				pool.EvictAll()
			}
		}
	}()

	for i := 0; i < 200; i++ {
		db, release, err := pool.Acquire(dbPath)
		if err != nil {
			t.Fatalf("第 %d 次 Acquire 失败: %v", i, err)
		}
		var content string
		err = db.QueryRow("SELECT content FROM test_table LIMIT 1").Scan(&content)
		release()
		if err != nil {
			t.Fatalf("第 %d 次查询被淘汰打断: %v", i, err)
		}
	}
	close(stop)
	<-done

	if pool.Pending() != 0 {
		t.Errorf("所有借用者归还后不应有待关闭连接, 实际 %d", pool.Pending())
	}
}

func TestReadOnlyDSN(t *testing.T) {
	// 先在普通目录中建库再改名，建库用的 DSN 本身不处理特殊字符
	base := t.TempDir()
	plain := filepath.Join(base, "plain")
	if err := os.MkdirAll(plain, 0755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}
	setupDB(t, filepath.Join(plain, "message_1.sqlite"))

	dir := filepath.Join(base, "back?up#1%")
	if err := os.Rename(plain, dir); err != nil {
		t.Fatalf("重命名目录失败: %v", err)
	}
	dbPath := filepath.Join(dir, "message_1.sqlite")

	pool := NewConnectionPool(dir)
	defer pool.CloseAll()

	db, release, err := pool.Acquire(dbPath)
	if err != nil {
		t.Fatalf("含特殊字符的路径打开失败: %v", err)
	}
	defer release()

	var content string
	if err := db.QueryRow("SELECT content FROM test_table LIMIT 1").Scan(&content); err != nil || content != "hello world" {
		t.Errorf("应打开正确的文件, 实际 %q %v", content, err)
	}
}

func TestConnectionPool_Missing(t *testing.T) {
	tmpDir := t.TempDir()
	pool := NewConnectionPool(tmpDir)
	defer pool.CloseAll()

	_, _, err := pool.Acquire(filepath.Join(tmpDir, "message_3.sqlite"))
	if !errors.Is(err, ErrNotExist) {
		t.Fatalf("期望 ErrNotExist, 实际得到 %v", err)
	}
	if pool.Len() != 0 {
		t.Errorf("缺失的文件不应进入连接池, 实际 %d 个连接", pool.Len())
	}
	// 只读打开不应创建文件
	if _, err := os.Stat(filepath.Join(tmpDir, "message_3.sqlite")); !os.IsNotExist(err) {
		t.Error("只读打开不应创建新文件")
	}
}

// setupDB 创建一个包含数据的真实 SQLite 文件
func setupDB(t *testing.T, path string) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("setupDB 打开失败: %v", err)
	}
	defer db.Close()

	_, err = db.Exec("CREATE TABLE test_table (id INTEGER PRIMARY KEY, content TEXT)")
	if err != nil {
		t.Fatalf("setupDB 建表失败: %v", err)
	}

	_, err = db.Exec("INSERT INTO test_table (content) VALUES (?)", "hello world")
	if err != nil {
		t.Fatalf("setupDB 插入失败: %v", err)
	}
}
