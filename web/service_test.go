package web

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/afumu/wxbackup/internal/model"
	"github.com/afumu/wxbackup/internal/refresh"
	"github.com/afumu/wxbackup/pkg/wxid"
	"github.com/afumu/wxbackup/store"
	"github.com/afumu/wxbackup/web/transport"

	_ "github.com/mattn/go-sqlite3"
)

// setupService 创建一个只有一个账号的备份目录并启动路由。
// 返回的聊天表有两条消息，另有一张 busyTable 存放同一天的 150 条消息
func setupService(t *testing.T) (*Service, string, string) {
	t.Helper()
	root := t.TempDir()
	key := wxid.AccountKey("wxid_abc12345678")
	dbDir := filepath.Join(root, key, "DB")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dbDir, "message_1.sqlite"))
	if err != nil {
		t.Fatalf("打开 db 失败: %v", err)
	}
	defer db.Close()

	table := "Chat_" + wxid.AccountKey("wxid_friend00001")
	stmts := []string{
		`CREATE TABLE "` + table + `" (MesLocalID INTEGER PRIMARY KEY, MesSvrID INTEGER, CreateTime INTEGER, Message TEXT, Type INTEGER, Des INTEGER)`,
		`INSERT INTO "` + table + `" (MesSvrID, CreateTime, Message, Type, Des) VALUES (1, 1700000000, '你好', 1, 0)`,
		`INSERT INTO "` + table + `" (MesSvrID, CreateTime, Message, Type, Des) VALUES (2, 1700000060, '在吗', 1, 1)`,
	}
	stmts = append(stmts, `CREATE TABLE "`+busyTable+`" (MesLocalID INTEGER PRIMARY KEY, MesSvrID INTEGER, CreateTime INTEGER, Message TEXT, Type INTEGER, Des INTEGER)`)
	for i := 0; i < 150; i++ {
		stmts = append(stmts, fmt.Sprintf(`INSERT INTO "%s" (MesSvrID, CreateTime, Message, Type, Des) VALUES (%d, %d, 'm%d', 1, 1)`,
			busyTable, 100+i, 1700000000+i, i))
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("准备数据失败: %v", err)
		}
	}

	avatarDir := filepath.Join(root, key, "Avatar")
	if err := os.MkdirAll(avatarDir, 0755); err != nil {
		t.Fatalf("创建头像目录失败: %v", err)
	}
	if err := os.WriteFile(filepath.Join(avatarDir, "lastHeadImage"), []byte("jpeg-data"), 0644); err != nil {
		t.Fatalf("写入头像失败: %v", err)
	}

	st, err := store.NewStore(root, store.WithWatch(false))
	if err != nil {
		t.Fatalf("NewStore 失败: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return NewService(st, &Config{ListenAddr: "127.0.0.1:0", MetricsEnabled: true}), key, table
}

var busyTable = "Chat_" + wxid.AccountKey("wxid_busy0000001")

func doGet(s *Service, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	s.GetRouter().ServeHTTP(w, req)
	return w
}

func TestRoutes_Success(t *testing.T) {
	s, key, table := setupService(t)

	tests := []struct {
		name  string
		url   string
		count int
	}{
		{"账号列表", "/api/v1/users", 1},
		{"会话列表", "/api/v1/chats?userMd5=" + key, 2},
		{"消息", "/api/v1/chats/messages?userMd5=" + key + "&table=" + table, 2},
		{"消息分页", "/api/v1/chats/messages?userMd5=" + key + "&tableName=" + table + "&limit=1", 1},
		{"默认分页", "/api/v1/chats/messages?userMd5=" + key + "&tableName=" + busyTable, 100},
		{"limit=0 使用默认值", "/api/v1/chats/messages?userMd5=" + key + "&tableName=" + busyTable + "&limit=0", 100},
		{"负数 limit 使用默认值", "/api/v1/chats/messages?userMd5=" + key + "&tableName=" + busyTable + "&limit=-5", 100},
		{"日期", "/api/v1/chats/dates?userMd5=" + key + "&tableName=" + table, 1},
		{"联系人", "/api/v1/contacts?userMd5=" + key, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(s, tt.url)
			if w.Code != http.StatusOK {
				t.Fatalf("期望 200, 实际 %d: %s", w.Code, w.Body.String())
			}

			var resp struct {
				Success bool            `json:"success"`
				Data    json.RawMessage `json:"data"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("解析响应失败: %v", err)
			}
			if !resp.Success {
				t.Fatalf("success 应为 true")
			}

			var data any
			json.Unmarshal(resp.Data, &data)
			got := -1
			switch v := data.(type) {
			case []any:
				got = len(v)
			case map[string]any:
				got = len(v)
			}
			if got != tt.count {
				t.Errorf("期望 %d 条数据, 实际 %d: %s", tt.count, got, resp.Data)
			}
		})
	}
}

func TestRoutes_Errors(t *testing.T) {
	s, key, table := setupService(t)

	tests := []struct {
		name string
		url  string
		code int
	}{
		{"无效账号", "/api/v1/chats?userMd5=nothex", http.StatusBadRequest},
		{"缺少账号", "/api/v1/chats", http.StatusBadRequest},
		{"缺少表名", "/api/v1/chats/messages?userMd5=" + key, http.StatusBadRequest},
		{"非法表名", "/api/v1/chats/messages?userMd5=" + key + "&table=Chat_x;drop", http.StatusBadRequest},
		{"非法日期", "/api/v1/chats/messages?userMd5=" + key + "&table=" + table + "&startDate=2023-13-01", http.StatusBadRequest},
		{"账号不存在", "/api/v1/users/" + key, http.StatusNotFound},
		{"无头像", "/api/v1/users/" + wxid.AccountKey("wxid_nobody") + "/avatar", http.StatusNotFound},
		{"头像账号无效", "/api/v1/users/nothex/avatar", http.StatusBadRequest},
		{"不支持的格式", "/api/v1/export/chat?userMd5=" + key + "&tableName=" + table + "&format=pdf", http.StatusBadRequest},
		{"会话不存在", "/api/v1/export/chat?userMd5=" + key + "&tableName=Chat_00", http.StatusNotFound},
		{"未知路由", "/api/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(s, tt.url)
			if w.Code != tt.code {
				t.Fatalf("期望 %d, 实际 %d: %s", tt.code, w.Code, w.Body.String())
			}
			if tt.code == http.StatusNotFound && strings.HasPrefix(tt.url, "/api/v1/unknown") {
				return
			}
			var resp transport.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("解析错误响应失败: %v", err)
			}
			if resp.Success || resp.Error.Code != tt.code {
				t.Errorf("错误响应不正确: %+v", resp)
			}
		})
	}
}

func TestExportChat_CSV(t *testing.T) {
	s, key, table := setupService(t)

	w := doGet(s, "/api/v1/export/chat?userMd5="+key+"&tableName="+table+"&format=csv")
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d: %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "chat_"+table+".csv") {
		t.Errorf("Content-Disposition 不正确: %s", cd)
	}
	body := w.Body.Bytes()
	if !bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}) || !bytes.Contains(body, []byte("在吗")) {
		t.Errorf("CSV 内容不正确: %q", body)
	}
}

func TestGetUserAvatar_CaseInsensitive(t *testing.T) {
	s, key, _ := setupService(t)

	for _, k := range []string{key, strings.ToUpper(key)} {
		w := doGet(s, "/api/v1/users/"+k+"/avatar")
		if w.Code != http.StatusOK {
			t.Fatalf("%s: 期望 200, 实际 %d: %s", k, w.Code, w.Body.String())
		}
		if w.Body.String() != "jpeg-data" {
			t.Errorf("%s: 头像内容不正确: %q", k, w.Body.String())
		}
	}
}

func TestMiddleware_RequestIDAndMetrics(t *testing.T) {
	s, _, _ := setupService(t)

	w := doGet(s, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("健康检查失败: %d", w.Code)
	}
	if w.Header().Get(HeaderRequestID) == "" {
		t.Error("响应应带有请求 ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderRequestID, "fixed-id")
	w = httptest.NewRecorder()
	s.GetRouter().ServeHTTP(w, req)
	if got := w.Header().Get(HeaderRequestID); got != "fixed-id" {
		t.Errorf("应沿用客户端的请求 ID, 实际 %q", got)
	}

	w = doGet(s, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("metrics 返回 %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `wxbackup_http_requests_total{route="/health",status="200"}`) {
		t.Error("metrics 中缺少请求计数")
	}
}

func TestSystemStatus(t *testing.T) {
	s, _, _ := setupService(t)

	w := doGet(s, "/api/v1/system/status")
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d", w.Code)
	}
	var resp struct {
		Data model.SystemStatus `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if resp.Data.Accounts != 1 {
		t.Errorf("期望 1 个账号, 实际 %d", resp.Data.Accounts)
	}
	if resp.Data.Refresh != nil {
		t.Errorf("未配置定时刷新时不应返回 refresh: %+v", resp.Data.Refresh)
	}
}

func TestSystemStatus_Refresh(t *testing.T) {
	base, _, _ := setupService(t)

	sched := refresh.NewScheduler(base.store.Reload, time.Hour)
	if !sched.RunOnce() {
		t.Fatal("RunOnce 应执行")
	}
	s := NewService(base.store, &Config{ListenAddr: "127.0.0.1:0", Refresh: sched})

	w := doGet(s, "/api/v1/system/status")
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d", w.Code)
	}
	var resp struct {
		Data model.SystemStatus `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	rs := resp.Data.Refresh
	if rs == nil || rs.Runs != 1 || rs.LastStatus != "success" || rs.Interval != "1h0m0s" || rs.Enabled {
		t.Errorf("定时刷新状态不正确: %+v", rs)
	}
}
