package core

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

// ErrNotExist 数据库文件不存在
var ErrNotExist = errors.New("数据库文件不存在")

// ReleaseFunc 归还通过 Acquire 借出的连接，可以重复调用
type ReleaseFunc func()

// handle 是池中的一个连接及其借用计数
type handle struct {
	db      *sql.DB
	path    string
	refs    int
	retired bool // 已从池中移除，最后一个使用者归还后关闭
	closed  bool
}

// ConnectionPool 负责管理备份中 SQLite 文件的只读连接。
// 同一个文件只会被打开一次；只缓存连接，不缓存任何查询结果。
// 被淘汰的连接在所有借用者归还之后才会真正关闭，查询过程中的刷新不会打断正在进行的读取。
type ConnectionPool struct {
	mu      sync.Mutex
	connMap map[string]*handle // 路径 -> 连接
	retired map[*handle]struct{}
	root    string
}

// NewConnectionPool 创建一个新的连接池
func NewConnectionPool(root string) *ConnectionPool {
	return &ConnectionPool{
		connMap: make(map[string]*handle),
		retired: make(map[*handle]struct{}),
		root:    root,
	}
}

// Root 返回备份根目录
func (p *ConnectionPool) Root() string {
	return p.root
}

// Len 返回当前缓存的连接数，不含等待关闭的旧连接
func (p *ConnectionPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.connMap)
}

// Pending 返回已淘汰但仍被借用的连接数
func (p *ConnectionPool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.retired)
}

// Acquire 借出指定路径的数据库连接，用完后必须调用返回的 ReleaseFunc。
// 文件不存在时返回 ErrNotExist，调用方据此把分片视为缺失。
func (p *ConnectionPool) Acquire(path string) (*sql.DB, ReleaseFunc, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%s: %w", path, ErrNotExist)
		}
		return nil, nil, fmt.Errorf("数据库文件 %s 不可用: %w", path, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	h, ok := p.connMap[path]
	if ok && h.db.Ping() != nil {
		// 连接失效，交给淘汰流程处理
		p.retireLocked(h)
		ok = false
	}
	if !ok {
		db, err := openReadOnly(path)
		if err != nil {
			return nil, nil, err
		}
		h = &handle{db: db, path: path}
		p.connMap[path] = h
	}

	h.refs++
	var once sync.Once
	return h.db, func() { once.Do(func() { p.release(h) }) }, nil
}

func (p *ConnectionPool) release(h *handle) {
	p.mu.Lock()
	defer p.mu.Unlock()

	h.refs--
	if h.retired && h.refs == 0 {
		delete(p.retired, h)
		closeHandle(h)
	}
}

// retireLocked 把连接移出池，没有借用者时立即关闭。调用方必须持有锁
func (p *ConnectionPool) retireLocked(h *handle) {
	if p.connMap[h.path] == h {
		delete(p.connMap, h.path)
	}
	h.retired = true
	if h.refs == 0 {
		closeHandle(h)
		return
	}
	p.retired[h] = struct{}{}
}

func closeHandle(h *handle) {
	if h.closed {
		return
	}
	h.closed = true
	if err := h.db.Close(); err != nil {
		log.Warn().Err(err).Str("db", h.path).Msg("关闭数据库连接失败")
	}
}

// openReadOnly 以只读模式 (mode=ro) 打开文件，备份文件永远不会被修改
func openReadOnly(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", readOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("无法打开数据库文件 %s: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("数据库文件 %s 连接测试失败: %w", path, err)
	}
	return db, nil
}

// readOnlyDSN 生成 file: URI，路径中的 ? # % 等字符需要转义
func readOnlyDSN(path string) string {
	u := url.URL{
		Scheme:   "file",
		Opaque:   (&url.URL{Path: filepath.ToSlash(path)}).EscapedPath(),
		RawQuery: "mode=ro",
	}
	return u.String()
}

// Evict 淘汰特定路径的连接，下一次 Acquire 会重新打开文件
func (p *ConnectionPool) Evict(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if h, ok := p.connMap[path]; ok {
		p.retireLocked(h)
	}
}

// EvictAll 淘汰池中所有连接
func (p *ConnectionPool) EvictAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, h := range p.connMap {
		p.retireLocked(h)
	}
}

// CloseAll 立即关闭所有连接，包括仍被借用的旧连接。只在退出时调用
func (p *ConnectionPool) CloseAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	closeNow := func(h *handle) {
		if h.closed {
			return
		}
		h.closed = true
		if err := h.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("关闭 %s 失败: %w", h.path, err))
		}
	}
	for _, h := range p.connMap {
		closeNow(h)
	}
	for h := range p.retired {
		closeNow(h)
	}
	p.connMap = make(map[string]*handle)
	p.retired = make(map[*handle]struct{})

	if len(errs) > 0 {
		return fmt.Errorf("关闭连接池时出现错误: %w", errors.Join(errs...))
	}
	return nil
}
