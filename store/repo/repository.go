package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/afumu/wxbackup/pkg/wxid"
	"github.com/afumu/wxbackup/store/bind"
	"github.com/afumu/wxbackup/store/core"
	"github.com/afumu/wxbackup/store/types"
)

// Repository 是数据访问层的入口，聚合了路由和连接池
type Repository struct {
	router *bind.AccountRouter
	pool   *core.ConnectionPool
	reader bind.TableReader
}

// New 创建一个新的 Repository
func New(router *bind.AccountRouter, pool *core.ConnectionPool) *Repository {
	return &Repository{
		router: router,
		pool:   pool,
		reader: router.Reader(),
	}
}

// normalizeKey 校验账号 key 并统一为小写
func normalizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if !wxid.IsAccountKey(key) {
		return "", fmt.Errorf("%q: %w", key, types.ErrInvalidAccountKey)
	}
	return strings.ToLower(key), nil
}

// openTable 校验表名并借出第一个包含该表的分片连接，调用方负责 release。
// 表不存在时返回 bind.ErrTableNotFound。
func (r *Repository) openTable(ctx context.Context, key, table string) (*sql.DB, core.ReleaseFunc, error) {
	if !r.router.Strategy().IsChatTable(table) {
		return nil, nil, fmt.Errorf("%q: %w", table, types.ErrInvalidTableName)
	}

	path, err := r.router.LocateTable(ctx, key, table)
	if err != nil {
		return nil, nil, err
	}
	return r.pool.Acquire(path)
}
