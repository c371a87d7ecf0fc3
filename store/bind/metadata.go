package bind

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/afumu/wxbackup/store/strategy"
)

// TableReader 封装了读取消息分片的 SQL 操作，所有语句都是只读的
type TableReader struct{}

// LastMessage 一张表中按时间最新的一条消息
type LastMessage struct {
	CreateTime int64
	Type       int
	Message    any // TEXT 或 BLOB，由调用方规范化
}

// QuoteIdent 以双引号包裹标识符
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// TableExists 检查表是否存在
func (r TableReader) TableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var name string
	err := db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListChatTables 列出分片中所有 Chat_ / ChatExt2_ 表
func (r TableReader) ListChatTables(ctx context.Context, db *sql.DB) ([]string, error) {
	query := "SELECT name FROM sqlite_master WHERE type = 'table' AND " + strategy.ChatTableFilter
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("列出聊天表失败: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// CountRows 统计表的行数
func (r TableReader) CountRows(ctx context.Context, db *sql.DB, table string) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+QuoteIdent(table)).Scan(&count)
	return count, err
}

// LastMessage 读取最新一条消息，表为空时返回 nil
func (r TableReader) LastMessage(ctx context.Context, db *sql.DB, table string) (*LastMessage, error) {
	query := "SELECT CreateTime, Message, Type FROM " + QuoteIdent(table) + " ORDER BY CreateTime DESC LIMIT 1"

	var (
		createTime sql.NullInt64
		msgType    sql.NullInt64
		message    any
	)
	err := db.QueryRowContext(ctx, query).Scan(&createTime, &message, &msgType)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &LastMessage{
		CreateTime: createTime.Int64,
		Type:       int(msgType.Int64),
		Message:    message,
	}, nil
}

// MaxCreateTime 返回最大的 CreateTime，表为空时第二个返回值为 false
func (r TableReader) MaxCreateTime(ctx context.Context, db *sql.DB, table string) (int64, bool, error) {
	var maxTime sql.NullInt64
	err := db.QueryRowContext(ctx, "SELECT MAX(CreateTime) FROM "+QuoteIdent(table)).Scan(&maxTime)
	if err != nil {
		return 0, false, err
	}
	return maxTime.Int64, maxTime.Valid && maxTime.Int64 != 0, nil
}

// Filter 是 SelectRows 的查询条件
type Filter struct {
	Conditions []string
	Args       []any
	Limit      int // <= 0 表示不限制
	Offset     int
}

// SelectRows 按 CreateTime 倒序读取整行，列原样保留
func (r TableReader) SelectRows(ctx context.Context, db *sql.DB, table string, f Filter) ([]map[string]any, error) {
	query := "SELECT * FROM " + QuoteIdent(table)
	if len(f.Conditions) > 0 {
		query += " WHERE " + strings.Join(f.Conditions, " AND ")
	}
	query += " ORDER BY CreateTime DESC LIMIT ? OFFSET ?"

	limit := f.Limit
	if limit <= 0 {
		limit = -1
	}
	args := append(append([]any{}, f.Args...), limit, f.Offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询表 %s 失败: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// DistinctDates 返回本地时区下所有有消息的日期，按日期倒序
func (r TableReader) DistinctDates(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	query := "SELECT DISTINCT date(CreateTime, 'unixepoch', 'localtime') AS d FROM " +
		QuoteIdent(table) + " WHERE CreateTime IS NOT NULL ORDER BY d DESC"
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("查询日期失败: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d sql.NullString
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		if d.Valid && d.String != "" {
			dates = append(dates, d.String)
		}
	}
	return dates, rows.Err()
}
