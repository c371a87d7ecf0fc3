package transport

import "strings"

// AccountQuery 指定备份中的账号
type AccountQuery struct {
	UserMD5 string `form:"userMd5" binding:"required"`
}

// ChatQuery 指定账号下的一张聊天表及可选的日期范围。
// 表名可以通过 tableName 或 table 传入。
type ChatQuery struct {
	AccountQuery
	TableName string `form:"tableName"`
	Table     string `form:"table"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	IsGroup   bool   `form:"isGroup"`
}

// Name 返回请求的表名
func (q *ChatQuery) Name() string {
	if q.TableName != "" {
		return strings.TrimSpace(q.TableName)
	}
	return strings.TrimSpace(q.Table)
}

// DefaultLimit 未指定或指定为非正数时每页返回的条数
const DefaultLimit = 100

// PaginationQuery 定义了列表请求的通用分页参数。
type PaginationQuery struct {
	Limit  int `form:"limit,default=100"`
	Offset int `form:"offset,default=0"`
}

// PageSize 返回实际使用的每页条数，limit=0 或负数按默认值处理
func (q *PaginationQuery) PageSize() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}
