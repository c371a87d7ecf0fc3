package types

import (
	"fmt"
	"time"
)

// DateLayout 查询参数中使用的日期格式
const DateLayout = "2006-01-02"

// MessageQuery 封装了查询消息的参数
type MessageQuery struct {
	Account   string // 账号 AccountKey
	Table     string // 聊天表名
	StartDate string // YYYY-MM-DD，可选
	EndDate   string // YYYY-MM-DD，可选，包含当天
	Limit     int    // <= 0 表示不限制
	Offset    int
	// FullRange 未指定日期时读取全部消息；为 false 时只读取最近一天
	FullRange bool
	IsGroup   bool
}

// HasDates 是否指定了日期范围
func (q MessageQuery) HasDates() bool {
	return q.StartDate != "" || q.EndDate != ""
}

// Range 把日期参数转换为本地时区的时间戳区间。
// 结束日期包含当天 23:59:59；未指定的一端返回 0。
func (q MessageQuery) Range() (start, end int64, err error) {
	if q.StartDate != "" {
		t, err := time.ParseInLocation(DateLayout, q.StartDate, time.Local)
		if err != nil {
			return 0, 0, fmt.Errorf("开始日期 %q: %w", q.StartDate, ErrInvalidDate)
		}
		start = t.Unix()
	}
	if q.EndDate != "" {
		t, err := time.ParseInLocation(DateLayout, q.EndDate, time.Local)
		if err != nil {
			return 0, 0, fmt.Errorf("结束日期 %q: %w", q.EndDate, ErrInvalidDate)
		}
		end = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.Local).Unix()
	}
	return start, end, nil
}

// AnalysisQuery 统计分析的参数
type AnalysisQuery struct {
	MessageQuery
	TopN int // 词频返回数量
}

// ExportQuery 导出参数
type ExportQuery struct {
	MessageQuery
	Format string // json / csv / xlsx
}
