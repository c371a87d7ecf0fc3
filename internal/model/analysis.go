package model

// HourlyStat 每小时活跃度统计
type HourlyStat struct {
	Hour  int `json:"hour"`  // 0-23
	Count int `json:"count"` // 消息数量
}

// DailyStat 每日活跃度统计
type DailyStat struct {
	Date  string `json:"date"`  // YYYY-MM-DD
	Count int    `json:"count"` // 消息数量
}

// DateRange 统计区间，没有消息时两端为空
type DateRange struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

// ChatStatistics 单个会话的统计数据
type ChatStatistics struct {
	TotalMessages      int            `json:"totalMessages"`
	DateRange          DateRange      `json:"dateRange"`
	MessageTypes       map[string]int `json:"messageTypes"` // 类型名称 -> 数量
	DailyCount         []*DailyStat   `json:"dailyCount"`
	HourlyDistribution []*HourlyStat  `json:"hourlyDistribution"`
}

// MessageTexts 供外部摘要工具使用的纯文本
type MessageTexts struct {
	Lines     []string `json:"lines"`
	Text      string   `json:"text"`
	Truncated bool     `json:"truncated"`
}
