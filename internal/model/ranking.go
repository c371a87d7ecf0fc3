package model

// MemberActivity 群成员发言排行项
type MemberActivity struct {
	Rank         int    `json:"rank"`
	UserName     string `json:"userName"`
	MessageCount int    `json:"messageCount"`
}

// UserActivity 群聊活跃度
type UserActivity struct {
	TotalUsers int               `json:"totalUsers"`
	Ranking    []*MemberActivity `json:"ranking"`
}
