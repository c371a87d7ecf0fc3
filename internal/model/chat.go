package model

// ChatContact 会话对象的身份信息
type ChatContact struct {
	MD5      string `json:"md5"`
	WechatID string `json:"wechatId"`
	Nickname string `json:"nickname"`
	IsGroup  bool   `json:"isGroup"`
}

// ChatTable 描述一张聊天表及其最近一条消息
type ChatTable struct {
	TableName          string      `json:"tableName"`
	MessageCount       int         `json:"messageCount"`
	Contact            ChatContact `json:"contact"`
	LastMessageTime    *int64      `json:"lastMessageTime,omitempty"`
	LastMessagePreview *string     `json:"lastMessagePreview,omitempty"`
}

// LastTime 返回最后消息时间，缺失时为 0
func (c *ChatTable) LastTime() int64 {
	if c.LastMessageTime == nil {
		return 0
	}
	return *c.LastMessageTime
}

// UserInfo 备份中一个账号的目录信息
type UserInfo struct {
	MD5      string `json:"md5"`
	WechatID string `json:"wechatId"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar,omitempty"`
}
