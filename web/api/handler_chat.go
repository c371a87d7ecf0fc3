package api

import (
	"github.com/afumu/wxbackup/web/transport"
	"github.com/gin-gonic/gin"
)

type ChatListRequest struct {
	transport.AccountQuery
	// Limit 是会话的最少消息数，消息数不超过它的会话会被跳过
	Limit int `form:"limit,default=0"`
}

// ListChats 返回按最后消息时间排序的会话列表
func (a *API) ListChats(c *gin.Context) {
	var req ChatListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		transport.BadRequest(c, "无效的会话查询参数: "+err.Error())
		return
	}

	chats, err := a.Store.ListChats(c.Request.Context(), req.UserMD5, req.Limit)
	if err != nil {
		transport.SendStoreError(c, err, "获取会话列表失败")
		return
	}
	transport.SendSuccess(c, chats)
}
