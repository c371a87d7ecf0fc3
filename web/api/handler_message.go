package api

import (
	"github.com/afumu/wxbackup/internal/model"
	"github.com/afumu/wxbackup/store/types"
	"github.com/afumu/wxbackup/web/transport"
	"github.com/gin-gonic/gin"
)

type MessageRequest struct {
	transport.ChatQuery
	transport.PaginationQuery
}

// bindMessageQuery 绑定查询参数并转换为 store 查询，失败时已写入响应
func bindMessageQuery(c *gin.Context) (types.MessageQuery, bool) {
	var req MessageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		transport.BadRequest(c, "无效的消息查询参数: "+err.Error())
		return types.MessageQuery{}, false
	}
	if req.Name() == "" {
		transport.BadRequest(c, "缺少 tableName 参数")
		return types.MessageQuery{}, false
	}

	return types.MessageQuery{
		Account:   req.UserMD5,
		Table:     req.Name(),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Limit:     req.PageSize(),
		Offset:    req.Offset,
		IsGroup:   req.IsGroup,
	}, true
}

// GetMessages 返回一张聊天表中的消息，未指定日期时只返回最近一天
func (a *API) GetMessages(c *gin.Context) {
	query, ok := bindMessageQuery(c)
	if !ok {
		return
	}

	messages, err := a.Store.GetMessages(c.Request.Context(), query)
	if err != nil {
		transport.SendStoreError(c, err, "获取消息失败")
		return
	}
	if messages == nil {
		messages = make([]model.MessageRow, 0)
	}
	transport.SendSuccess(c, messages)
}

// GetViewMessages 与 GetMessages 相同，群聊文本消息额外带上 sender 与 cleanedMessage
func (a *API) GetViewMessages(c *gin.Context) {
	query, ok := bindMessageQuery(c)
	if !ok {
		return
	}

	messages, err := a.Store.GetViewMessages(c.Request.Context(), query)
	if err != nil {
		transport.SendStoreError(c, err, "获取消息失败")
		return
	}
	if messages == nil {
		messages = make([]model.MessageRow, 0)
	}
	transport.SendSuccess(c, messages)
}

// GetMessageDates 返回聊天表中有消息的日期，按时间倒序
func (a *API) GetMessageDates(c *gin.Context) {
	var req transport.ChatQuery
	if err := c.ShouldBindQuery(&req); err != nil || req.Name() == "" {
		transport.BadRequest(c, "缺少 userMd5 或 tableName 参数")
		return
	}

	dates, err := a.Store.GetMessageDates(c.Request.Context(), req.UserMD5, req.Name())
	if err != nil {
		transport.SendStoreError(c, err, "获取消息日期失败")
		return
	}
	if dates == nil {
		dates = []string{}
	}
	transport.SendSuccess(c, dates)
}

// GetMessageTexts 返回会话的纯文本，供外部摘要工具使用
func (a *API) GetMessageTexts(c *gin.Context) {
	query, ok := bindMessageQuery(c)
	if !ok {
		return
	}

	texts, err := a.Store.GetMessageTexts(c.Request.Context(), query)
	if err != nil {
		transport.SendStoreError(c, err, "提取消息文本失败")
		return
	}
	transport.SendSuccess(c, texts)
}
