package api

import (
	"github.com/afumu/wxbackup/store/types"
	"github.com/afumu/wxbackup/web/transport"
	"github.com/gin-gonic/gin"
)

type AnalysisRequest struct {
	transport.ChatQuery
	TopN int `form:"topN,default=100"`
}

// bindAnalysisQuery 绑定统计参数，统计总是读取日期范围内的全部消息
func bindAnalysisQuery(c *gin.Context) (types.AnalysisQuery, bool) {
	var req AnalysisRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		transport.BadRequest(c, "无效的统计参数: "+err.Error())
		return types.AnalysisQuery{}, false
	}
	if req.Name() == "" {
		transport.BadRequest(c, "缺少 tableName 参数")
		return types.AnalysisQuery{}, false
	}

	return types.AnalysisQuery{
		MessageQuery: types.MessageQuery{
			Account:   req.UserMD5,
			Table:     req.Name(),
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			IsGroup:   req.IsGroup,
		},
		TopN: req.TopN,
	}, true
}

// GetStatistics 返回会话的消息统计
func (a *API) GetStatistics(c *gin.Context) {
	query, ok := bindAnalysisQuery(c)
	if !ok {
		return
	}

	stats, err := a.Store.GetStatistics(c.Request.Context(), query)
	if err != nil {
		transport.SendStoreError(c, err, "统计消息失败")
		return
	}
	transport.SendSuccess(c, stats)
}

// GetUserActivity 返回群聊成员的发言排行
func (a *API) GetUserActivity(c *gin.Context) {
	query, ok := bindAnalysisQuery(c)
	if !ok {
		return
	}

	activity, err := a.Store.GetUserActivity(c.Request.Context(), query)
	if err != nil {
		transport.SendStoreError(c, err, "统计成员活跃度失败")
		return
	}
	transport.SendSuccess(c, activity)
}

// GetWordFrequency 返回文本消息的高频词
func (a *API) GetWordFrequency(c *gin.Context) {
	query, ok := bindAnalysisQuery(c)
	if !ok {
		return
	}

	words, err := a.Store.GetWordFrequency(c.Request.Context(), query)
	if err != nil {
		transport.SendStoreError(c, err, "统计词频失败")
		return
	}
	transport.SendSuccess(c, words)
}
