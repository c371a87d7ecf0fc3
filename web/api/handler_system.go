package api

import (
	"github.com/afumu/wxbackup/internal/model"
	"github.com/afumu/wxbackup/web/transport"
	"github.com/gin-gonic/gin"
)

// GetSystemStatus 返回备份目录、账号数、连接池和定时刷新的当前状态。
func (a *API) GetSystemStatus(c *gin.Context) {
	transport.SendSuccess(c, a.status(c))
}

func (a *API) status(c *gin.Context) *model.SystemStatus {
	status := a.Store.Status(c.Request.Context())
	if a.Refresh != nil {
		rs := a.Refresh.Status()
		status.Refresh = &rs
	}
	return status
}

// Reload 关闭所有数据库连接，下次查询时重新打开
func (a *API) Reload(c *gin.Context) {
	if err := a.Store.Reload(); err != nil {
		transport.SendStoreError(c, err, "重新加载失败")
		return
	}
	transport.SendSuccess(c, a.status(c))
}
