package api

import (
	"github.com/afumu/wxbackup/web/transport"
	"github.com/gin-gonic/gin"
)

// GetContacts 返回账号的联系人目录
func (a *API) GetContacts(c *gin.Context) {
	var req transport.AccountQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		transport.BadRequest(c, "缺少 userMd5 参数")
		return
	}

	contacts, err := a.Store.GetContacts(c.Request.Context(), req.UserMD5)
	if err != nil {
		transport.SendStoreError(c, err, "获取联系人失败")
		return
	}
	transport.SendSuccess(c, contacts)
}
