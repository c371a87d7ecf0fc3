package api

import (
	"github.com/afumu/wxbackup/web/transport"
	"github.com/gin-gonic/gin"
)

// ListUsers 返回备份中的所有账号
func (a *API) ListUsers(c *gin.Context) {
	users, err := a.Store.ListUsers(c.Request.Context())
	if err != nil {
		transport.SendStoreError(c, err, "获取账号列表失败")
		return
	}
	transport.SendSuccess(c, users)
}

// GetUser 返回单个账号的信息
func (a *API) GetUser(c *gin.Context) {
	user, err := a.Store.GetUser(c.Request.Context(), c.Param("md5"))
	if err != nil {
		transport.SendStoreError(c, err, "获取账号信息失败")
		return
	}
	transport.SendSuccess(c, user)
}

// GetUserAvatar 返回账号的本地头像文件
func (a *API) GetUserAvatar(c *gin.Context) {
	path, err := a.Store.GetUserAvatar(c.Request.Context(), c.Param("md5"))
	if err != nil {
		transport.SendStoreError(c, err, "获取头像失败")
		return
	}
	c.File(path)
}
