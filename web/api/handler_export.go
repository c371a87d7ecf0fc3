package api

import (
	"errors"

	"github.com/afumu/wxbackup/store/types"
	"github.com/afumu/wxbackup/web/export"
	"github.com/afumu/wxbackup/web/transport"
	"github.com/gin-gonic/gin"
)

type ExportRequest struct {
	transport.ChatQuery
	Format string `form:"format,default=json"`
}

// ExportChat 导出单个会话，支持 json / csv / xlsx
func (a *API) ExportChat(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil || req.Name() == "" {
		transport.BadRequest(c, "缺少 userMd5 或 tableName 参数")
		return
	}

	file, err := a.Export.ExportChat(c.Request.Context(), types.ExportQuery{
		MessageQuery: types.MessageQuery{
			Account:   req.UserMD5,
			Table:     req.Name(),
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
		},
		Format: req.Format,
	})
	if err != nil {
		sendExportError(c, err)
		return
	}
	transport.SendAttachment(c, file.Name, file.ContentType, file.Data)
}

// ExportChats 导出会话列表，支持 csv / xlsx
func (a *API) ExportChats(c *gin.Context) {
	var req transport.AccountQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		transport.BadRequest(c, "缺少 userMd5 参数")
		return
	}

	file, err := a.Export.ExportChats(c.Request.Context(), req.UserMD5, c.DefaultQuery("format", export.FormatCSV))
	if err != nil {
		sendExportError(c, err)
		return
	}
	transport.SendAttachment(c, file.Name, file.ContentType, file.Data)
}

func sendExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, export.ErrUnsupportedFormat):
		transport.BadRequest(c, err.Error())
	case errors.Is(err, export.ErrChatNotFound):
		transport.NotFound(c, err.Error())
	default:
		transport.SendStoreError(c, err, "导出失败")
	}
}
