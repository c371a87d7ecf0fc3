package transport

import (
	"errors"
	"net/http"

	"github.com/afumu/wxbackup/store"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrorResponse 是请求失败时的标准化 JSON 响应。
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   APIError `json:"error"`
}

// APIError 表示返回给客户端的详细错误信息。
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SendError 使用给定的 HTTP 状态码和标准化的 JSON 错误载荷进行响应。
func SendError(c *gin.Context, httpStatus int, message string) {
	c.AbortWithStatusJSON(httpStatus, ErrorResponse{
		Success: false,
		Error: APIError{
			Code:    httpStatus,
			Message: message,
		},
	})
}

// BadRequest 发送一个 400 Bad Request 错误。
func BadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

// NotFound 发送一个 404 Not Found 错误。
func NotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

// InternalServerError 发送一个 500 Internal Server Error 错误。
func InternalServerError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, message)
}

// SendStoreError 把 store 返回的错误映射为 HTTP 状态码。
// 参数类错误返回 400，找不到账号或头像返回 404，其余记录日志并返回 500。
func SendStoreError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, store.ErrInvalidAccountKey),
		errors.Is(err, store.ErrInvalidTableName),
		errors.Is(err, store.ErrInvalidDate):
		BadRequest(c, err.Error())
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrAvatarNotFound):
		NotFound(c, err.Error())
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg(message)
		InternalServerError(c, message)
	}
}
