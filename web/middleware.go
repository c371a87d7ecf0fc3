package web

import (
	"strconv"

	"github.com/afumu/wxbackup/internal/metrics"
	"github.com/afumu/wxbackup/web/transport"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// HeaderRequestID 请求 ID 所在的头部
const HeaderRequestID = "X-Request-ID"

// setupMiddleware 配置 Gin 引擎所需的中间件。
func (s *Service) setupMiddleware() {
	handlers := []gin.HandlerFunc{
		requestIDMiddleware(),
		gin.LoggerWithWriter(log.Logger, "/health", "/metrics"),
		recoveryMiddleware(),
		corsMiddleware(),
	}
	if s.conf.MetricsEnabled {
		handlers = append(handlers, metricsMiddleware())
	}
	s.router.Use(handlers...)
}

// requestIDMiddleware 沿用客户端传入的请求 ID，没有时生成一个
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(HeaderRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// metricsMiddleware 按路由模板和状态码统计请求数
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// corsMiddleware 提供一个宽松的 CORS 策略。
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, "+HeaderRequestID)
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, "+HeaderRequestID)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// recoveryMiddleware 从任何 panic 中恢复并写入一个 500 错误。
func recoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("request_id", c.GetString(HeaderRequestID)).Msg("Panic recovered")
				transport.InternalServerError(c, "服务器内部发生错误。")
			}
		}()
		c.Next()
	}
}
