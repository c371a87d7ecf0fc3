package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes 初始化所有应用程序路由。
func (s *Service) setupRoutes() {
	v1 := s.router.Group("/api/v1")
	{
		// 系统路由
		system := v1.Group("/system")
		{
			system.GET("/status", s.api.GetSystemStatus)
			system.POST("/reload", s.api.Reload)
		}

		// 账号路由
		v1.GET("/users", s.api.ListUsers)
		v1.GET("/users/:md5", s.api.GetUser)
		v1.GET("/users/:md5/avatar", s.api.GetUserAvatar)

		// 联系人路由
		v1.GET("/contacts", s.api.GetContacts)

		// 会话与消息路由
		chats := v1.Group("/chats")
		{
			chats.GET("", s.api.ListChats)
			chats.GET("/messages", s.api.GetMessages)
			chats.GET("/dates", s.api.GetMessageDates)
			chats.GET("/view/messages", s.api.GetViewMessages)
			chats.GET("/texts", s.api.GetMessageTexts)
		}

		// 分析路由
		analytics := v1.Group("/analytics")
		{
			analytics.GET("/statistics", s.api.GetStatistics)
			analytics.GET("/activity", s.api.GetUserActivity)
			analytics.GET("/wordfreq", s.api.GetWordFrequency)
		}

		// 导出路由
		v1.GET("/export/chat", s.api.ExportChat)
		v1.GET("/export/chats", s.api.ExportChats)
	}

	// 健康检查
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if s.conf.MetricsEnabled {
		s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "API route not found"})
	})
}
