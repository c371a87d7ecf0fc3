package api

import (
	"github.com/afumu/wxbackup/internal/model"
	"github.com/afumu/wxbackup/store"
	"github.com/afumu/wxbackup/web/export"
)

// RefreshReporter 提供定时刷新的状态
type RefreshReporter interface {
	Status() model.RefreshStatus
}

// API 封装了 API 处理器所需的所有依赖。
type API struct {
	Store   store.Store
	Export  *export.Service
	Refresh RefreshReporter // 未启用定时刷新时为 nil
}

// NewAPI 创建一个新的 API 处理器。
func NewAPI(s store.Store, refresh RefreshReporter) *API {
	return &API{
		Store:   s,
		Export:  export.NewService(s),
		Refresh: refresh,
	}
}
