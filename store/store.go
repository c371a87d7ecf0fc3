package store

import (
	"context"

	"github.com/afumu/wxbackup/internal/model"
	"github.com/afumu/wxbackup/pkg/wordcloud"
	"github.com/afumu/wxbackup/store/types"
	"github.com/fsnotify/fsnotify"
)

// Store 定义了数据访问的统一接口。
// 它屏蔽了备份目录的文件结构和分片细节，所有操作都是只读的。
type Store interface {
	// 账号操作
	ListUsers(ctx context.Context) (map[string]*model.UserInfo, error)
	GetUser(ctx context.Context, key string) (*model.UserInfo, error)
	GetUserAvatar(ctx context.Context, key string) (string, error)

	// 联系人操作
	GetContacts(ctx context.Context, key string) (map[string]*model.ContactInfo, error)

	// 会话与消息操作
	ListChats(ctx context.Context, key string, minCount int) ([]*model.ChatTable, error)
	GetMessages(ctx context.Context, query types.MessageQuery) ([]model.MessageRow, error)
	GetViewMessages(ctx context.Context, query types.MessageQuery) ([]model.MessageRow, error)
	GetMessageDates(ctx context.Context, key, table string) ([]string, error)
	GetMessageTexts(ctx context.Context, query types.MessageQuery) (*model.MessageTexts, error)

	// 分析操作
	GetStatistics(ctx context.Context, query types.AnalysisQuery) (*model.ChatStatistics, error)
	GetUserActivity(ctx context.Context, query types.AnalysisQuery) (*model.UserActivity, error)
	GetWordFrequency(ctx context.Context, query types.AnalysisQuery) ([]*wordcloud.WordItem, error)

	// Status 返回运行状态
	Status(ctx context.Context) *model.SystemStatus

	// Watch 注册文件系统事件的回调函数
	Watch(callback func(event fsnotify.Event) error) error

	// Reload 关闭所有连接，下次查询时重新打开
	Reload() error

	// 生命周期管理
	Close() error
}
