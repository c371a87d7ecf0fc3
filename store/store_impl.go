package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/afumu/wxbackup/internal/model"
	"github.com/afumu/wxbackup/pkg/wordcloud"
	"github.com/afumu/wxbackup/pkg/wxid"
	"github.com/afumu/wxbackup/store/bind"
	"github.com/afumu/wxbackup/store/core"
	"github.com/afumu/wxbackup/store/repo"
	"github.com/afumu/wxbackup/store/strategy"
	"github.com/afumu/wxbackup/store/types"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Option 定制 DefaultStore
type Option func(*options)

type options struct {
	watch     bool
	segmenter wordcloud.Segmenter
}

// WithWatch 是否监听备份目录的文件变化，默认开启
func WithWatch(enabled bool) Option {
	return func(o *options) { o.watch = enabled }
}

// WithSegmenter 替换词频统计使用的分词器
func WithSegmenter(seg wordcloud.Segmenter) Option {
	return func(o *options) { o.segmenter = seg }
}

// DefaultStore 是 Store 接口的默认实现
type DefaultStore struct {
	root      string
	pool      *core.ConnectionPool
	router    *bind.AccountRouter
	watcher   *core.Watcher // 未开启监听时为 nil
	repo      *repo.Repository
	segmenter wordcloud.Segmenter
	startedAt time.Time
}

// NewStore 初始化一个新的存储实例，备份根目录不存在时返回 ErrBackupRootNotFound
func NewStore(root string, opts ...Option) (*DefaultStore, error) {
	o := options{watch: true}
	for _, opt := range opts {
		opt(&o)
	}

	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, types.ErrBackupRootNotFound)
	}

	// 1. 初始化核心组件
	pool := core.NewConnectionPool(root)

	// 2. 策略层
	strat := strategy.NewIOS()
	router := bind.NewAccountRouter(root, pool, strat)

	// 3. 初始化仓储
	s := &DefaultStore{
		root:      root,
		pool:      pool,
		router:    router,
		repo:      repo.New(router, pool),
		segmenter: o.segmenter,
		startedAt: time.Now(),
	}

	// 4. 启动文件监听
	if o.watch {
		if err := s.startWatcher(); err != nil {
			// 监听失败不影响只读查询
			log.Warn().Err(err).Str("root", root).Msg("启动文件监听失败，连接不会自动刷新")
		}
	}

	log.Info().Str("root", root).Bool("watch", s.watcher != nil).Msg("存储初始化完成")
	return s, nil
}

// startWatcher 监听根目录和每个账号的 DB 目录
func (s *DefaultStore) startWatcher() error {
	watcher, err := core.NewWatcher(s.root)
	if err != nil {
		return err
	}

	keys, err := s.router.ScanAccounts()
	if err != nil {
		watcher.Stop()
		return err
	}
	for _, key := range keys {
		if err := watcher.Add(s.router.DBDir(key)); err != nil {
			log.Warn().Err(err).Str("account", key).Msg("监控账号目录失败")
		}
	}

	s.watcher = watcher
	watcher.AddCallback(s.onEvent)
	watcher.Start()
	return nil
}

// onEvent 注册自动刷新逻辑：被识别的数据文件发生变化时关闭对应连接；新账号目录出现时追加监听
func (s *DefaultStore) onEvent(event fsnotify.Event) {
	name := filepath.Base(event.Name)

	if meta, ok := s.router.Strategy().Identify(name); ok {
		if event.Has(fsnotify.Write) || event.Has(fsnotify.Remove) ||
			event.Has(fsnotify.Rename) || event.Has(fsnotify.Create) {
			log.Debug().Str("file", event.Name).Str("type", meta.Type.String()).Msg("数据文件变化，淘汰旧连接")
			s.pool.Evict(event.Name)
		}
		return
	}

	if event.Has(fsnotify.Create) && wxid.IsAccountKey(name) {
		dbDir := filepath.Join(event.Name, bind.DBDirName)
		if info, err := os.Stat(dbDir); err == nil && info.IsDir() {
			log.Info().Str("account", name).Msg("发现新的账号目录")
			_ = s.watcher.Add(dbDir)
		}
	}
}

func (s *DefaultStore) Close() error {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	return s.pool.CloseAll()
}

// --- 下面是 Store 接口的代理实现 ---

func (s *DefaultStore) ListUsers(ctx context.Context) (map[string]*model.UserInfo, error) {
	return s.repo.ListUsers(ctx)
}

func (s *DefaultStore) GetUser(ctx context.Context, key string) (*model.UserInfo, error) {
	return s.repo.GetUser(ctx, key)
}

func (s *DefaultStore) GetUserAvatar(_ context.Context, key string) (string, error) {
	return s.repo.GetUserAvatar(key)
}

func (s *DefaultStore) GetContacts(ctx context.Context, key string) (map[string]*model.ContactInfo, error) {
	return s.repo.GetContacts(ctx, key)
}

func (s *DefaultStore) ListChats(ctx context.Context, key string, minCount int) ([]*model.ChatTable, error) {
	return s.repo.ListChats(ctx, key, minCount)
}

func (s *DefaultStore) GetMessages(ctx context.Context, query types.MessageQuery) ([]model.MessageRow, error) {
	return s.repo.GetMessages(ctx, query)
}

func (s *DefaultStore) GetViewMessages(ctx context.Context, query types.MessageQuery) ([]model.MessageRow, error) {
	return s.repo.GetViewMessages(ctx, query)
}

func (s *DefaultStore) GetMessageDates(ctx context.Context, key, table string) ([]string, error) {
	return s.repo.GetMessageDates(ctx, key, table)
}

func (s *DefaultStore) GetMessageTexts(ctx context.Context, query types.MessageQuery) (*model.MessageTexts, error) {
	return s.repo.GetMessageTexts(ctx, query)
}

func (s *DefaultStore) GetStatistics(ctx context.Context, query types.AnalysisQuery) (*model.ChatStatistics, error) {
	return s.repo.GetStatistics(ctx, query)
}

func (s *DefaultStore) GetUserActivity(ctx context.Context, query types.AnalysisQuery) (*model.UserActivity, error) {
	return s.repo.GetUserActivity(ctx, query)
}

func (s *DefaultStore) GetWordFrequency(ctx context.Context, query types.AnalysisQuery) ([]*wordcloud.WordItem, error) {
	return s.repo.GetWordFrequency(ctx, query, s.segmenter)
}

func (s *DefaultStore) Status(ctx context.Context) *model.SystemStatus {
	status := &model.SystemStatus{
		BackupRoot:      s.root,
		OpenConnections: s.pool.Len(),
		WatchedDirs:     []string{},
		StartedAt:       s.startedAt,
	}
	if keys, err := s.router.ScanAccounts(); err == nil {
		status.Accounts = len(keys)
	}
	if s.watcher != nil {
		status.WatchedDirs = s.watcher.WatchList()
	}
	return status
}

func (s *DefaultStore) Watch(callback func(event fsnotify.Event) error) error {
	if s.watcher == nil {
		return errors.New("文件监听未启用")
	}
	s.watcher.AddCallback(func(event fsnotify.Event) {
		if err := callback(event); err != nil {
			log.Warn().Err(err).Str("file", event.Name).Msg("文件事件回调失败")
		}
	})
	return nil
}

// Reload 重新加载存储：淘汰所有连接，下次查询时重新发现并打开分片。
// 正在进行的查询继续使用旧连接，归还后旧连接才会关闭。
func (s *DefaultStore) Reload() error {
	s.pool.EvictAll()
	log.Info().Int("pending", s.pool.Pending()).Msg("存储已重新加载")
	return nil
}
