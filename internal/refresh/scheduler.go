// Package refresh 定时关闭数据库连接，让外部工具更新备份后下一次查询读到新数据。
// 文件监听不可用时由它兜底。
package refresh

import (
	"sync"
	"time"

	"github.com/afumu/wxbackup/internal/model"
	"github.com/rs/zerolog/log"
)

// ReloadFunc 执行一次刷新
type ReloadFunc func() error

// Scheduler 按固定间隔调用 ReloadFunc
type Scheduler struct {
	mu         sync.Mutex
	interval   time.Duration
	lastRun    time.Time
	lastStatus string
	runs       int
	running    bool
	reload     ReloadFunc
	ticker     *time.Ticker
	stopCh     chan struct{}
}

// NewScheduler 创建调度器，interval <= 0 时 Start 不做任何事
func NewScheduler(reload ReloadFunc, interval time.Duration) *Scheduler {
	return &Scheduler{reload: reload, interval: interval}
}

// Start 启动定时器，重复调用是安全的
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.interval <= 0 || s.ticker != nil {
		return
	}
	s.ticker = time.NewTicker(s.interval)
	s.stopCh = make(chan struct{})

	go func(tick <-chan time.Time, stop <-chan struct{}) {
		for {
			select {
			case <-tick:
				s.RunOnce()
			case <-stop:
				return
			}
		}
	}(s.ticker.C, s.stopCh)
	log.Info().Dur("interval", s.interval).Msg("定时刷新已启动")
}

// RunOnce 立即执行一次刷新。上一次还没结束时直接返回 false
func (s *Scheduler) RunOnce() bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return false
	}
	s.running = true
	s.mu.Unlock()

	err := s.reload()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.lastRun = time.Now()
	s.runs++
	if err != nil {
		s.lastStatus = "failed"
		log.Error().Err(err).Msg("定时刷新失败")
	} else {
		s.lastStatus = "success"
		log.Debug().Msg("定时刷新完成")
	}
	return true
}

// Status 返回当前状态，由 /system/status 展示
func (s *Scheduler) Status() model.RefreshStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.RefreshStatus{
		Enabled:    s.ticker != nil,
		Interval:   s.interval.String(),
		LastRun:    s.lastRun,
		LastStatus: s.lastStatus,
		Runs:       s.runs,
	}
}

// Stop 停止定时器
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticker != nil {
		s.ticker.Stop()
		close(s.stopCh)
		s.ticker = nil
		s.stopCh = nil
	}
}
