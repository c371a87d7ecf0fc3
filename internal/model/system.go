package model

import "time"

// SystemStatus 服务运行状态
type SystemStatus struct {
	BackupRoot      string    `json:"backupRoot"`
	Accounts        int       `json:"accounts"`
	OpenConnections int       `json:"openConnections"`
	WatchedDirs     []string  `json:"watchedDirs"`
	StartedAt       time.Time `json:"startedAt"`

	Refresh *RefreshStatus `json:"refresh,omitempty"`
}

// RefreshStatus 定时刷新的状态
type RefreshStatus struct {
	Enabled    bool      `json:"enabled"`
	Interval   string    `json:"interval"`
	LastRun    time.Time `json:"lastRun"`
	LastStatus string    `json:"lastStatus"`
	Runs       int       `json:"runs"`
}
