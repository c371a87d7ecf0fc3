// Package config 从 .env 文件和环境变量加载配置。
package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/afumu/wxbackup/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// 配置项名称
const (
	KeyBackupRoot      = "BACKUP_ROOT"
	KeyListenAddr      = "LISTEN_ADDR"
	KeyPort            = "PORT"
	KeyLogLevel        = "LOG_LEVEL"
	KeyLogFile         = "LOG_FILE"
	KeyLogMaxSizeMB    = "LOG_MAX_SIZE_MB"
	KeyLogMaxBackups   = "LOG_MAX_BACKUPS"
	KeyMinMessageCount = "MIN_MESSAGE_COUNT"
	KeyWatchEnabled    = "WATCH_ENABLED"
	KeyMetricsEnabled  = "METRICS_ENABLED"
	KeyRefreshInterval = "REFRESH_INTERVAL_MINUTES"
)

const defaultHost = "127.0.0.1"

// Config 服务配置
type Config struct {
	BackupRoot      string
	ListenAddr      string
	MinMessageCount int
	WatchEnabled    bool
	MetricsEnabled  bool
	// RefreshInterval 定时关闭连接的间隔，0 表示关闭
	RefreshInterval time.Duration
	Log             logging.Config
}

// SetDefaults 设置默认值
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBackupRoot, "data")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogMaxSizeMB, 50)
	v.SetDefault(KeyLogMaxBackups, 3)
	v.SetDefault(KeyMinMessageCount, 0)
	v.SetDefault(KeyWatchEnabled, true)
	v.SetDefault(KeyMetricsEnabled, true)
	v.SetDefault(KeyRefreshInterval, 0)
}

// Load 读取 envFile 和环境变量。envFile 不存在时只使用默认值和环境变量。
func Load(v *viper.Viper, envFile string) (*Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
			log.Debug().Str("file", envFile).Msg("配置文件不存在，使用默认值或环境变量")
		}
	}

	return &Config{
		BackupRoot:      v.GetString(KeyBackupRoot),
		ListenAddr:      listenAddr(v),
		MinMessageCount: v.GetInt(KeyMinMessageCount),
		WatchEnabled:    v.GetBool(KeyWatchEnabled),
		MetricsEnabled:  v.GetBool(KeyMetricsEnabled),
		RefreshInterval: time.Duration(v.GetInt(KeyRefreshInterval)) * time.Minute,
		Log: logging.Config{
			Level:      v.GetString(KeyLogLevel),
			File:       v.GetString(KeyLogFile),
			MaxSizeMB:  v.GetInt(KeyLogMaxSizeMB),
			MaxBackups: v.GetInt(KeyLogMaxBackups),
		},
	}, nil
}

// listenAddr 优先使用 LISTEN_ADDR，其次使用 PORT，最后默认 127.0.0.1:3000
func listenAddr(v *viper.Viper) string {
	if addr := v.GetString(KeyListenAddr); addr != "" {
		return addr
	}
	if port := v.GetString(KeyPort); port != "" {
		return defaultHost + ":" + port
	}
	return defaultHost + ":3000"
}
