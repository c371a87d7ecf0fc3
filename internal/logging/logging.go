// Package logging 初始化全局 zerolog 日志：控制台输出，可选按大小滚动的日志文件。
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config 日志配置
type Config struct {
	Level      string // trace / debug / info / warn / error
	File       string // 为空时只输出到控制台
	MaxSizeMB  int
	MaxBackups int
	NoColor    bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup 根据配置替换全局 logger，返回的 Closer 用于关闭日志文件
func Setup(cfg Config) (io.Closer, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return nil, err
		}
		level = l
	}
	zerolog.SetGlobalLevel(level)

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime, NoColor: cfg.NoColor}

	var (
		w      io.Writer = console
		closer io.Closer = nopCloser{}
	)
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			LocalTime:  true,
		}
		w = zerolog.MultiLevelWriter(console, file)
		closer = file
	}

	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return closer, nil
}
