package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/afumu/wxbackup/internal/config"
	"github.com/afumu/wxbackup/internal/refresh"
	"github.com/afumu/wxbackup/web"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Info().Str("root", cfg.BackupRoot).Msg("使用备份目录")

		s, err := openStore(cfg.WatchEnabled)
		if err != nil {
			return err
		}
		defer s.Close()

		refresher := refresh.NewScheduler(s.Reload, cfg.RefreshInterval)

		svc := web.NewService(s, &web.Config{
			ListenAddr:     cfg.ListenAddr,
			MetricsEnabled: cfg.MetricsEnabled,
			Refresh:        refresher,
		})
		if err := svc.Start(); err != nil {
			return err
		}

		refresher.Start()
		defer refresher.Stop()

		log.Info().Msgf("服务已启动，请访问: http://%s", cfg.ListenAddr)

		// 等待中断信号以实现优雅关闭
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("接收到关闭信号，正在关闭服务...")

		return svc.Stop()
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "监听地址，例如 127.0.0.1:3000")
	_ = v.BindPFlag(config.KeyListenAddr, serveCmd.Flags().Lookup("addr"))
}
