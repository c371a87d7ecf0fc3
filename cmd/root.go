// Package cmd 实现 wxbackup 命令行：启动 HTTP 服务，或直接在终端查询备份。
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/afumu/wxbackup/internal/config"
	"github.com/afumu/wxbackup/internal/logging"
	"github.com/afumu/wxbackup/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	v       = viper.New()
	envFile string

	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:          "wxbackup",
	Short:        "只读查看 iOS 微信备份中的账号、会话和聊天记录",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(v, envFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		closer, err := logging.Setup(c.Log)
		if err != nil {
			return fmt.Errorf("初始化日志失败: %w", err)
		}
		cfg, logCloser = c, closer
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

// Execute 运行根命令
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&envFile, "env", ".env", "配置文件路径")
	flags.String("root", "", "备份根目录 (默认 data)")
	flags.String("log-level", "", "日志级别 trace/debug/info/warn/error")

	_ = v.BindPFlag(config.KeyBackupRoot, flags.Lookup("root"))
	_ = v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(chatsCmd)
	rootCmd.AddCommand(datesCmd)
	rootCmd.AddCommand(exportCmd)
}

// openStore 打开备份目录，调用方负责 Close
func openStore(watch bool) (*store.DefaultStore, error) {
	s, err := store.NewStore(cfg.BackupRoot, store.WithWatch(watch))
	if err != nil {
		return nil, fmt.Errorf("初始化 store 失败: %w", err)
	}
	return s, nil
}

func printJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
