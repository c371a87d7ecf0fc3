package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/afumu/wxbackup/store/types"
	"github.com/afumu/wxbackup/web/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "导出聊天记录或会话列表",
}

var exportChatCmd = &cobra.Command{
	Use:   "chat <userMd5> <tableName>",
	Short: "导出单个会话 (json/csv/xlsx)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")

		s, err := openStore(false)
		if err != nil {
			return err
		}
		defer s.Close()

		file, err := export.NewService(s).ExportChat(cmd.Context(), types.ExportQuery{
			MessageQuery: types.MessageQuery{
				Account:   args[0],
				Table:     args[1],
				StartDate: start,
				EndDate:   end,
			},
			Format: format,
		})
		if err != nil {
			return err
		}
		return writeExport(cmd, file)
	},
}

var exportChatsCmd = &cobra.Command{
	Use:   "chats <userMd5>",
	Short: "导出会话列表 (csv/xlsx)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		s, err := openStore(false)
		if err != nil {
			return err
		}
		defer s.Close()

		file, err := export.NewService(s).ExportChats(cmd.Context(), args[0], format)
		if err != nil {
			return err
		}
		return writeExport(cmd, file)
	},
}

// writeExport 把导出结果写入 --out 指定的目录
func writeExport(cmd *cobra.Command, file *export.File) error {
	dir, _ := cmd.Flags().GetString("out")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	path := filepath.Join(dir, file.Name)
	if err := os.WriteFile(path, file.Data, 0644); err != nil {
		return fmt.Errorf("写入导出文件失败: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func init() {
	exportCmd.AddCommand(exportChatCmd)
	exportCmd.AddCommand(exportChatsCmd)

	exportCmd.PersistentFlags().StringP("out", "o", ".", "输出目录")
	exportChatCmd.Flags().StringP("format", "f", export.FormatJSON, "导出格式 json/csv/xlsx")
	exportChatCmd.Flags().String("start", "", "开始日期 YYYY-MM-DD")
	exportChatCmd.Flags().String("end", "", "结束日期 YYYY-MM-DD")
	exportChatsCmd.Flags().StringP("format", "f", export.FormatCSV, "导出格式 csv/xlsx")
}
