package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "列出备份中的账号",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(false)
		if err != nil {
			return err
		}
		defer s.Close()

		users, err := s.ListUsers(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), users)
	},
}

var chatsCmd = &cobra.Command{
	Use:   "chats <userMd5>",
	Short: "列出账号的会话，按最后消息时间倒序",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		minCount, _ := cmd.Flags().GetInt("min")
		if minCount < 0 {
			minCount = cfg.MinMessageCount
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		s, err := openStore(false)
		if err != nil {
			return err
		}
		defer s.Close()

		chats, err := s.ListChats(cmd.Context(), args[0], minCount)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), chats)
		}

		out := cmd.OutOrStdout()
		for _, c := range chats {
			last := "-"
			if t := c.LastTime(); t > 0 {
				last = time.Unix(t, 0).Format(time.DateTime)
			}
			fmt.Fprintf(out, "%s  %6d  %s  %s\n", last, c.MessageCount, c.TableName, c.Contact.Nickname)
		}
		return nil
	},
}

var datesCmd = &cobra.Command{
	Use:   "dates <userMd5> <tableName>",
	Short: "列出聊天表中有消息的日期",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(false)
		if err != nil {
			return err
		}
		defer s.Close()

		dates, err := s.GetMessageDates(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		for _, d := range dates {
			fmt.Fprintln(cmd.OutOrStdout(), d)
		}
		return nil
	},
}

func init() {
	chatsCmd.Flags().IntP("min", "m", -1, "最少消息数，默认使用 MIN_MESSAGE_COUNT")
	chatsCmd.Flags().Bool("json", false, "以 JSON 输出")
}
