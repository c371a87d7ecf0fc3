package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/afumu/wxbackup/internal/model"
	"github.com/afumu/wxbackup/internal/wechat"
	"github.com/afumu/wxbackup/store"
	"github.com/afumu/wxbackup/store/types"
	"github.com/rs/zerolog/log"
)

// 支持的导出格式
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// exportLimit 单个会话导出的最大消息数
const exportLimit = 10000

var (
	ErrChatNotFound      = errors.New("会话不存在")
	ErrUnsupportedFormat = errors.New("不支持的导出格式")
)

// File 是一次导出的结果
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ChatInfo 导出文件中的会话信息
type ChatInfo struct {
	WechatID     string `json:"wechatId"`
	Nickname     string `json:"nickname"`
	IsGroup      bool   `json:"isGroup"`
	MessageCount int    `json:"messageCount"`
}

// Message 导出文件中的一条消息
type Message struct {
	ID         int64   `json:"id"`
	ServerID   int64   `json:"serverId"`
	Time       string  `json:"time"`
	Sender     string  `json:"sender,omitempty"`
	Content    string  `json:"content"`
	RawContent *string `json:"rawContent,omitempty"`
	Type       int     `json:"type"`
	Direction  string  `json:"direction"`

	createTime int64
}

// Document 是单个会话的完整导出内容
type Document struct {
	ChatInfo ChatInfo   `json:"chatInfo"`
	Messages []*Message `json:"messages"`
}

type Service struct {
	Store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{Store: s}
}

// BuildDocument 读取会话信息和消息。未指定日期时导出全部消息
func (s *Service) BuildDocument(ctx context.Context, q types.MessageQuery) (*Document, error) {
	chat, err := s.findChat(ctx, q.Account, q.Table)
	if err != nil {
		return nil, err
	}

	q.IsGroup = chat.Contact.IsGroup
	if !q.HasDates() {
		q.FullRange = true
	}
	if q.Limit <= 0 {
		q.Limit = exportLimit
	}

	rows, err := s.Store.GetViewMessages(ctx, q)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		ChatInfo: ChatInfo{
			WechatID:     chat.Contact.WechatID,
			Nickname:     chat.Contact.Nickname,
			IsGroup:      chat.Contact.IsGroup,
			MessageCount: chat.MessageCount,
		},
		Messages: make([]*Message, 0, len(rows)),
	}
	for _, row := range rows {
		msg, err := newMessage(row)
		if err != nil {
			log.Debug().Err(err).Str("table", q.Table).Msg("跳过无法解析的消息")
			continue
		}
		doc.Messages = append(doc.Messages, msg)
	}

	log.Info().Int("count", len(doc.Messages)).Str("table", q.Table).Msg("导出会话消息")
	return doc, nil
}

// findChat 在会话目录中查找指定的聊天表
func (s *Service) findChat(ctx context.Context, account, table string) (*model.ChatTable, error) {
	chats, err := s.Store.ListChats(ctx, account, 0)
	if err != nil {
		return nil, err
	}
	for _, chat := range chats {
		if chat.TableName == table {
			return chat, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", table, ErrChatNotFound)
}

func newMessage(row model.MessageRow) (*Message, error) {
	view, err := row.View()
	if err != nil {
		return nil, err
	}

	// 群聊文本消息使用去掉发送者前缀后的正文
	body := view.Message
	if cleaned, ok := row[model.ColCleanedMessage].(string); ok {
		body = cleaned
	}

	msg := &Message{
		ID:         view.LocalID,
		ServerID:   view.ServerID,
		Time:       time.Unix(view.CreateTime, 0).UTC().Format("2006-01-02T15:04:05.000Z"),
		Sender:     row.Str(model.ColSender),
		Content:    wechat.FormatContent(view.Type, body),
		Type:       view.Type,
		Direction:  "received",
		createTime: view.CreateTime,
	}
	if view.IsSent() {
		msg.Direction = "sent"
	}
	if view.Type == model.MsgTypeText {
		raw := view.Message
		msg.RawContent = &raw
	}
	return msg, nil
}

// ExportChat 按格式导出单个会话
func (s *Service) ExportChat(ctx context.Context, q types.ExportQuery) (*File, error) {
	if err := checkFormat(q.Format, FormatJSON, FormatCSV, FormatXLSX); err != nil {
		return nil, err
	}

	doc, err := s.BuildDocument(ctx, q.MessageQuery)
	if err != nil {
		return nil, err
	}

	name := "chat_" + q.Table + "." + q.Format
	switch q.Format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("序列化 JSON 失败: %w", err)
		}
		return &File{Name: name, ContentType: "application/json; charset=utf-8", Data: data}, nil
	case FormatCSV:
		data, err := writeCSV(messageSheet(doc))
		if err != nil {
			return nil, err
		}
		return &File{Name: name, ContentType: contentTypeCSV, Data: data}, nil
	default:
		data, err := writeXLSX(messageSheet(doc))
		if err != nil {
			return nil, err
		}
		return &File{Name: name, ContentType: contentTypeXLSX, Data: data}, nil
	}
}

// ExportChats 导出账号的会话列表
func (s *Service) ExportChats(ctx context.Context, account, format string) (*File, error) {
	if err := checkFormat(format, FormatCSV, FormatXLSX); err != nil {
		return nil, err
	}

	chats, err := s.Store.ListChats(ctx, account, 0)
	if err != nil {
		return nil, err
	}

	sh := chatSheet(chats)
	name := "chats_" + strings.ToLower(strings.TrimSpace(account))[:8] + "." + format
	if format == FormatCSV {
		data, err := writeCSV(sh)
		if err != nil {
			return nil, err
		}
		return &File{Name: name, ContentType: contentTypeCSV, Data: data}, nil
	}

	data, err := writeXLSX(sh)
	if err != nil {
		return nil, err
	}
	return &File{Name: name, ContentType: contentTypeXLSX, Data: data}, nil
}

func checkFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
}

// messageSheet 把消息转换为表格，时间使用本地时区
func messageSheet(doc *Document) *sheet {
	sh := &sheet{
		name:   doc.ChatInfo.Nickname,
		header: []string{"时间", "方向", "发送者", "类型", "内容"},
		widths: []float64{20, 10, 15, 12, 60},
	}
	for _, m := range doc.Messages {
		direction := "接收"
		if m.Direction == "sent" {
			direction = "发送"
		}
		sh.rows = append(sh.rows, []string{
			time.Unix(m.createTime, 0).In(time.Local).Format(time.DateTime),
			direction,
			m.Sender,
			wechat.TypeName(m.Type),
			m.Content,
		})
	}
	return sh
}

func chatSheet(chats []*model.ChatTable) *sheet {
	sh := &sheet{
		name:   "会话列表",
		header: []string{"昵称", "微信号", "群聊", "消息数", "最后消息时间", "最后消息", "表名"},
		widths: []float64{20, 25, 8, 10, 20, 50, 42},
	}
	for _, c := range chats {
		group := "否"
		if c.Contact.IsGroup {
			group = "是"
		}
		last := ""
		if t := c.LastTime(); t > 0 {
			last = time.Unix(t, 0).In(time.Local).Format(time.DateTime)
		}
		preview := ""
		if c.LastMessagePreview != nil {
			preview = *c.LastMessagePreview
		}
		sh.rows = append(sh.rows, []string{
			c.Contact.Nickname,
			c.Contact.WechatID,
			group,
			strconv.Itoa(c.MessageCount),
			last,
			preview,
			c.TableName,
		})
	}
	return sh
}
