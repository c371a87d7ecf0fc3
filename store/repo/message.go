package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/afumu/wxbackup/internal/model"
	"github.com/afumu/wxbackup/internal/wechat"
	"github.com/afumu/wxbackup/store/bind"
	"github.com/afumu/wxbackup/store/types"
	"github.com/rs/zerolog/log"
)

// GetMessages 获取聊天表中的消息，按 CreateTime 倒序
// 步骤：定位分片 -> 构造时间条件 -> 查询 -> 规范化 Message 列
func (r *Repository) GetMessages(ctx context.Context, q types.MessageQuery) ([]model.MessageRow, error) {
	key, err := normalizeKey(q.Account)
	if err != nil {
		return nil, err
	}

	// 1. 定位：表不存在时返回空列表
	db, release, err := r.openTable(ctx, key, q.Table)
	if errors.Is(err, bind.ErrTableNotFound) {
		log.Debug().Str("table", q.Table).Msg("聊天表不存在，返回空列表")
		return []model.MessageRow{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer release()

	// 2. 时间条件
	filter, err := r.buildFilter(ctx, db, q)
	if err != nil {
		return nil, err
	}

	// 3. 查询
	rows, err := r.reader.SelectRows(ctx, db, q.Table, filter)
	if err != nil {
		return nil, err
	}

	// 4. 规范化
	msgs := make([]model.MessageRow, 0, len(rows))
	for _, row := range rows {
		if v, ok := row[model.ColMessage]; ok {
			row[model.ColMessage] = wechat.NormalizeBody(v)
		}
		msgs = append(msgs, model.MessageRow(row))
	}
	return msgs, nil
}

// buildFilter 根据日期参数构造查询条件。
// 未指定日期且不是全量查询时，只返回最近一天 (最新消息所在日期的本地零点之后) 的消息。
func (r *Repository) buildFilter(ctx context.Context, db *sql.DB, q types.MessageQuery) (bind.Filter, error) {
	f := bind.Filter{Limit: q.Limit, Offset: q.Offset}

	if q.HasDates() {
		start, end, err := q.Range()
		if err != nil {
			return f, err
		}
		if q.StartDate != "" {
			f.Conditions = append(f.Conditions, model.ColCreateTime+" >= ?")
			f.Args = append(f.Args, start)
		}
		if q.EndDate != "" {
			f.Conditions = append(f.Conditions, model.ColCreateTime+" <= ?")
			f.Args = append(f.Args, end)
		}
		return f, nil
	}

	if q.FullRange {
		return f, nil
	}

	maxTime, ok, err := r.reader.MaxCreateTime(ctx, db, q.Table)
	if err != nil {
		return f, err
	}
	if ok {
		t := time.Unix(maxTime, 0).In(time.Local)
		midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
		f.Conditions = append(f.Conditions, model.ColCreateTime+" >= ?")
		f.Args = append(f.Args, midnight.Unix())
	}
	return f, nil
}

// GetMessageDates 返回聊天表中所有有消息的日期，按日期倒序
func (r *Repository) GetMessageDates(ctx context.Context, account, table string) ([]string, error) {
	key, err := normalizeKey(account)
	if err != nil {
		return nil, err
	}

	db, release, err := r.openTable(ctx, key, table)
	if errors.Is(err, bind.ErrTableNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer release()

	dates, err := r.reader.DistinctDates(ctx, db, table)
	if err != nil {
		return nil, err
	}
	if dates == nil {
		dates = []string{}
	}
	return dates, nil
}

// GetViewMessages 在 GetMessages 的基础上，为群聊文本消息补充 sender 与 cleanedMessage 字段
func (r *Repository) GetViewMessages(ctx context.Context, q types.MessageQuery) ([]model.MessageRow, error) {
	msgs, err := r.GetMessages(ctx, q)
	if err != nil || !q.IsGroup || len(msgs) == 0 {
		return msgs, err
	}

	contacts, err := r.LoadContacts(ctx, q.Account)
	if err != nil {
		log.Warn().Err(err).Str("account", q.Account).Msg("加载联系人失败，发送者将使用默认名称")
		contacts = model.ContactMap{}
	}

	annotateSenders(msgs, contacts, q.IsGroup)
	return msgs, nil
}

// annotateSenders 拆分群聊文本消息中的发送者
func annotateSenders(msgs []model.MessageRow, contacts model.ContactMap, isGroup bool) {
	for _, msg := range msgs {
		view, err := msg.View()
		if err != nil || view.Type != model.MsgTypeText {
			continue
		}

		s := wechat.ResolveSender(view.Message, contacts, isGroup)
		if s.Sender == "" {
			continue
		}
		msg[model.ColSender] = s.Sender
		msg[model.ColCleanedMessage] = s.Remainder
	}
}
