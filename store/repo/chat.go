package repo

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/afumu/wxbackup/internal/metrics"
	"github.com/afumu/wxbackup/internal/model"
	"github.com/afumu/wxbackup/internal/wechat"
	"github.com/afumu/wxbackup/pkg/remark"
	"github.com/afumu/wxbackup/pkg/wxid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// ListChats 构建账号的会话目录
// 步骤：加载联系人 -> 遍历分片 -> 统计并过滤 -> 生成预览 -> 按最后消息时间倒序
func (r *Repository) ListChats(ctx context.Context, key string, minCount int) ([]*model.ChatTable, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}

	timer := prometheus.NewTimer(metrics.CatalogDuration)
	defer timer.ObserveDuration()

	// 1. 联系人加载失败时降级为空索引，会话仍然可以列出
	contacts, err := r.LoadContacts(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("account", key).Msg("加载联系人失败，使用空联系人")
		contacts = model.ContactMap{}
	}

	// 2. 遍历所有分片
	chats := make([]*model.ChatTable, 0)
	for _, path := range r.router.ShardPaths(key) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		found, err := r.scanShard(ctx, path, contacts, minCount)
		if err != nil {
			// 单个分片失败只记录警告，不中断整体流程
			log.Warn().Err(err).Str("db", path).Msg("扫描消息分片失败，跳过")
			metrics.ShardsSkipped.Inc()
			continue
		}
		chats = append(chats, found...)
	}

	// 3. 排序：按最后消息时间倒序，缺失视为 0
	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].LastTime() > chats[j].LastTime()
	})

	log.Info().Str("account", key).Int("count", len(chats)).Msg("会话目录构建完成")
	return chats, nil
}

// scanShard 列出单个分片中的聊天表
func (r *Repository) scanShard(ctx context.Context, path string, contacts model.ContactMap, minCount int) ([]*model.ChatTable, error) {
	db, release, err := r.pool.Acquire(path)
	if err != nil {
		return nil, err
	}
	defer release()

	tables, err := r.reader.ListChatTables(ctx, db)
	if err != nil {
		return nil, err
	}

	var chats []*model.ChatTable
	for _, table := range tables {
		metrics.TablesScanned.Inc()

		chat, err := r.buildChat(ctx, db, table, contacts, minCount)
		if err != nil {
			log.Warn().Err(err).Str("db", path).Str("table", table).Msg("读取聊天表失败，跳过")
			metrics.TablesSkipped.Inc()
			continue
		}
		if chat != nil {
			chats = append(chats, chat)
		}
	}
	return chats, nil
}

// buildChat 生成一张聊天表的目录项，消息数不足时返回 nil
func (r *Repository) buildChat(ctx context.Context, db *sql.DB, table string, contacts model.ContactMap, minCount int) (*model.ChatTable, error) {
	count, err := r.reader.CountRows(ctx, db, table)
	if err != nil {
		return nil, fmt.Errorf("统计消息数失败: %w", err)
	}
	if minCount > 0 && count <= minCount {
		return nil, nil
	}

	// 表名后缀就是会话对象的 AccountKey
	md5 := r.router.Strategy().ChatTableKey(table)
	identifier := wxid.UnknownID
	rawRemark := ""
	if c, ok := contacts.Lookup(md5); ok {
		identifier = c.UserName
		rawRemark = c.RawRemark
	}
	isGroup := wxid.IsChatroom(identifier)

	chat := &model.ChatTable{
		TableName:    table,
		MessageCount: count,
		Contact: model.ChatContact{
			MD5:      md5,
			WechatID: identifier,
			Nickname: wxid.FriendlyName(identifier, remark.Decode(rawRemark), isGroup),
			IsGroup:  isGroup,
		},
	}

	// 最后一条消息读取失败时不展示预览
	last, err := r.reader.LastMessage(ctx, db, table)
	if err != nil {
		log.Debug().Err(err).Str("table", table).Msg("读取最后一条消息失败")
		return chat, nil
	}
	if last != nil {
		preview := wechat.Preview(last.Type, wechat.NormalizeBody(last.Message), contacts, isGroup)
		lastTime := last.CreateTime
		chat.LastMessageTime = &lastTime
		chat.LastMessagePreview = &preview
	}
	return chat, nil
}
