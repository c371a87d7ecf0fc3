package repo

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/afumu/wxbackup/internal/model"
	"github.com/afumu/wxbackup/internal/wechat"
	"github.com/afumu/wxbackup/pkg/wordcloud"
	"github.com/afumu/wxbackup/store/types"
	"github.com/rs/zerolog/log"
)

const (
	// analysisLimit 统计时读取的最大消息数
	analysisLimit = 100000
	// activityTopN 活跃度排行保留的人数
	activityTopN = 50
	// textLineLimit / textCharLimit 提供给摘要工具的文本上限
	textLineLimit = 500
	textCharLimit = 10000
)

// loadViews 读取统计用的消息。未指定日期时读取全部消息
func (r *Repository) loadViews(ctx context.Context, q types.MessageQuery) ([]*model.MessageView, error) {
	if !q.HasDates() {
		q.FullRange = true
	}
	if q.Limit <= 0 {
		q.Limit = analysisLimit
	}
	q.Offset = 0

	rows, err := r.GetMessages(ctx, q)
	if err != nil {
		return nil, err
	}
	return decodeViews(rows), nil
}

// GetStatistics 统计会话的消息总数、日期范围、类型分布、每日数量和 24 小时分布
func (r *Repository) GetStatistics(ctx context.Context, q types.AnalysisQuery) (*model.ChatStatistics, error) {
	views, err := r.loadViews(ctx, q.MessageQuery)
	if err != nil {
		return nil, err
	}

	stats := &model.ChatStatistics{
		MessageTypes:       map[string]int{},
		DailyCount:         []*model.DailyStat{},
		HourlyDistribution: []*model.HourlyStat{},
	}
	if len(views) == 0 {
		return stats, nil
	}

	var (
		minTime, maxTime int64
		daily            = make(map[string]int)
		hourly           [24]int
	)
	for _, v := range views {
		stats.MessageTypes[wechat.TypeName(v.Type)]++

		if v.CreateTime <= 0 {
			continue
		}
		if minTime == 0 || v.CreateTime < minTime {
			minTime = v.CreateTime
		}
		if v.CreateTime > maxTime {
			maxTime = v.CreateTime
		}

		t := time.Unix(v.CreateTime, 0).In(time.Local)
		daily[t.Format(types.DateLayout)]++
		hourly[t.Hour()]++
	}

	stats.TotalMessages = len(views)
	if minTime > 0 {
		start := time.Unix(minTime, 0).In(time.Local).Format(types.DateLayout)
		end := time.Unix(maxTime, 0).In(time.Local).Format(types.DateLayout)
		stats.DateRange = model.DateRange{Start: &start, End: &end}
	}

	dates := make([]string, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		stats.DailyCount = append(stats.DailyCount, &model.DailyStat{Date: d, Count: daily[d]})
	}

	for h, c := range hourly {
		stats.HourlyDistribution = append(stats.HourlyDistribution, &model.HourlyStat{Hour: h, Count: c})
	}
	return stats, nil
}

// GetUserActivity 统计群聊中每个发送者的文本消息数，取前 50 名
func (r *Repository) GetUserActivity(ctx context.Context, q types.AnalysisQuery) (*model.UserActivity, error) {
	views, err := r.loadViews(ctx, q.MessageQuery)
	if err != nil {
		return nil, err
	}

	contacts, err := r.LoadContacts(ctx, q.Account)
	if err != nil {
		log.Warn().Err(err).Str("account", q.Account).Msg("加载联系人失败，发送者将使用默认名称")
		contacts = model.ContactMap{}
	}

	// 按首次出现顺序记录，次数相同时保持该顺序
	counts := make(map[string]int)
	var order []string
	for _, v := range views {
		if v.Type != model.MsgTypeText || v.Message == "" {
			continue
		}
		s := wechat.ResolveSender(v.Message, contacts, q.IsGroup)
		if s.Sender == "" {
			continue
		}
		if _, seen := counts[s.Sender]; !seen {
			order = append(order, s.Sender)
		}
		counts[s.Sender]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	activity := &model.UserActivity{
		TotalUsers: len(counts),
		Ranking:    []*model.MemberActivity{},
	}
	for i, name := range order {
		if i >= activityTopN {
			break
		}
		activity.Ranking = append(activity.Ranking, &model.MemberActivity{
			Rank:         i + 1,
			UserName:     name,
			MessageCount: counts[name],
		})
	}
	return activity, nil
}

// GetWordFrequency 对文本消息分词并统计词频，seg 为 nil 时使用默认分词器
func (r *Repository) GetWordFrequency(ctx context.Context, q types.AnalysisQuery, seg wordcloud.Segmenter) ([]*wordcloud.WordItem, error) {
	views, err := r.loadViews(ctx, q.MessageQuery)
	if err != nil {
		return nil, err
	}

	texts := textLines(views)
	if len(texts) == 0 {
		return []*wordcloud.WordItem{}, nil
	}

	result := wordcloud.Analyze(texts, q.TopN, seg)
	log.Debug().Int("messages", result.TotalMessages).Int("words", result.TotalWords).Msg("词频统计完成")
	return result.Words, nil
}

// GetMessageTexts 提取纯文本，供外部摘要工具使用
func (r *Repository) GetMessageTexts(ctx context.Context, q types.MessageQuery) (*model.MessageTexts, error) {
	rows, err := r.GetMessages(ctx, q)
	if err != nil {
		return nil, err
	}

	lines := textLines(decodeViews(rows))
	if len(lines) > textLineLimit {
		lines = lines[:textLineLimit]
	}

	text, truncated := JoinTexts(lines)
	return &model.MessageTexts{Lines: lines, Text: text, Truncated: truncated}, nil
}

// JoinTexts 按行拼接文本，超过字符上限时截断并追加 "..."
func JoinTexts(lines []string) (string, bool) {
	text := strings.Join(lines, "\n")
	if utf8.RuneCountInString(text) <= textCharLimit {
		return text, false
	}
	return string([]rune(text)[:textCharLimit]) + "...", true
}

// textLines 取出文本消息的正文，群聊消息去掉发送者前缀
func textLines(views []*model.MessageView) []string {
	lines := make([]string, 0, len(views))
	for _, v := range views {
		if v.Type != model.MsgTypeText || v.Message == "" {
			continue
		}
		lines = append(lines, wechat.StripSender(v.Message))
	}
	return lines
}
