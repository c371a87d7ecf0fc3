package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/afumu/wxbackup/internal/metrics"
	"github.com/afumu/wxbackup/internal/model"
	"github.com/afumu/wxbackup/internal/wechat"
	"github.com/afumu/wxbackup/pkg/remark"
	"github.com/afumu/wxbackup/pkg/wxid"
	"github.com/afumu/wxbackup/store/core"
	"github.com/rs/zerolog/log"
)

// Friend 表中的列名
const (
	colUserName   = "userName"
	colHeadImage  = "dbContactHeadImage"
	colRawRemark  = "cr"
	contactsQuery = "SELECT *, lower(quote(dbContactRemark)) AS cr FROM Friend"
)

// LoadContacts 读取账号的联系人库，返回以 AccountKey 为键的联系人索引。
// 联系人库不存在时返回空索引。
func (r *Repository) LoadContacts(ctx context.Context, key string) (model.ContactMap, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}

	db, release, err := r.pool.Acquire(r.router.ContactDBPath(key))
	if errors.Is(err, core.ErrNotExist) {
		log.Debug().Str("account", key).Msg("联系人库不存在")
		return model.ContactMap{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer release()

	contacts, err := queryContacts(ctx, db)
	if err != nil {
		return nil, err
	}

	metrics.ContactsLoaded.Set(float64(len(contacts)))
	log.Debug().Str("account", key).Int("count", len(contacts)).Msg("加载联系人完成")
	return contacts, nil
}

// queryContacts 按列名读取 Friend 表，不同版本的列数可能不同
func queryContacts(ctx context.Context, db *sql.DB) (model.ContactMap, error) {
	rows, err := db.QueryContext(ctx, contactsQuery)
	if err != nil {
		return nil, fmt.Errorf("查询联系人失败: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	contacts := make(model.ContactMap)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		c := &model.Contact{}
		for i, col := range cols {
			switch col {
			case colUserName:
				c.UserName = asString(values[i])
			case colRawRemark:
				c.RawRemark = asString(values[i])
			case colHeadImage:
				c.HeadImage = asBytes(values[i])
			}
		}
		if c.UserName == "" {
			continue
		}
		contacts[wxid.AccountKey(c.UserName)] = c
	}
	return contacts, rows.Err()
}

// GetContacts 返回账号的联系人目录，键为联系人的 AccountKey
func (r *Repository) GetContacts(ctx context.Context, key string) (map[string]*model.ContactInfo, error) {
	contacts, err := r.LoadContacts(ctx, key)
	if err != nil {
		return nil, err
	}

	result := make(map[string]*model.ContactInfo, len(contacts))
	for md5, c := range contacts {
		fields := remark.Parse(c.RawRemark)
		isGroup := wxid.IsChatroom(c.UserName)

		result[md5] = &model.ContactInfo{
			MD5:       md5,
			WechatID:  c.UserName,
			Nickname:  wxid.FriendlyName(c.UserName, fields.Nickname, isGroup),
			Remark:    fields.Remark,
			Alias:     fields.WechatID,
			AvatarURL: wechat.HeadImageURL(c.HeadImage),
		}
	}
	return result, nil
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return ""
	}
}

func asBytes(v any) []byte {
	switch b := v.(type) {
	case []byte:
		return b
	case string:
		return []byte(b)
	default:
		return nil
	}
}
