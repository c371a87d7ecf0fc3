package repo

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/afumu/wxbackup/internal/model"
	"github.com/afumu/wxbackup/pkg/loginfo"
	"github.com/afumu/wxbackup/store/types"
	"github.com/rs/zerolog/log"
)

// ListUsers 扫描备份中的账号目录，合并登录信息，返回以 AccountKey 为键的账号目录
func (r *Repository) ListUsers(ctx context.Context) (map[string]*model.UserInfo, error) {
	keys, err := r.router.ScanAccounts()
	if err != nil {
		return nil, err
	}

	identities := r.loginIdentities()

	users := make(map[string]*model.UserInfo, len(keys))
	for _, key := range keys {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		user, ok := r.lookupUser(key, identities)
		if !ok {
			// 登录信息和设置归档中都没有，使用默认名称
			user = &model.UserInfo{
				MD5:      key,
				WechatID: "user_" + key[:8],
				Nickname: "用户-" + key[:8],
			}
		}
		if avatar, ok := r.router.AvatarPath(key); ok {
			user.Avatar = avatar
		}
		users[key] = user
	}
	return users, nil
}

// GetUser 返回单个账号的信息，登录信息和设置归档中都找不到时返回 ErrUserNotFound
func (r *Repository) GetUser(ctx context.Context, key string) (*model.UserInfo, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}

	user, ok := r.lookupUser(key, r.loginIdentities())
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, types.ErrUserNotFound)
	}
	if avatar, ok := r.router.AvatarPath(key); ok {
		user.Avatar = avatar
	}
	return user, nil
}

// GetUserAvatar 返回账号头像文件路径，不读取登录信息
func (r *Repository) GetUserAvatar(key string) (string, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return "", err
	}
	path, ok := r.router.AvatarPath(key)
	if !ok {
		return "", fmt.Errorf("%s: %w", key, types.ErrAvatarNotFound)
	}
	return path, nil
}

// loginIdentities 读取并解析 LoginInfo2.dat，文件缺失时返回空结果
func (r *Repository) loginIdentities() map[string]loginfo.Identity {
	path := r.router.LoginInfoPath()
	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("读取登录信息失败")
		}
		return map[string]loginfo.Identity{}
	}

	identities := loginfo.Mine(raw)
	log.Debug().Int("count", len(identities)).Msg("解析登录信息完成")
	return identities
}

// lookupUser 依次查找登录信息和账号目录下的设置归档
func (r *Repository) lookupUser(key string, identities map[string]loginfo.Identity) (*model.UserInfo, bool) {
	if id, ok := identities[key]; ok {
		return &model.UserInfo{MD5: key, WechatID: id.WechatID, Nickname: id.Nickname}, true
	}

	data, err := os.ReadFile(r.router.SettingPath(key))
	if err != nil {
		return nil, false
	}
	id, ok := loginfo.FromArchive(data, key)
	if !ok {
		return nil, false
	}
	return &model.UserInfo{MD5: key, WechatID: id.WechatID, Nickname: id.Nickname}, true
}
