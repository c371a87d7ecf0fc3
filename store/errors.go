package store

import "github.com/afumu/wxbackup/store/types"

// 对外暴露的错误，调用方使用 errors.Is 判断
var (
	ErrBackupRootNotFound = types.ErrBackupRootNotFound
	ErrInvalidAccountKey  = types.ErrInvalidAccountKey
	ErrUserNotFound       = types.ErrUserNotFound
	ErrAvatarNotFound     = types.ErrAvatarNotFound
	ErrInvalidTableName   = types.ErrInvalidTableName
	ErrInvalidDate        = types.ErrInvalidDate
)
