package types

import "errors"

// 整体性错误，会被返回给调用方；单个分片或单张表的错误只记录日志
var (
	ErrBackupRootNotFound = errors.New("备份目录不存在")
	ErrInvalidAccountKey  = errors.New("无效的账号 key")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrAvatarNotFound     = errors.New("头像不存在")
	ErrInvalidTableName   = errors.New("无效的聊天表名")
	ErrInvalidDate        = errors.New("无效的日期")
)
