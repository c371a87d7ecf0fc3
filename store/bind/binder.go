package bind

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/afumu/wxbackup/pkg/wxid"
	"github.com/afumu/wxbackup/store/core"
	"github.com/afumu/wxbackup/store/strategy"
	"github.com/rs/zerolog/log"
)

// 备份目录中的固定名称
const (
	DBDirName         = "DB"
	ContactDBName     = "WCDB_Contact.sqlite"
	LoginInfoName     = "LoginInfo2.dat"
	SettingName       = "mmsetting.archive"
	AvatarDirName     = "Avatar"
	LastHeadImageName = "lastHeadImage"
)

// ErrTableNotFound 所有分片中都不存在指定的表
var ErrTableNotFound = errors.New("聊天表不存在")

// AccountRouter 负责把 (账号, 表名) 映射到备份中的具体文件
type AccountRouter struct {
	root     string               // 备份根目录
	pool     *core.ConnectionPool // 连接池
	strategy strategy.Strategy    // 文件识别策略
	reader   TableReader          // 表读取器 (内部工具)
}

// NewAccountRouter 创建一个新的路由器
func NewAccountRouter(root string, pool *core.ConnectionPool, strat strategy.Strategy) *AccountRouter {
	return &AccountRouter{
		root:     root,
		pool:     pool,
		strategy: strat,
		reader:   TableReader{},
	}
}

// Root 返回备份根目录
func (r *AccountRouter) Root() string {
	return r.root
}

// Strategy 返回文件识别策略
func (r *AccountRouter) Strategy() strategy.Strategy {
	return r.strategy
}

// Reader 返回表读取器
func (r *AccountRouter) Reader() TableReader {
	return r.reader
}

// ScanAccounts 扫描根目录，返回所有包含 DB 子目录的账号目录 (32 位十六进制)，key 统一为小写
func (r *AccountRouter) ScanAccounts() ([]string, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("读取备份目录 %s 失败: %w", r.root, err)
	}

	var keys []string
	for _, entry := range entries {
		if !entry.IsDir() || !wxid.IsAccountKey(entry.Name()) {
			continue
		}
		dbDir := filepath.Join(r.root, entry.Name(), DBDirName)
		if info, err := os.Stat(dbDir); err != nil || !info.IsDir() {
			log.Debug().Str("dir", entry.Name()).Msg("账号目录缺少 DB 子目录，跳过")
			continue
		}
		keys = append(keys, strings.ToLower(entry.Name()))
	}
	sort.Strings(keys)

	log.Info().Int("count", len(keys)).Msg("扫描到账号目录")
	return keys, nil
}

// AccountDir 返回账号目录，目录名大小写与 key 不一致时按不区分大小写匹配
func (r *AccountRouter) AccountDir(key string) string {
	dir := filepath.Join(r.root, key)
	if _, err := os.Stat(dir); err == nil {
		return dir
	}

	entries, err := os.ReadDir(r.root)
	if err != nil {
		return dir
	}
	for _, entry := range entries {
		if entry.IsDir() && strings.EqualFold(entry.Name(), key) {
			return filepath.Join(r.root, entry.Name())
		}
	}
	return dir
}

// DBDir 返回账号的数据库目录
func (r *AccountRouter) DBDir(key string) string {
	return filepath.Join(r.AccountDir(key), DBDirName)
}

// ContactDBPath 获取联系人数据库的路径 (文件可能不存在)
func (r *AccountRouter) ContactDBPath(key string) string {
	return filepath.Join(r.DBDir(key), ContactDBName)
}

// ShardPaths 按编号顺序返回实际存在的消息分片
func (r *AccountRouter) ShardPaths(key string) []string {
	dbDir := r.DBDir(key)

	var paths []string
	for i := 1; i <= strategy.ShardCount; i++ {
		name := "message_" + strconv.Itoa(i) + ".sqlite"
		path := filepath.Join(dbDir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if meta, ok := r.strategy.Identify(name); !ok || meta.Type != strategy.Message {
			continue
		}
		paths = append(paths, path)
	}

	log.Debug().Str("account", key).Int("count", len(paths)).Msg("发现消息分片")
	return paths
}

// LoginInfoPath 返回登录信息文件路径
func (r *AccountRouter) LoginInfoPath() string {
	return filepath.Join(r.root, LoginInfoName)
}

// SettingPath 返回账号设置归档路径
func (r *AccountRouter) SettingPath(key string) string {
	return filepath.Join(r.AccountDir(key), SettingName)
}

// AvatarPath 返回账号头像文件路径，不存在时第二个返回值为 false
func (r *AccountRouter) AvatarPath(key string) (string, bool) {
	path := filepath.Join(r.AccountDir(key), AvatarDirName, LastHeadImageName)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// LocateTable 在分片中按顺序查找表，返回第一个包含该表的分片路径
func (r *AccountRouter) LocateTable(ctx context.Context, key, table string) (string, error) {
	for _, path := range r.ShardPaths(key) {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		db, release, err := r.pool.Acquire(path)
		if err != nil {
			log.Warn().Err(err).Str("db", path).Msg("打开消息分片失败，跳过")
			continue
		}

		exists, err := r.reader.TableExists(ctx, db, table)
		release()
		if err != nil {
			log.Warn().Err(err).Str("db", path).Msg("检查表是否存在失败，跳过")
			continue
		}
		if exists {
			log.Debug().Str("table", table).Str("db", path).Msg("定位到聊天表")
			return path, nil
		}
	}
	return "", fmt.Errorf("%s: %w", table, ErrTableNotFound)
}
