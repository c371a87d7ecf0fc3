package strategy

import (
	"path/filepath"
	"regexp"
	"strings"
)

// ShardCount iOS 备份中消息分片的数量 (message_1 ~ message_4)
const ShardCount = 4

// 聊天表在 sqlite_master 中的匹配条件
const ChatTableFilter = `(name LIKE 'Chat/_%' ESCAPE '/' OR name LIKE 'ChatExt2/_%' ESCAPE '/')`

type iosPattern struct {
	group GroupType
	re    *regexp.Regexp
}

// IOS 实现 iOS 版微信备份的策略接口
type IOS struct {
	patterns  []iosPattern
	tableName *regexp.Regexp
}

// NewIOS 创建一个新的策略实例
func NewIOS() *IOS {
	return &IOS{
		patterns: []iosPattern{
			{Message, regexp.MustCompile(`^message_([1-4])\.sqlite$`)},
			{Contact, regexp.MustCompile(`^WCDB_Contact\.sqlite$`)},
			{LoginInfo, regexp.MustCompile(`^LoginInfo2\.dat$`)},
			{Setting, regexp.MustCompile(`^mmsetting\.archive$`)},
		},
		tableName: regexp.MustCompile(`^(Chat|ChatExt2)_[0-9A-Za-z]+$`),
	}
}

// Identify 检查文件名是否匹配任何已知模式，传入完整路径时只看文件名部分
func (s *IOS) Identify(filename string) (FileMeta, bool) {
	base := filepath.Base(filename)
	for _, p := range s.patterns {
		matches := p.re.FindStringSubmatch(base)
		if matches != nil {
			meta := FileMeta{
				Type: p.group,
				Path: filename,
			}
			if len(matches) > 1 {
				meta.Index = matches[1]
			}
			return meta, true
		}
	}
	return FileMeta{Type: Unknown}, false
}

// IsChatTable 校验表名，只允许 Chat_xxx / ChatExt2_xxx 形式，可以安全拼接进 SQL
func (s *IOS) IsChatTable(table string) bool {
	return s.tableName.MatchString(table)
}

// ChatTableKey 取表名按 "_" 切分后的第二段，不存在时返回空字符串
func (s *IOS) ChatTableKey(table string) string {
	parts := strings.Split(table, "_")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
