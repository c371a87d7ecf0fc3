package strategy

// GroupType 代表备份文件的逻辑分类
type GroupType int

const (
	Unknown GroupType = iota
	Message
	Contact
	LoginInfo
	Setting
)

func (g GroupType) String() string {
	switch g {
	case Message:
		return "Message"
	case Contact:
		return "Contact"
	case LoginInfo:
		return "LoginInfo"
	case Setting:
		return "Setting"
	default:
		return "Unknown"
	}
}

// FileMeta 包含从文件名中提取的信息
type FileMeta struct {
	Type  GroupType
	Path  string
	Index string // 例如：message_2.sqlite 为 "2"，WCDB_Contact.sqlite 为 ""
}

// Strategy 定义了特定平台的备份布局
type Strategy interface {
	// Identify 根据文件名对文件进行分类。
	// 如果文件被识别，返回元数据和 true。
	Identify(filename string) (FileMeta, bool)

	// IsChatTable 判断表名是否为聊天表
	IsChatTable(table string) bool

	// ChatTableKey 从聊天表名中取出会话对象的 AccountKey
	ChatTableKey(table string) string
}
