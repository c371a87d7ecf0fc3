package model

// Contact 是联系人库 Friend 表中的一行原始数据
type Contact struct {
	UserName  string `json:"userName"`
	RawRemark string `json:"dbContactRemark"` // lower(quote(dbContactRemark)) 的结果
	HeadImage []byte `json:"-"`
}

// ContactMap 以 AccountKey 为键的联系人索引
type ContactMap map[string]*Contact

// Lookup 按 AccountKey 查找联系人，map 为 nil 时同样安全
func (m ContactMap) Lookup(key string) (*Contact, bool) {
	c, ok := m[key]
	return c, ok && c != nil
}

// ContactInfo 是对外输出的联系人信息
type ContactInfo struct {
	MD5       string `json:"md5"`
	WechatID  string `json:"wechatId"`
	Nickname  string `json:"nickname"`
	Remark    string `json:"remark,omitempty"`
	Alias     string `json:"alias,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}
