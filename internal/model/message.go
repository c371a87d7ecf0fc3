package model

import "github.com/mitchellh/mapstructure"

// 消息表中常用的列名
const (
	ColCreateTime = "CreateTime"
	ColMessage    = "Message"
	ColType       = "Type"
	ColDes        = "Des"
	ColLocalID    = "MesLocalID"
	ColServerID   = "MesSvrID"

	ColSender         = "sender"
	ColCleanedMessage = "cleanedMessage"
)

// 消息类型
const (
	MsgTypeText     = 1
	MsgTypeImage    = 3
	MsgTypeVoice    = 34
	MsgTypeVideo    = 43
	MsgTypeEmoji    = 47
	MsgTypeLocation = 48
	MsgTypeApp      = 49
	MsgTypeSystem   = 10000
	MsgTypeRevoke   = 10002
)

// MessageRow 是消息表中的一行，列原样保留，仅 Message 列被规范化为文本
type MessageRow map[string]any

// MessageView 是 MessageRow 的强类型视图，供统计与导出使用
type MessageView struct {
	LocalID    int64  `mapstructure:"MesLocalID"`
	ServerID   int64  `mapstructure:"MesSvrID"`
	CreateTime int64  `mapstructure:"CreateTime"`
	Message    string `mapstructure:"Message"`
	Type       int    `mapstructure:"Type"`
	Des        int    `mapstructure:"Des"`
}

// IsSent 是否为本人发送
func (v *MessageView) IsSent() bool {
	return v.Des == 0
}

// View 把一行消息转换为强类型视图，缺失的列保持零值
func (r MessageRow) View() (*MessageView, error) {
	var view MessageView
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &view,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(map[string]any(r)); err != nil {
		return nil, err
	}
	return &view, nil
}

// Str 读取字符串列，列不存在或不是字符串时返回空串
func (r MessageRow) Str(col string) string {
	s, _ := r[col].(string)
	return s
}
