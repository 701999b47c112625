package server

import "encoding/json"

// 事件名沿用客户端既有的 Socket 风格命名（room:join 等），便于前端无缝对接
const (
	EvtRoomJoin    = "room:join"
	EvtWorldInit   = "world:init"
	EvtPlayerJoin  = "player:join"
	EvtPlayerLeave = "player:leave"
	EvtPlayerState = "player:state"
	EvtWorldState  = "world:state"
	EvtTagUpdate   = "tag:update"
	EvtNetPing     = "net:ping"
	EvtNetPong     = "net:pong"
)

// Envelope WebSocket 文本帧的统一信封
// 示例：{"type":"room:join","data":{"room":"public","name":"alice","skin":"runner"}}
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// JoinRequest 入房请求载荷；字段全部不可信，由 sanitize 兜底，永不拒绝
type JoinRequest struct {
	Room string `json:"room"`
	Name string `json:"name"`
	Skin string `json:"skin"`
}

// StateReport 客户端上报的姿态；指针字段：缺省的分量保留服务端现值
type StateReport struct {
	X    *float64 `json:"x"`
	Y    *float64 `json:"y"`
	Z    *float64 `json:"z"`
	RotY *float64 `json:"rotY"`
}

// WorldInit 发给新加入者的完整初始状态，收到即结束大厅阶段
type WorldInit struct {
	Me      string           `json:"me"`
	Room    string           `json:"room"`
	Players []PlayerSnapshot `json:"players"`
	Arena   Arena            `json:"arena"`
}

// TagUpdate 鬼权转移通知
type TagUpdate struct {
	TaggerID string `json:"taggerId"`
}

// Encode 组装信封并序列化为一帧
func Encode(typ string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: typ, Data: raw})
}
