package server

import "time"

// 可选外观，与前端的模型枚举一致
const (
	SkinRunner = "runner"
	SkinScout  = "scout"
	SkinHeavy  = "heavy"

	DefaultSkin = SkinRunner
)

var validSkins = map[string]bool{
	SkinRunner: true,
	SkinScout:  true,
	SkinHeavy:  true,
}

// Player 房间内的玩家实体（服务端权威状态），生命周期与连接一致
type Player struct {
	ID   string // 连接级唯一标识，连接存续期间不变、不复用
	Name string
	Skin string

	X, Y, Z float64
	RotY    float64 // 朝向角（弧度），客户端负责计算，服务端原样存储不归一化

	IsTagger    bool
	LastTagTime time.Time // 最近一次成为鬼的时刻，用于抓捕冷却
	Score       int       // 只增不减

	Conn *ClientConn // 网络连接的发送端（写协程）
}

// PlayerSnapshot 广播给客户端的公开字段
type PlayerSnapshot struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Skin     string  `json:"skin"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	RotY     float64 `json:"rotY"`
	IsTagger bool    `json:"isTagger"`
	Score    int     `json:"score"`
}

func (p *Player) snapshot() PlayerSnapshot {
	return PlayerSnapshot{
		ID:       p.ID,
		Name:     p.Name,
		Skin:     p.Skin,
		X:        p.X,
		Y:        p.Y,
		Z:        p.Z,
		RotY:     p.RotY,
		IsTagger: p.IsTagger,
		Score:    p.Score,
	}
}
