package server

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// 世界常量：与客户端约定的固定规则，进程级编译期常量，不做运行时热改
const (
	// SpawnSpread 出生点在原点附近 ±SpawnSpread/2 均匀散布
	SpawnSpread = 10.0
	// GroundY 贴地房间的固定高度
	GroundY = 0.5
)

// Arena 房间的轴对齐边界盒；Flat 为 true 时 Y 恒定贴地，否则 Y 也做裁剪
type Arena struct {
	MinX float64 `json:"minX"`
	MaxX float64 `json:"maxX"`
	MinY float64 `json:"minY"`
	MaxY float64 `json:"maxY"`
	MinZ float64 `json:"minZ"`
	MaxZ float64 `json:"maxZ"`

	Flat    bool    `json:"-"`
	GroundY float64 `json:"-"`
}

// DefaultArena 新房间的默认边界：X/Z ±20，贴地模式
func DefaultArena() Arena {
	return Arena{
		MinX: -20, MaxX: 20,
		MinY: 0, MaxY: 10,
		MinZ: -20, MaxZ: 20,
		Flat: true, GroundY: GroundY,
	}
}

// Room 房间世界：权威状态维护在内存，互斥锁保护玩家表与鬼权指针
// 注册表持有房间，房间持有玩家；所有网络写出都在锁外进行
type Room struct {
	ID string

	mu       sync.Mutex
	players  map[string]*Player
	taggerID string
	closed   bool // 注册表销毁后置位，拦截与 GetOrCreateRoom 的创建竞态

	arena   Arena // 房间存续期间不变
	metrics *ServerMetrics
}

// NewRoom 创建房间，初始化数据结构
func NewRoom(id string, metrics *ServerMetrics) *Room {
	return &Room{
		ID:      id,
		players: make(map[string]*Player),
		arena:   DefaultArena(),
		metrics: metrics,
	}
}

// ArenaBounds 返回房间边界（创建后只读，无需加锁）
func (r *Room) ArenaBounds() Arena {
	return r.arena
}

// Join 登记新玩家：随机出生姿态，房间无鬼时新人立刻成鬼
// 返回新玩家快照与含新人在内的完整列表（用于 world:init）；房间已销毁时 ok=false
func (r *Room) Join(id, rawName, rawSkin string, conn *ClientConn) (self PlayerSnapshot, players []PlayerSnapshot, ok bool) {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return PlayerSnapshot{}, nil, false
	}

	p := &Player{
		ID:   id,
		Name: SanitizeName(rawName),
		Skin: SanitizeSkin(rawSkin),
		X:    (rand.Float64() - 0.5) * SpawnSpread,
		Z:    (rand.Float64() - 0.5) * SpawnSpread,
		RotY: rand.Float64() * 2 * math.Pi,
		Conn: conn,
	}
	if r.arena.Flat {
		p.Y = r.arena.GroundY
	} else {
		p.Y = r.arena.MinY
	}
	if r.taggerID == "" {
		r.transferTaggerTo(p, now)
	}
	r.players[id] = p

	r.metrics.IncJoins()
	return p.snapshot(), r.snapshotLocked(), true
}

// ApplyStateReport 覆盖式写入客户端姿态：只裁剪边界，不做速度/连续性校验
// 玩家不存在时静默丢弃——断线或未入房的竞态属预期情况，不算错误
func (r *Room) ApplyStateReport(id string, rep StateReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, exists := r.players[id]
	if !exists {
		r.metrics.IncStaleReports()
		return
	}
	if rep.X != nil {
		p.X = clamp(*rep.X, r.arena.MinX, r.arena.MaxX)
	}
	if r.arena.Flat {
		p.Y = r.arena.GroundY
	} else if rep.Y != nil {
		p.Y = clamp(*rep.Y, r.arena.MinY, r.arena.MaxY)
	}
	if rep.Z != nil {
		p.Z = clamp(*rep.Z, r.arena.MinZ, r.arena.MaxZ)
	}
	if rep.RotY != nil {
		p.RotY = *rep.RotY
	}
}

// Disconnect 移除玩家；离开者是鬼且房内还有人时，当场改派首个剩余玩家
// 返回被移除玩家快照与新鬼 ID（未发生改派时为空串）；调用方随后负责 RemoveIfEmpty
func (r *Room) Disconnect(id string) (removed *PlayerSnapshot, newTaggerID string) {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	p, exists := r.players[id]
	if !exists {
		return nil, ""
	}
	wasTagger := r.taggerID == id
	delete(r.players, id)
	if wasTagger {
		r.taggerID = ""
		for _, next := range r.players {
			r.transferTaggerTo(next, now)
			newTaggerID = next.ID
			break
		}
	}
	r.metrics.IncLeaves()
	snap := p.snapshot()
	return &snap, newTaggerID
}

// Tick 单次推进：锁内完成抓捕判定与快照构建（同一一致视图），出锁后由调用方派发
// 冷却已过且 3D 距离进入抓捕半径的首个候选者接过鬼权，旧鬼记 1 分，本 Tick 不再继续判定
func (r *Room) Tick(now time.Time) (snapshot []PlayerSnapshot, conns []*ClientConn, taggedID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 鬼已离线或房间无鬼则跳过判定，广播照常
	if tagger, alive := r.players[r.taggerID]; alive && now.Sub(tagger.LastTagTime) > TagCooldown {
		for _, p := range r.players {
			if p.ID == tagger.ID {
				continue
			}
			if dist3(tagger, p) <= TagRadius {
				tagger.Score++ // 计分奖励抓人方
				r.transferTaggerTo(p, now)
				taggedID = p.ID
				r.metrics.IncTagTransfers()
				break
			}
		}
	}
	return r.snapshotLocked(), r.connsLocked(), taggedID
}

// transferTaggerTo 鬼权转移的唯一入口：旧鬼摘牌、新鬼挂牌并记录时刻
// 调用点只有三处：首次加入、鬼离线改派、Tick 抓捕，保证单鬼不变式只在这里维护
func (r *Room) transferTaggerTo(p *Player, now time.Time) {
	if old, exists := r.players[r.taggerID]; exists {
		old.IsTagger = false
	}
	p.IsTagger = true
	p.LastTagTime = now
	r.taggerID = p.ID
}

// Snapshot 当前全体玩家的公开状态
func (r *Room) Snapshot() []PlayerSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// TaggerID 当前鬼的 ID，空房为空串
func (r *Room) TaggerID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.taggerID
}

// PlayerCount 当前在房人数
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// BroadcastExcept 向房内除指定玩家外的所有连接投递一帧（投递非阻塞，不持房间锁）
func (r *Room) BroadcastExcept(exceptID string, frame []byte) {
	r.mu.Lock()
	conns := make([]*ClientConn, 0, len(r.players))
	for id, p := range r.players {
		if id == exceptID || p.Conn == nil {
			continue
		}
		conns = append(conns, p.Conn)
	}
	r.mu.Unlock()

	for _, c := range conns {
		c.Enqueue(frame)
	}
}

func (r *Room) snapshotLocked() []PlayerSnapshot {
	out := make([]PlayerSnapshot, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p.snapshot())
	}
	return out
}

func (r *Room) connsLocked() []*ClientConn {
	out := make([]*ClientConn, 0, len(r.players))
	for _, p := range r.players {
		if p.Conn != nil {
			out = append(out, p.Conn)
		}
	}
	return out
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func dist3(a, b *Player) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
