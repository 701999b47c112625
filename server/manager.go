package server

import "sync"

// RoomManager 管理多个房间的生命周期：首次加入按需创建，清空即刻销毁
// 在进程启动时构建一次并注入各连接处理器，不做包级单例
type RoomManager struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	metrics *ServerMetrics
}

// RoomInfo 运维接口用的房间概览
type RoomInfo struct {
	ID       string `json:"id"`
	Players  int    `json:"players"`
	TaggerID string `json:"taggerId"`
}

// NewRoomManager 创建注册表（注册表拥有房间，房间拥有玩家）
func NewRoomManager(metrics *ServerMetrics) *RoomManager {
	return &RoomManager{
		rooms:   make(map[string]*Room),
		metrics: metrics,
	}
}

// GetOrCreateRoom 获取或创建房间；同一 ID 的检查-创建在注册表锁内原子完成
func (m *RoomManager) GetOrCreateRoom(id string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, exists := m.rooms[id]
	if !exists {
		r = NewRoom(id, m.metrics)
		m.rooms[id] = r
		m.metrics.IncRoomsCreated()
		Log.Infof("room created: %s", id)
	}
	return r
}

// RemoveIfEmpty 仅当房间当前无人时删除条目；每次移除玩家后立即调用
// 删除时为房间打上 closed 标记，让并发的 Join 回注册表重取
func (m *RoomManager) RemoveIfEmpty(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, exists := m.rooms[id]
	if !exists {
		return
	}
	r.mu.Lock()
	empty := len(r.players) == 0
	if empty {
		r.closed = true
	}
	r.mu.Unlock()
	if empty {
		delete(m.rooms, id)
		m.metrics.IncRoomsDestroyed()
		Log.Infof("room destroyed: %s", id)
	}
}

// Rooms 在册房间的一次性切片拷贝，供 Tick 引擎遍历
func (m *RoomManager) Rooms() []*Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r)
	}
	return out
}

// Count 在册房间数
func (m *RoomManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// ListRooms 输出全部房间概览（运维接口用）
func (m *RoomManager) ListRooms() []RoomInfo {
	rooms := m.Rooms()
	out := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, RoomInfo{ID: r.ID, Players: r.PlayerCount(), TaggerID: r.TaggerID()})
	}
	return out
}
