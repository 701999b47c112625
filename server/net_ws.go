package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	readTimeout  = 60 * time.Second
	writeTimeout = 5 * time.Second
)

// ClientConn 负责发送（写）数据到客户端的轻量包装：带缓冲队列与独立写协程
type ClientConn struct {
	ws      *websocket.Conn
	send    chan []byte
	metrics *ServerMetrics

	mu     sync.Mutex
	closed bool
}

// NewClientConn 包装一条已升级的 WebSocket 连接
func NewClientConn(ws *websocket.Conn, metrics *ServerMetrics) *ClientConn {
	return &ClientConn{
		ws:      ws,
		send:    make(chan []byte, 64),
		metrics: metrics,
	}
}

// Enqueue 非阻塞投递一帧；队列满或连接已关闭时丢弃，保证 Tick 永不被写端拖慢
func (c *ClientConn) Enqueue(frame []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- frame:
	default:
		c.metrics.IncSendDropped()
	}
}

// Close 关闭发送队列与底层连接，可安全重复调用
func (c *ClientConn) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
	_ = c.ws.Close()
}

// writePump 独立协程，负责从 send 队列写出到 WS
func (c *ClientConn) writePump() {
	defer c.ws.Close()
	for frame := range c.send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// WSGateway 连接接入层：持有注册表与指标，按连接派生会话
type WSGateway struct {
	rm      *RoomManager
	metrics *ServerMetrics
}

// NewWSGateway 创建接入层
func NewWSGateway(rm *RoomManager, metrics *ServerMetrics) *WSGateway {
	return &WSGateway{rm: rm, metrics: metrics}
}

// HandleWS WebSocket 接入：升级连接并进入会话循环
func (g *WSGateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnf("upgrade error: %v", err)
		return
	}
	client := NewClientConn(ws, g.metrics)
	go client.writePump()
	g.readPump(client)
}

// readPump 会话主循环：解码入站事件并转成房间操作
// 同一连接只允许绑定一个房间（先到先得）；ping 在本协程直接回射，不碰任何房间锁
func (g *WSGateway) readPump(c *ClientConn) {
	playerID := uuid.NewString()
	var room *Room

	defer func() {
		if room != nil {
			g.leave(room, playerID)
		}
		c.Close()
	}()

	c.ws.SetReadLimit(1 << 20) // 1MB
	_ = c.ws.SetReadDeadline(time.Now().Add(readTimeout))
	c.ws.SetPongHandler(func(string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(readTimeout))

		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			continue
		}
		switch env.Type {
		case EvtRoomJoin:
			if room != nil {
				continue
			}
			var req JoinRequest
			_ = json.Unmarshal(env.Data, &req) // 字段缺失走 sanitize 的默认值
			room = g.join(c, playerID, req)
		case EvtPlayerState:
			if room == nil {
				continue
			}
			var rep StateReport
			if err := json.Unmarshal(env.Data, &rep); err != nil {
				continue
			}
			room.ApplyStateReport(playerID, rep)
		case EvtNetPing:
			// 原样回射客户端时间戳：RTT 测量不依赖服务端时钟，也不受 Tick 抢锁影响
			if len(env.Data) == 0 {
				continue
			}
			if frame, err := Encode(EvtNetPong, env.Data); err == nil {
				c.Enqueue(frame)
			}
		}
	}
}

// join 入房流程：净化房间号 → 注册表取房 → 登记玩家 → 回发 world:init、通知同房
func (g *WSGateway) join(c *ClientConn, playerID string, req JoinRequest) *Room {
	roomID := SanitizeRoomID(req.Room)
	for {
		room := g.rm.GetOrCreateRoom(roomID)
		self, players, ok := room.Join(playerID, req.Name, req.Skin, c)
		if !ok {
			// 房间刚被销毁，回注册表重取
			continue
		}
		Log.Infof("player join: room=%s id=%s name=%s skin=%s", roomID, playerID, self.Name, self.Skin)

		if frame, err := Encode(EvtWorldInit, WorldInit{
			Me:      playerID,
			Room:    roomID,
			Players: players,
			Arena:   room.ArenaBounds(),
		}); err == nil {
			c.Enqueue(frame)
		}
		if frame, err := Encode(EvtPlayerJoin, self); err == nil {
			room.BroadcastExcept(playerID, frame)
		}
		return room
	}
}

// leave 断线清理：移除玩家、必要时当场改派新鬼、房间清空立即销毁
func (g *WSGateway) leave(room *Room, playerID string) {
	removed, newTaggerID := room.Disconnect(playerID)
	if removed == nil {
		return
	}
	Log.Infof("player leave: room=%s id=%s", room.ID, playerID)

	if frame, err := Encode(EvtPlayerLeave, playerID); err == nil {
		room.BroadcastExcept(playerID, frame)
	}
	if newTaggerID != "" {
		if frame, err := Encode(EvtTagUpdate, TagUpdate{TaggerID: newTaggerID}); err == nil {
			room.BroadcastExcept(playerID, frame)
		}
	}
	g.rm.RemoveIfEmpty(room.ID)
}
