package server

import (
	"sync"
	"time"
)

// 抓捕规则常量
const (
	// TickInterval 世界推进频率：100ms 一拍（10 Hz）
	TickInterval = 100 * time.Millisecond
	// TagRadius 抓捕半径：鬼与候选者的 3D 欧氏距离上限
	TagRadius = 1.5
	// TagCooldown 成为鬼之后再次抓人前的最短间隔
	TagCooldown = 1500 * time.Millisecond
)

// TickEngine 进程级唯一的推进器：固定频率驱动所有在册房间
// 与各连接的读写协程互不阻塞，房间状态在锁内判定、锁外派发
type TickEngine struct {
	rm       *RoomManager
	metrics  *ServerMetrics
	quit     chan struct{}
	stopOnce sync.Once
}

// NewTickEngine 创建推进器
func NewTickEngine(rm *RoomManager, metrics *ServerMetrics) *TickEngine {
	return &TickEngine{
		rm:      rm,
		metrics: metrics,
		quit:    make(chan struct{}),
	}
}

// Start 启动推进循环（独立协程）
func (e *TickEngine) Start() {
	go e.run()
}

// Stop 停止推进，可安全重复调用
func (e *TickEngine) Stop() {
	e.stopOnce.Do(func() { close(e.quit) })
}

func (e *TickEngine) run() {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-e.quit:
			return
		case <-ticker.C:
			e.TickAll(time.Now())
		}
	}
}

// TickAll 对每个房间执行一拍：抓捕判定 → 全量快照 → 广播
// 快照广播每拍必发、不做增量：丢一拍无感知，换取协议的简单与抗丢包
func (e *TickEngine) TickAll(now time.Time) {
	start := time.Now()
	for _, room := range e.rm.Rooms() {
		snapshot, conns, taggedID := room.Tick(now)
		if taggedID != "" {
			Log.Debugf("tag transfer: room=%s tagger=%s", room.ID, taggedID)
			if frame, err := Encode(EvtTagUpdate, TagUpdate{TaggerID: taggedID}); err == nil {
				for _, c := range conns {
					c.Enqueue(frame)
				}
			}
		}
		frame, err := Encode(EvtWorldState, snapshot)
		if err != nil {
			continue
		}
		for _, c := range conns {
			c.Enqueue(frame)
		}
	}
	e.metrics.AddTick(time.Since(start).Nanoseconds())
}
