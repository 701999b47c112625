package server

import "sync/atomic"

// ServerMetrics 进程运行期关键指标（监控与调试用）
type ServerMetrics struct {
	TickCount      int64 // 统计的 Tick 次数
	TotalTickNs    int64 // Tick 累计耗时（纳秒）
	Joins          int64 // 成功入房次数
	Leaves         int64 // 离房次数
	TagTransfers   int64 // 鬼权转移次数（不含入房/改派）
	StaleReports   int64 // 玩家已不存在而被丢弃的姿态上报
	RoomsCreated   int64 // 创建过的房间数
	RoomsDestroyed int64 // 销毁过的房间数
	SendDropped    int64 // 发送队列满被丢弃的帧数
}

func (m *ServerMetrics) IncJoins()          { atomic.AddInt64(&m.Joins, 1) }
func (m *ServerMetrics) IncLeaves()         { atomic.AddInt64(&m.Leaves, 1) }
func (m *ServerMetrics) IncTagTransfers()   { atomic.AddInt64(&m.TagTransfers, 1) }
func (m *ServerMetrics) IncStaleReports()   { atomic.AddInt64(&m.StaleReports, 1) }
func (m *ServerMetrics) IncRoomsCreated()   { atomic.AddInt64(&m.RoomsCreated, 1) }
func (m *ServerMetrics) IncRoomsDestroyed() { atomic.AddInt64(&m.RoomsDestroyed, 1) }
func (m *ServerMetrics) IncSendDropped()    { atomic.AddInt64(&m.SendDropped, 1) }

func (m *ServerMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *ServerMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":      tick,
		"avg_tick_ms":     avgMs,
		"joins":           atomic.LoadInt64(&m.Joins),
		"leaves":          atomic.LoadInt64(&m.Leaves),
		"tag_transfers":   atomic.LoadInt64(&m.TagTransfers),
		"stale_reports":   atomic.LoadInt64(&m.StaleReports),
		"rooms_created":   atomic.LoadInt64(&m.RoomsCreated),
		"rooms_destroyed": atomic.LoadInt64(&m.RoomsDestroyed),
		"send_dropped":    atomic.LoadInt64(&m.SendDropped),
	}
}
