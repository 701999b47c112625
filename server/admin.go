package server

import (
	"encoding/json"
	"net/http"
)

// AdminAPI 只读运维接口：进程指标与房间列表
// 游戏规则常量固定在编译期，因此不提供配置写入口
type AdminAPI struct {
	rm      *RoomManager
	metrics *ServerMetrics
}

// NewAdminAPI 创建运维接口
func NewAdminAPI(rm *RoomManager, metrics *ServerMetrics) *AdminAPI {
	return &AdminAPI{rm: rm, metrics: metrics}
}

// HandleMetrics 输出进程运行指标
// GET /metrics
func (a *AdminAPI) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	payload := map[string]any{
		"rooms":   a.rm.Count(),
		"metrics": a.metrics.Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

// HandleRooms 列出在册房间与人数
// GET /admin/rooms
func (a *AdminAPI) HandleRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a.rm.ListRooms())
}
