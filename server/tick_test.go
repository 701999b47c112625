package server

import (
	"testing"
	"time"
)

// 两名玩家在已知坐标上就位，返回房间；a 为鬼
func setupTagPair(t *testing.T, rm *RoomManager, ax, az, bx, bz float64) *Room {
	t.Helper()
	room := rm.GetOrCreateRoom("public")
	room.Join("a", "Alice", "", nil)
	room.Join("b", "Bob", "", nil)
	room.ApplyStateReport("a", StateReport{X: fp(ax), Z: fp(az)})
	room.ApplyStateReport("b", StateReport{X: fp(bx), Z: fp(bz)})
	return room
}

func TestTagTransferOnProximity(t *testing.T) {
	rm := newTestManager()
	room := setupTagPair(t, rm, 0, 0, 1, 0) // 距离 1 < TagRadius

	_, _, taggedID := room.Tick(time.Now().Add(2 * time.Second))
	if taggedID != "b" {
		t.Fatalf("tagged = %q, want b", taggedID)
	}
	snaps := room.Snapshot()
	if !findSnap(t, snaps, "b").IsTagger || findSnap(t, snaps, "a").IsTagger {
		t.Error("tagger flags not flipped")
	}
	if got := findSnap(t, snaps, "a").Score; got != 1 {
		t.Errorf("previous tagger score = %d, want 1", got)
	}
	if got := findSnap(t, snaps, "b").Score; got != 0 {
		t.Errorf("new tagger score = %d, want 0", got)
	}
	if room.TaggerID() != "b" {
		t.Errorf("room tagger = %q, want b", room.TaggerID())
	}
}

// 冷却未过时零距离也不得转移
func TestNoTransferWithinCooldown(t *testing.T) {
	rm := newTestManager()
	room := setupTagPair(t, rm, 0, 0, 0, 0)

	_, _, taggedID := room.Tick(time.Now().Add(TagCooldown / 2))
	if taggedID != "" {
		t.Fatalf("transfer within cooldown: tagged = %q", taggedID)
	}
	if room.TaggerID() != "a" {
		t.Errorf("tagger = %q, want a", room.TaggerID())
	}
}

func TestNoTransferOutOfRange(t *testing.T) {
	rm := newTestManager()
	room := setupTagPair(t, rm, 0, 0, 5, 5)

	_, _, taggedID := room.Tick(time.Now().Add(2 * time.Second))
	if taggedID != "" {
		t.Fatalf("transfer out of range: tagged = %q", taggedID)
	}
}

// 半径判定是 3D 的：水平贴近但垂直拉开则不抓
func TestTagDistanceUsesAllAxes(t *testing.T) {
	rm := newTestManager()
	room := rm.GetOrCreateRoom("lab")
	room.arena.Flat = false // 全 3D 房间：Y 做裁剪而非贴地
	room.Join("a", "Alice", "", nil)
	room.Join("b", "Bob", "", nil)
	room.ApplyStateReport("a", StateReport{X: fp(0), Y: fp(0), Z: fp(0)})
	room.ApplyStateReport("b", StateReport{X: fp(0), Y: fp(5), Z: fp(0)})

	_, _, taggedID := room.Tick(time.Now().Add(2 * time.Second))
	if taggedID != "" {
		t.Fatalf("vertical separation ignored: tagged = %q", taggedID)
	}
}

// 一拍最多一次转移：首个命中的候选者胜出后立即停止判定
func TestSingleTransferPerTick(t *testing.T) {
	rm := newTestManager()
	room := rm.GetOrCreateRoom("public")
	for _, id := range []string{"a", "b", "c"} {
		room.Join(id, id, "", nil)
		room.ApplyStateReport(id, StateReport{X: fp(0), Z: fp(0)})
	}

	_, _, taggedID := room.Tick(time.Now().Add(2 * time.Second))
	if taggedID == "" || taggedID == "a" {
		t.Fatalf("tagged = %q, want b or c", taggedID)
	}
	if n := taggerCount(room.Snapshot()); n != 1 {
		t.Errorf("tagger count = %d, want 1", n)
	}
	// 新鬼冷却刚重置，同一时刻的下一拍不得立即回传
	_, _, again := room.Tick(time.Now().Add(2 * time.Second))
	if again != "" {
		t.Errorf("immediate back-transfer: tagged = %q", again)
	}
}

// 快照每拍都有，与是否发生转移无关
func TestTickAlwaysReturnsSnapshot(t *testing.T) {
	rm := newTestManager()
	room := setupTagPair(t, rm, 0, 0, 10, 10)

	snapshot, _, _ := room.Tick(time.Now())
	if len(snapshot) != 2 {
		t.Fatalf("snapshot length = %d, want 2", len(snapshot))
	}
}

func TestTickEngineDrivesAllRooms(t *testing.T) {
	metrics := &ServerMetrics{}
	rm := NewRoomManager(metrics)
	r1 := rm.GetOrCreateRoom("one")
	r2 := rm.GetOrCreateRoom("two")
	r1.Join("a", "Alice", "", nil)
	r2.Join("b", "Bob", "", nil)

	engine := NewTickEngine(rm, metrics)
	engine.TickAll(time.Now())
	if got := metrics.Snapshot()["tick_count"].(int64); got != 1 {
		t.Errorf("tick_count = %d, want 1", got)
	}
	engine.Stop()
	engine.Stop() // 幂等
}
