package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tagarena/server"
)

// TagArena 入口：启动 HTTP + WebSocket 服务，并拉起全局 Tick 引擎
func main() {
	cfg, err := server.LoadConfig()
	if err != nil {
		panic(err)
	}
	var addr string
	flag.StringVar(&addr, "addr", cfg.ListenAddr(), "server listen address, e.g. :8080")
	flag.Parse()

	// 使用第三方 zap 日志库写入 app.log（带滚动）
	if err := server.InitLogger(cfg.LogFile); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	metrics := &server.ServerMetrics{}
	rm := server.NewRoomManager(metrics)

	// 全局唯一的推进器：10 Hz 驱动所有房间的抓捕判定与快照广播
	engine := server.NewTickEngine(rm, metrics)
	engine.Start()

	gateway := server.NewWSGateway(rm, metrics)
	admin := server.NewAdminAPI(rm, metrics)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gateway.HandleWS)
	// 前后端分离：将 / 映射到 web 目录的静态资源（3D 客户端）
	mux.Handle("/", http.FileServer(http.Dir("web")))
	// 管理与监控接口
	mux.HandleFunc("/metrics", admin.HandleMetrics)
	mux.HandleFunc("/admin/rooms", admin.HandleRooms)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		server.Log.Infof("TagArena listening on %s; ws endpoint: ws://localhost%v/ws", addr, addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	server.Log.Info("Shutting down...")
	engine.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
