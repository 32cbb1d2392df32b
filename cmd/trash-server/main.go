// trash-server 运行无界面的游戏服务端，远程客户端通过 WebSocket 发送指针事件
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/decker502/trashcatch/pkg/config"
	"github.com/decker502/trashcatch/pkg/network"
	"github.com/decker502/trashcatch/pkg/protocol"
	"github.com/decker502/trashcatch/pkg/room"
	"github.com/decker502/trashcatch/pkg/store"
)

var (
	envFile    = flag.String("env", ".env", "环境变量文件（不存在时跳过）")
	addr       = flag.String("addr", "", "监听地址，覆盖 "+config.EnvServerAddr)
	dbPath     = flag.String("db", "", "会话历史数据库，覆盖 "+config.EnvServerDB)
	noHistory  = flag.Bool("no-history", false, "不记录会话历史")
	tuningPath = flag.String("tuning", "", "数值配置文件，覆盖 "+config.EnvTuning)
)

func main() {
	flag.Parse()
	if flag.NArg() > 0 {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(); err != nil {
		log.Printf("[Server] %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServerConfig(*envFile)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *noHistory {
		cfg.DBPath = ""
	}
	if *tuningPath != "" {
		cfg.TuningPath = *tuningPath
	}

	tuning, err := config.ResolveTuning(cfg.TuningPath)
	if err != nil {
		return err
	}
	validator, err := protocol.DefaultValidator()
	if err != nil {
		return err
	}

	roomCfg := room.Config{Tuning: tuning}
	var sessions network.SessionLister
	if cfg.DBPath != "" {
		idx, err := store.OpenSQLite(cfg.DBPath)
		if err != nil {
			return err
		}
		defer idx.Close()
		roomCfg.History = idx
		sessions = idx
		log.Printf("[Server] 会话历史写入 %s", cfg.DBPath)
	}

	rooms := room.NewManager(roomCfg, nil)
	defer rooms.StopAll()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           network.NewServer(rooms, sessions, validator).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] 监听 %s（WebSocket: /ws）", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("[Server] 正在关闭")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
