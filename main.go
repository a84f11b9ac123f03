package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/thereayou/classroom-chat/cmd/server"
	"github.com/thereayou/classroom-chat/internal/config"
	"github.com/thereayou/classroom-chat/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.Logger, cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewServer(cfg, zl)
	if err != nil {
		zl.Fatal("server init failed", zap.Error(err))
	}

	if err := srv.Run(ctx); err != nil {
		zl.Fatal("server run error", zap.Error(err))
	}
	zl.Info("server stopped")
}
