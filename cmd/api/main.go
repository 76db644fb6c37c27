package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/markdave123-py/vectorsync/internal/app"
	"github.com/markdave123-py/vectorsync/internal/config"
	"github.com/markdave123-py/vectorsync/internal/logger"
)

func main() {
	// Handle SIGINT/SIGTERM for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger.New(cfg.LogLevel, os.Stderr)

	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		slog.Error("server stopped", "err", err)
		return
	}
	slog.Info("shut down cleanly")
}
