package main

import (
	"context"
	"fmt"
	"os"

	"github.com/reelbase/reelbase/internal/config"
	"github.com/reelbase/reelbase/internal/database"
	"github.com/reelbase/reelbase/internal/logger"
	"github.com/reelbase/reelbase/internal/modules/modulemanager"
	"github.com/reelbase/reelbase/internal/server"
)

func main() {
	configPath := os.Getenv("REELBASE_CONFIG")
	if err := config.Load(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	if err := database.Initialize(&cfg.Database); err != nil {
		logger.Error("database initialization failed", "error", err)
		os.Exit(1)
	}

	if err := modulemanager.LoadAll(database.GetDB()); err != nil {
		logger.Error("module initialization failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer modulemanager.Shutdown(ctx)

	if err := config.GetManager().WatchFile(ctx); err != nil {
		logger.Warn("config watcher not started", "error", err)
	}

	r := server.SetupRouter(cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting reelbase server", "addr", addr)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
