// Package main provides the rollkit Telnet dice-table server. Every player
// connected to the server sits at one shared table and sees the others' rolls.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rollkit/internal/app"
	"github.com/cory-johannsen/rollkit/internal/config"
	"github.com/cory-johannsen/rollkit/internal/frontend/handlers"
	"github.com/cory-johannsen/rollkit/internal/frontend/telnet"
	"github.com/cory-johannsen/rollkit/internal/observability"
	"github.com/cory-johannsen/rollkit/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting rollkit table server",
		zap.String("telnet_addr", cfg.Telnet.Addr()),
		zap.String("rolls_dir", cfg.Content.RollsDir),
		zap.String("macros_dir", cfg.Scripting.MacrosDir),
	)

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("building application", zap.Error(err))
	}
	defer a.Close()

	table := handlers.NewTable(logger)
	acceptor := telnet.NewAcceptor(cfg.Telnet, handlers.NewTableHandler(a.Shell, table, logger), logger)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("telnet", acceptor)

	logger.Info("table server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.Strings("services", lifecycle.Names()),
	)

	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Error("server error", zap.Error(err))
		a.Close()
		_ = logger.Sync()
		log.Fatalf("server error: %v", err)
	}
}
