// Standalone config API: serves the risk configuration endpoints without
// running the trading engine, so settings can be managed while the bot
// process is down.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/logger"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/riskcfg"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/store"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/webapi"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		os.Exit(1)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Info(ctx, "Shutting down...")
		cancel()
	}()

	risk := riskcfg.NewStore(riskcfg.NewFilePersistence(cfg.RiskConfigPath))
	srv := webapi.NewServer(risk, nil)
	if err := srv.ListenAndServe(ctx, cfg.Web.ListenAddr); err != nil {
		logger.ErrorWithErr(ctx, "Config API stopped", err)
		os.Exit(1)
	}
}
