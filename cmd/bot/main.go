package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/eod"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/logger"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/trace"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/webapi"
)

func main() {
	if err := initializeSystem(); err != nil {
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}

	compressOldLogs(ctx)

	risk := initializeRiskStore(ctx, cfg)
	brk := initializeBroker(ctx, cfg)
	ext := initializeExtractor(ctx, cfg)
	eng := initializeEngine(risk, ext, brk)

	src, err := initializeSource(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize message source", err)
		os.Exit(1)
	}

	web := webapi.NewServer(risk, eng)
	go func() {
		if err := web.ListenAndServe(ctx, cfg.Web.ListenAddr); err != nil {
			logger.ErrorWithErr(ctx, "Config API stopped", err)
		}
	}()

	eodTick := time.NewTicker(60 * time.Second)
	defer eodTick.Stop()
	go func() {
		for {
			select {
			case <-eodTick.C:
				if ok, _ := eod.ShouldRunNow(); ok {
					if p, err := eod.SummarizeToday(); err == nil && p != "" {
						logger.Info(ctx, "EOD CSV written", "path", p)
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Info(ctx, "Shutting down...")
		cancel()
	}()

	logger.Info(ctx, "Bot started", "mode", cfg.Mode, "source", cfg.Source)

	err = src.Run(ctx, func(msgCtx context.Context, text string) {
		if _, herr := eng.HandleMessage(msgCtx, text); herr != nil {
			logger.ErrorWithErr(msgCtx, "Message handling failed", herr)
		}
	})
	if err != nil && ctx.Err() == nil {
		logger.ErrorWithErr(ctx, "Message source failed", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	src.Stop(shutdownCtx)

	if p, err := eod.SummarizeToday(); err == nil && p != "" {
		logger.Info(ctx, "EOD CSV written", "path", p)
	}
	_ = trace.Shutdown(shutdownCtx)
}
