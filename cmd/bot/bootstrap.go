package main

import (
	"context"
	"fmt"
	"os"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/broker/brokerobs"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/broker/tradier"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/engine"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/engine/engineobs"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/eod"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/eod/eodobs"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/extract/extractobs"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/extract/openai"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/extract/pattern"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/interfaces"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/logger"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/riskcfg"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/source/discord"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/source/replay"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/store"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/trace"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/tradelog"

	"github.com/joho/godotenv"
)

// initializeSystem initializes logger, tracer, and EOD summarizer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	initializeEOD()

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// compressOldLogs compresses old tradelog files if retention is configured
func compressOldLogs(ctx context.Context) {
	if v := os.Getenv("TRADER_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := tradelog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}
}

// initializeRiskStore opens the persisted risk configuration document
func initializeRiskStore(ctx context.Context, cfg *store.Config) *riskcfg.Store {
	st := riskcfg.NewStore(riskcfg.NewFilePersistence(cfg.RiskConfigPath))
	current := st.Load(ctx)
	logger.Info(ctx, "Risk config loaded",
		"path", cfg.RiskConfigPath,
		"min_amount", current.PositionSize.MinAmount,
		"max_amount", current.PositionSize.MaxAmount,
		"stop_loss_pct", current.StopLoss.Percentage,
		"take_profit_pct", current.TakeProfit.Percentage,
		"entry_adjustment", current.EntryPriceAdjustment,
	)
	return st
}

// initializeBroker initializes and returns the broker instance with observability
func initializeBroker(ctx context.Context, cfg *store.Config) interfaces.Broker {
	brk := tradier.New(tradier.Params{
		Mode:      cfg.Mode,
		BaseURL:   cfg.Tradier.BaseURL,
		AccountID: cfg.Tradier.AccountID,
		Token:     os.Getenv("TRADIER_API_TOKEN"),
		Duration:  cfg.Tradier.Duration,
	})

	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - orders will be simulated")
	}

	return brokerobs.Wrap(brk)
}

// initializeExtractor initializes and returns the alert extractor with observability
func initializeExtractor(ctx context.Context, cfg *store.Config) interfaces.Extractor {
	var ext interfaces.Extractor

	switch cfg.Extractor.Provider {
	case "OPENAI":
		ext = openai.NewOpenAIExtractor(cfg)
		logger.Info(ctx, "Using OpenAI alert extractor", "model", cfg.Extractor.Model)
	default:
		ext = pattern.NewPatternExtractor()
		logger.Info(ctx, "Using pattern alert extractor")
	}

	return extractobs.Wrap(ext)
}

// initializeEngine initializes and returns the alert engine with observability
func initializeEngine(risk *riskcfg.Store, ext interfaces.Extractor, brk interfaces.Broker) interfaces.Engine {
	eng := engine.New(risk, ext, brk)

	return engineobs.Wrap(eng)
}

// initializeSource builds the message source the engine listens on
func initializeSource(ctx context.Context, cfg *store.Config) (interfaces.Source, error) {
	if cfg.Source == "DISCORD" {
		src, err := discord.New(discord.Params{
			Token:     os.Getenv("DISCORD_BOT_TOKEN"),
			GuildID:   cfg.Discord.GuildID,
			ChannelID: cfg.Discord.ChannelID,
		})
		if err != nil {
			return nil, fmt.Errorf("discord source: %w", err)
		}
		logger.Info(ctx, "Listening to Discord channel",
			"guild_id", cfg.Discord.GuildID,
			"channel_id", cfg.Discord.ChannelID,
		)
		return src, nil
	}

	logger.Info(ctx, "Replaying messages", "file", cfg.ReplayFile)
	return replay.New(cfg.ReplayFile), nil
}

// initializeEOD wraps the default EOD summarizer with observability
func initializeEOD() {
	baseSummarizer := eod.NewSummarizer()

	observableSummarizer := eodobs.Wrap(baseSummarizer)

	eod.SetDefaultSummarizer(observableSummarizer)
}
