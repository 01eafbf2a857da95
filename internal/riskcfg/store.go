package riskcfg

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"sync"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/logger"
)

// Store serializes read-modify-write of the risk configuration. The engine
// reads a snapshot per alert; the config API mutates one sub-object at a
// time. Writers never observe a torn read of another in-flight write.
type Store struct {
	mu sync.Mutex
	p  Persistence
}

func NewStore(p Persistence) *Store {
	return &Store{p: p}
}

// Load returns the persisted configuration. A missing, unreadable, or
// invalid document falls back to the built-in default, which is immediately
// persisted so the next reader sees it.
func (s *Store) Load(ctx context.Context) Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) Config {
	raw, err := s.p.Read()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn(ctx, "Risk config unreadable, falling back to defaults", "error", err)
		}
		return s.persistDefaultLocked(ctx)
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		logger.Warn(ctx, "Risk config corrupt, falling back to defaults", "error", err)
		return s.persistDefaultLocked(ctx)
	}
	if err := cfg.Validate(); err != nil {
		logger.Warn(ctx, "Risk config invalid, falling back to defaults", "error", err)
		return s.persistDefaultLocked(ctx)
	}
	return cfg
}

func (s *Store) persistDefaultLocked(ctx context.Context) Config {
	def := Default()
	if err := s.persistLocked(def); err != nil {
		logger.ErrorWithErr(ctx, "Failed to persist default risk config", err)
	}
	return def
}

func (s *Store) persistLocked(cfg Config) error {
	raw, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err
	}
	return s.p.Write(raw)
}

// update applies patch to the current document, validates the merged result,
// and commits only on success. The prior document is untouched on failure.
func (s *Store) update(ctx context.Context, patch func(*Config)) (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.loadLocked(ctx)
	patch(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	if err := s.persistLocked(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SetPositionSize replaces the budget band, leaving other fields alone.
func (s *Store) SetPositionSize(ctx context.Context, minAmount, maxAmount float64) (Config, error) {
	return s.update(ctx, func(c *Config) {
		c.PositionSize = PositionSize{MinAmount: minAmount, MaxAmount: maxAmount}
	})
}

// SetStopLoss replaces the stop-loss percentage (0-100 scale).
func (s *Store) SetStopLoss(ctx context.Context, percentage float64) (Config, error) {
	return s.update(ctx, func(c *Config) {
		c.StopLoss.Percentage = percentage
	})
}

// SetTakeProfit replaces the take-profit percentage (0-100 scale).
func (s *Store) SetTakeProfit(ctx context.Context, percentage float64) (Config, error) {
	return s.update(ctx, func(c *Config) {
		c.TakeProfit.Percentage = percentage
	})
}

// SetEntryAdjustment replaces the entry price multiplier (e.g. 1.05).
func (s *Store) SetEntryAdjustment(ctx context.Context, multiplier float64) (Config, error) {
	return s.update(ctx, func(c *Config) {
		c.EntryPriceAdjustment = multiplier
	})
}

// Reset persists the built-in default and returns it. Idempotent.
func (s *Store) Reset(ctx context.Context) (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	def := Default()
	if err := s.persistLocked(def); err != nil {
		return Config{}, err
	}
	return def, nil
}
