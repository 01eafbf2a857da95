// Package riskcfg owns the persisted risk-configuration document: the
// budget band, exit fractions, and entry markup the order-plan engine reads
// before every alert.
package riskcfg

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Config mirrors the persisted JSON document. Percentages are on a 0-100
// scale and divided by 100 at use; entry_price_adjustment is a multiplier.
type Config struct {
	PositionSize         PositionSize `json:"position_size"`
	StopLoss             StopLoss     `json:"stop_loss"`
	TakeProfit           TakeProfit   `json:"take_profit"`
	EntryPriceAdjustment float64      `json:"entry_price_adjustment"`
}

type PositionSize struct {
	MinAmount float64 `json:"min_amount"`
	MaxAmount float64 `json:"max_amount"`
}

type StopLoss struct {
	Percentage float64 `json:"percentage"`
}

type TakeProfit struct {
	Percentage float64 `json:"percentage"`
}

// Default returns the built-in configuration used on first run and whenever
// the backing document is missing or corrupt.
func Default() Config {
	return Config{
		PositionSize:         PositionSize{MinAmount: 100, MaxAmount: 120},
		StopLoss:             StopLoss{Percentage: 20},
		TakeProfit:           TakeProfit{Percentage: 30},
		EntryPriceAdjustment: 1.05,
	}
}

// ValidationError describes which field of a proposed update failed and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validate checks the whole document against its invariants.
func (c Config) Validate() error {
	if c.PositionSize.MinAmount <= 0 {
		return &ValidationError{Field: "position_size.min_amount", Reason: "must be greater than 0"}
	}
	if c.PositionSize.MaxAmount <= 0 {
		return &ValidationError{Field: "position_size.max_amount", Reason: "must be greater than 0"}
	}
	if c.PositionSize.MinAmount >= c.PositionSize.MaxAmount {
		return &ValidationError{Field: "position_size.min_amount", Reason: "must be less than max_amount"}
	}
	if c.StopLoss.Percentage <= 0 || c.StopLoss.Percentage >= 100 {
		return &ValidationError{Field: "stop_loss.percentage", Reason: "must be between 0 and 100 exclusive"}
	}
	if c.TakeProfit.Percentage <= 0 {
		return &ValidationError{Field: "take_profit.percentage", Reason: "must be greater than 0"}
	}
	if c.EntryPriceAdjustment <= 0 {
		return &ValidationError{Field: "entry_price_adjustment", Reason: "must be greater than 0"}
	}
	return nil
}

var hundred = decimal.NewFromInt(100)

// StopLossFraction returns stop_loss.percentage / 100.
func (c Config) StopLossFraction() decimal.Decimal {
	return decimal.NewFromFloat(c.StopLoss.Percentage).Div(hundred)
}

// TakeProfitFraction returns take_profit.percentage / 100.
func (c Config) TakeProfitFraction() decimal.Decimal {
	return decimal.NewFromFloat(c.TakeProfit.Percentage).Div(hundred)
}

// EntryMultiplier returns the entry price markup as a decimal.
func (c Config) EntryMultiplier() decimal.Decimal {
	return decimal.NewFromFloat(c.EntryPriceAdjustment)
}

// MinNotional returns the budget floor in dollars.
func (c Config) MinNotional() decimal.Decimal {
	return decimal.NewFromFloat(c.PositionSize.MinAmount)
}

// MaxNotional returns the budget ceiling in dollars.
func (c Config) MaxNotional() decimal.Decimal {
	return decimal.NewFromFloat(c.PositionSize.MaxAmount)
}
