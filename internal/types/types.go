package types

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidQuote marks a parsed alert that can never become an order.
// Callers treat it as "no actionable quote", not a fault.
var ErrInvalidQuote = errors.New("invalid option quote")

type OptionKind string

const (
	Call OptionKind = "CALL"
	Put  OptionKind = "PUT"
)

// OptionQuote is the structured form of a chat alert, immutable once built.
// Expiration carries no year; the contract year is supplied downstream.
type OptionQuote struct {
	Underlying string          `json:"underlying"`
	Strike     decimal.Decimal `json:"strike"`
	Kind       OptionKind      `json:"kind"`
	Month      int             `json:"month"`
	Day        int             `json:"day"`
	Price      decimal.Decimal `json:"price"` // quoted premium per share
}

func (q *OptionQuote) Validate() error {
	if q == nil {
		return fmt.Errorf("%w: nil quote", ErrInvalidQuote)
	}
	if q.Underlying == "" {
		return fmt.Errorf("%w: empty underlying", ErrInvalidQuote)
	}
	if !q.Strike.IsPositive() {
		return fmt.Errorf("%w: strike %s not positive", ErrInvalidQuote, q.Strike)
	}
	if q.Kind != Call && q.Kind != Put {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidQuote, q.Kind)
	}
	if q.Month < 1 || q.Month > 12 {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidQuote, q.Month)
	}
	if q.Day < 1 || q.Day > 31 {
		return fmt.Errorf("%w: day %d out of range", ErrInvalidQuote, q.Day)
	}
	if !q.Price.IsPositive() {
		return fmt.Errorf("%w: price %s not positive", ErrInvalidQuote, q.Price)
	}
	return nil
}

type Decision string

const (
	Submit Decision = "SUBMIT"
	Skip   Decision = "SKIP"
)

// OrderPlan is the engine's output for one quote: a bracket order payload,
// or a skip with its reason. Prices carry two-decimal display precision.
type OrderPlan struct {
	ID           uuid.UUID       `json:"id"`
	Underlying   string          `json:"underlying"`
	OptionSymbol string          `json:"option_symbol,omitempty"`
	EntryLimit   decimal.Decimal `json:"entry_limit"`
	TakeProfit   decimal.Decimal `json:"take_profit"`
	StopTrigger  decimal.Decimal `json:"stop_trigger"`
	Quantity     int             `json:"quantity"`
	Decision     Decision        `json:"decision"`
	SkipReason   string          `json:"skip_reason,omitempty"`
}

// SubmitResult carries the brokerage's answer to a bracket submission.
type SubmitResult struct {
	StatusCode int            `json:"status_code"`
	Body       map[string]any `json:"body,omitempty"`
	OrderID    string         `json:"order_id,omitempty"`
}

// OK reports whether the brokerage accepted the order.
func (r SubmitResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// AlertResult is what handling one chat message produced, end to end.
type AlertResult struct {
	Plan      *OrderPlan    `json:"plan,omitempty"`
	Submitted bool          `json:"submitted"`
	Response  *SubmitResult `json:"response,omitempty"`
	Reason    string        `json:"reason"`
}
