package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/interfaces"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/logger"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/riskcfg"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/tradelog"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/types"
)

// Engine handles one chat message end to end: extract a quote, derive an
// order plan against the current risk configuration, and submit accepted
// plans as a bracket order. Every discarded or skipped message leaves a
// diagnostic so an operator can audit why no order was placed.
type Engine struct {
	risk       *riskcfg.Store
	ext        interfaces.Extractor
	brk        interfaces.Broker
	yearSuffix func() string
}

type Option func(*Engine)

// WithYearSuffix overrides the contract-year source. The default reads the
// wall clock so the engine stays valid across calendar years.
func WithYearSuffix(fn func() string) Option {
	return func(e *Engine) { e.yearSuffix = fn }
}

func New(risk *riskcfg.Store, ext interfaces.Extractor, brk interfaces.Broker, opts ...Option) *Engine {
	e := &Engine{
		risk: risk,
		ext:  ext,
		brk:  brk,
		yearSuffix: func() string {
			return fmt.Sprintf("%02d", time.Now().UTC().Year()%100)
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) HandleMessage(ctx context.Context, text string) (*types.AlertResult, error) {
	quote, err := e.ext.Extract(ctx, text)
	if err != nil {
		logger.ErrorWithErr(ctx, "Quote extraction failed", err)
		return nil, err
	}
	if quote == nil {
		logger.Debug(ctx, "Message carried no option alert")
		return &types.AlertResult{Reason: "no actionable quote"}, nil
	}

	cfg := e.risk.Load(ctx)

	plan, err := DerivePlan(quote, cfg, e.yearSuffix())
	if err != nil {
		if errors.Is(err, types.ErrInvalidQuote) {
			// Malformed quotes are discarded, not fatal.
			logger.Warn(ctx, "Discarding invalid quote", "underlying", quote.Underlying, "error", err)
			_ = tradelog.AppendDecision(tradelog.DecisionEntry{
				Underlying:  quote.Underlying,
				Decision:    "DISCARD",
				Reason:      err.Error(),
				QuotedPrice: quote.Price.String(),
			})
			return &types.AlertResult{Reason: err.Error()}, nil
		}
		return nil, err
	}

	logger.Decision(ctx, plan.Underlying, string(plan.Decision), plan.SkipReason,
		"plan_id", plan.ID.String(),
		"quantity", plan.Quantity,
		"entry_limit", plan.EntryLimit.StringFixed(2),
	)

	if plan.Decision == types.Skip {
		_ = tradelog.AppendDecision(tradelog.DecisionEntry{
			Underlying:  plan.Underlying,
			Decision:    string(types.Skip),
			Reason:      plan.SkipReason,
			QuotedPrice: quote.Price.String(),
		})
		return &types.AlertResult{Plan: &plan, Reason: plan.SkipReason}, nil
	}

	if !plan.StopTrigger.IsPositive() {
		// Submitted as-is; the brokerage rejects non-positive stops.
		logger.Warn(ctx, "Stop price rounded to zero or below",
			"plan_id", plan.ID.String(), "stop_trigger", plan.StopTrigger.StringFixed(2))
	}

	resp, err := e.brk.SubmitBracket(ctx, plan)
	if err != nil {
		logger.ErrorWithErr(ctx, "Bracket submission failed", err,
			"plan_id", plan.ID.String(), "option_symbol", plan.OptionSymbol)
		return &types.AlertResult{Plan: &plan, Reason: "submission failed: " + err.Error()}, nil
	}

	logger.Order(ctx, plan.OptionSymbol, plan.Quantity,
		plan.EntryLimit.StringFixed(2), plan.StopTrigger.StringFixed(2), plan.TakeProfit.StringFixed(2),
		resp.StatusCode, "plan_id", plan.ID.String(), "order_id", resp.OrderID)

	_ = tradelog.Append(tradelog.Entry{
		PlanID:       plan.ID.String(),
		Underlying:   plan.Underlying,
		OptionSymbol: plan.OptionSymbol,
		Qty:          plan.Quantity,
		EntryLimit:   plan.EntryLimit.StringFixed(2),
		StopTrigger:  plan.StopTrigger.StringFixed(2),
		TakeProfit:   plan.TakeProfit.StringFixed(2),
		OrderID:      resp.OrderID,
		Status:       resp.StatusCode,
		Reason:       "ALERT",
	})

	if !resp.OK() {
		logger.Warn(ctx, "Brokerage rejected bracket order",
			"plan_id", plan.ID.String(), "status", resp.StatusCode)
		return &types.AlertResult{Plan: &plan, Response: &resp, Reason: "brokerage rejected order"}, nil
	}

	return &types.AlertResult{Plan: &plan, Submitted: true, Response: &resp, Reason: "order placed"}, nil
}
