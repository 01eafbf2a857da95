package engine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/occ"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/riskcfg"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/types"
)

// SkipTooExpensive is the reason attached when a single contract already
// costs more than the configured budget ceiling.
const SkipTooExpensive = "contract too expensive"

// One option contract controls 100 shares.
var contractMultiplier = decimal.NewFromInt(100)

// DerivePlan turns a quote plus the current risk configuration into a
// bracket-order plan or a skip. Deterministic and side-effect-free.
//
// Rounding is pinned: prices round half away from zero to 2 decimals,
// contract counts use floor division, and the strike symbol field rounds
// half up (see occ.Encode).
func DerivePlan(quote *types.OptionQuote, cfg riskcfg.Config, yearSuffix string) (types.OrderPlan, error) {
	if err := quote.Validate(); err != nil {
		return types.OrderPlan{}, err
	}

	// Entry price carries the configured markup so the limit order is
	// likely to fill. Sizing uses the unrounded value; the rounded one is
	// what gets submitted.
	entry := quote.Price.Mul(cfg.EntryMultiplier())
	if !entry.IsPositive() {
		return types.OrderPlan{}, fmt.Errorf("%w: entry price %s not positive", types.ErrInvalidQuote, entry)
	}

	one := decimal.NewFromInt(1)
	stop := entry.Mul(one.Sub(cfg.StopLossFraction())).Round(2)
	target := entry.Mul(one.Add(cfg.TakeProfitFraction())).Round(2)

	plan := types.OrderPlan{
		ID:          uuid.New(),
		Underlying:  quote.Underlying,
		EntryLimit:  entry.Round(2),
		TakeProfit:  target,
		StopTrigger: stop,
	}

	qty, skipReason := contractQuantity(entry, cfg.MinNotional(), cfg.MaxNotional())
	plan.Quantity = qty
	if qty == 0 {
		plan.Decision = types.Skip
		plan.SkipReason = skipReason
		return plan, nil
	}

	symbol, err := occ.Encode(quote.Underlying, quote.Strike, quote.Kind, quote.Month, quote.Day, yearSuffix)
	if err != nil {
		return types.OrderPlan{}, err
	}
	plan.OptionSymbol = symbol
	plan.Decision = types.Submit
	return plan, nil
}

// contractQuantity sizes the position inside the [min, max] notional band.
// The ceiling is hard: if even one contract costs more than max, the answer
// is zero. Otherwise take the largest count whose cost stays under the
// ceiling; when one contract already clears the floor (minContracts == 0)
// that is still the right answer, since anything from 1 to maxContracts
// satisfies both bounds.
func contractQuantity(entry, minNotional, maxNotional decimal.Decimal) (int, string) {
	cost := entry.Mul(contractMultiplier)
	if cost.GreaterThan(maxNotional) {
		return 0, SkipTooExpensive
	}

	maxContracts := maxNotional.Div(cost).Floor().IntPart()
	minContracts := minNotional.Div(cost).Floor().IntPart()

	var qty int64
	if minContracts == 0 {
		qty = maxContracts
	} else if decimal.NewFromInt(maxContracts).Mul(cost).LessThanOrEqual(maxNotional) {
		qty = maxContracts
	} else {
		// Unreachable by construction (maxContracts is floored against the
		// ceiling), kept as the fallback to the floor count.
		qty = minContracts
	}

	if qty <= 0 {
		return 0, SkipTooExpensive
	}
	return int(qty), ""
}
