package engine

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/riskcfg"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/types"
)

func quoteFor(price string) *types.OptionQuote {
	p, _ := decimal.NewFromString(price)
	return &types.OptionQuote{
		Underlying: "SPY",
		Strike:     decimal.NewFromInt(400),
		Kind:       types.Call,
		Month:      3,
		Day:        15,
		Price:      p,
	}
}

func cfgWith(min, max, slPct, tpPct, adj float64) riskcfg.Config {
	return riskcfg.Config{
		PositionSize:         riskcfg.PositionSize{MinAmount: min, MaxAmount: max},
		StopLoss:             riskcfg.StopLoss{Percentage: slPct},
		TakeProfit:           riskcfg.TakeProfit{Percentage: tpPct},
		EntryPriceAdjustment: adj,
	}
}

func TestDerivePlanPriceDerivation(t *testing.T) {
	// quoted 1.00, multiplier 1.05, stop 20%, take-profit 30%:
	// entry 1.05, stop 0.84, target 1.365 -> 1.37 (half away from zero).
	plan, err := DerivePlan(quoteFor("1.00"), cfgWith(100, 120, 20, 30, 1.05), "25")
	if err != nil {
		t.Fatalf("DerivePlan failed: %v", err)
	}
	if got := plan.EntryLimit.StringFixed(2); got != "1.05" {
		t.Errorf("Expected entry 1.05, got %s", got)
	}
	if got := plan.StopTrigger.StringFixed(2); got != "0.84" {
		t.Errorf("Expected stop 0.84, got %s", got)
	}
	if got := plan.TakeProfit.StringFixed(2); got != "1.37" {
		t.Errorf("Expected take-profit 1.37, got %s", got)
	}
	if plan.Decision != types.Submit {
		t.Errorf("Expected SUBMIT, got %s (%s)", plan.Decision, plan.SkipReason)
	}
	if plan.OptionSymbol != "SPY250315C00400000" {
		t.Errorf("Unexpected option symbol %s", plan.OptionSymbol)
	}
}

func TestDerivePlanCeilingSkip(t *testing.T) {
	// One contract costs 210 > max 120: hard ceiling, regardless of min.
	plan, err := DerivePlan(quoteFor("2.00"), cfgWith(100, 120, 20, 30, 1.05), "25")
	if err != nil {
		t.Fatalf("DerivePlan failed: %v", err)
	}
	if plan.Decision != types.Skip {
		t.Fatalf("Expected SKIP, got %s", plan.Decision)
	}
	if plan.Quantity != 0 {
		t.Errorf("Expected quantity 0, got %d", plan.Quantity)
	}
	if plan.SkipReason != SkipTooExpensive {
		t.Errorf("Expected reason %q, got %q", SkipTooExpensive, plan.SkipReason)
	}
}

func TestDerivePlanFloorExceedsOneContract(t *testing.T) {
	// Contract cost 105 sits above min 100 (min_contracts = 0) but under
	// max 120: take the largest count that fits the ceiling.
	plan, err := DerivePlan(quoteFor("1.00"), cfgWith(100, 120, 20, 30, 1.05), "25")
	if err != nil {
		t.Fatalf("DerivePlan failed: %v", err)
	}
	if plan.Decision != types.Submit {
		t.Fatalf("Expected SUBMIT, got %s (%s)", plan.Decision, plan.SkipReason)
	}
	if plan.Quantity != 1 {
		t.Errorf("Expected quantity 1, got %d", plan.Quantity)
	}
}

func TestDerivePlanMaxContractsWithinBand(t *testing.T) {
	// Contract cost 105, band [300, 1000]: min_contracts 2, max_contracts 9.
	plan, err := DerivePlan(quoteFor("1.00"), cfgWith(300, 1000, 20, 30, 1.05), "25")
	if err != nil {
		t.Fatalf("DerivePlan failed: %v", err)
	}
	if plan.Quantity != 9 {
		t.Errorf("Expected quantity 9, got %d", plan.Quantity)
	}
	if plan.Decision != types.Submit {
		t.Errorf("Expected SUBMIT, got %s", plan.Decision)
	}
}

func TestDerivePlanExactCeiling(t *testing.T) {
	// Contract cost exactly max_notional is not "too expensive".
	plan, err := DerivePlan(quoteFor("1.20"), cfgWith(100, 126, 20, 30, 1.05), "25")
	if err != nil {
		t.Fatalf("DerivePlan failed: %v", err)
	}
	if plan.Decision != types.Submit {
		t.Fatalf("Expected SUBMIT at exact ceiling, got %s (%s)", plan.Decision, plan.SkipReason)
	}
	if plan.Quantity != 1 {
		t.Errorf("Expected quantity 1, got %d", plan.Quantity)
	}
}

func TestDerivePlanInvalidQuote(t *testing.T) {
	cases := []struct {
		name  string
		quote *types.OptionQuote
	}{
		{"nil quote", nil},
		{"zero price", quoteFor("0")},
		{"negative strike", func() *types.OptionQuote {
			q := quoteFor("1.00")
			q.Strike = decimal.NewFromInt(-1)
			return q
		}()},
		{"bad month", func() *types.OptionQuote {
			q := quoteFor("1.00")
			q.Month = 13
			return q
		}()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DerivePlan(tc.quote, cfgWith(100, 120, 20, 30, 1.05), "25")
			if !errors.Is(err, types.ErrInvalidQuote) {
				t.Errorf("Expected ErrInvalidQuote, got %v", err)
			}
		})
	}
}

func TestDerivePlanIsDeterministic(t *testing.T) {
	cfg := cfgWith(300, 1000, 20, 30, 1.05)
	first, err := DerivePlan(quoteFor("1.00"), cfg, "25")
	if err != nil {
		t.Fatalf("DerivePlan failed: %v", err)
	}
	second, err := DerivePlan(quoteFor("1.00"), cfg, "25")
	if err != nil {
		t.Fatalf("DerivePlan failed: %v", err)
	}
	// Everything except the generated plan ID must match.
	if first.Quantity != second.Quantity ||
		!first.EntryLimit.Equal(second.EntryLimit) ||
		!first.StopTrigger.Equal(second.StopTrigger) ||
		!first.TakeProfit.Equal(second.TakeProfit) ||
		first.OptionSymbol != second.OptionSymbol ||
		first.Decision != second.Decision {
		t.Errorf("DerivePlan not deterministic: %+v vs %+v", first, second)
	}
}

func TestContractQuantityDeepBand(t *testing.T) {
	// Cheap contract, wide band: floor division, not rounding.
	entry := decimal.NewFromFloat(0.33)
	qty, reason := contractQuantity(entry, decimal.NewFromInt(100), decimal.NewFromInt(1000))
	// cost 33, max 1000/33 = 30.3 -> 30
	if qty != 30 {
		t.Errorf("Expected 30 contracts, got %d (%s)", qty, reason)
	}
}
