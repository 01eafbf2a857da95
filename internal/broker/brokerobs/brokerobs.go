package brokerobs

import (
	"context"
	"time"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/interfaces"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/logger"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/trace"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/types"
)

// observableBroker wraps a Broker with observability (logging & tracing)
type observableBroker struct {
	broker interfaces.Broker
}

var _ interfaces.Broker = (*observableBroker)(nil)

// Wrap wraps a broker with observability middleware
func Wrap(broker interfaces.Broker) interfaces.Broker {
	return &observableBroker{
		broker: broker,
	}
}

func (ob *observableBroker) SubmitBracket(ctx context.Context, plan types.OrderPlan) (types.SubmitResult, error) {
	ctx, span := trace.StartSpan(ctx, "broker.SubmitBracket")
	defer span.End()

	start := time.Now()

	logger.DebugSkip(ctx, 1, "Submitting bracket order",
		"option_symbol", plan.OptionSymbol,
		"quantity", plan.Quantity,
	)

	result, err := ob.broker.SubmitBracket(ctx, plan)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Bracket submission failed", err,
			"option_symbol", plan.OptionSymbol,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return types.SubmitResult{}, err
	}

	logger.InfoSkip(ctx, 1, "Bracket submission answered",
		"option_symbol", plan.OptionSymbol,
		"status", result.StatusCode,
		"order_id", result.OrderID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}
