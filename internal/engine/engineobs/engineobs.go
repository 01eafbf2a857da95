package engineobs

import (
	"context"
	"time"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/interfaces"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/logger"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/trace"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/types"
)

type observableEngine struct {
	engine interfaces.Engine
}

var _ interfaces.Engine = (*observableEngine)(nil)

func Wrap(eng interfaces.Engine) interfaces.Engine {
	return &observableEngine{
		engine: eng,
	}
}

func (oe *observableEngine) HandleMessage(ctx context.Context, text string) (*types.AlertResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.HandleMessage")
	defer span.End()

	start := time.Now()

	result, err := oe.engine.HandleMessage(ctx, text)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Alert handling failed", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	fields := []any{
		"submitted", result.Submitted,
		"reason", result.Reason,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if result.Plan != nil {
		fields = append(fields,
			"underlying", result.Plan.Underlying,
			"decision", result.Plan.Decision,
			"quantity", result.Plan.Quantity,
		)
	}
	logger.InfoSkip(ctx, 1, "Alert handled", fields...)

	return result, nil
}
