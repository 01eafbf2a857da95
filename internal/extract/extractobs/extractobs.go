package extractobs

import (
	"context"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/interfaces"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/logger"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/trace"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/types"
)

// observableExtractor wraps an Extractor with observability (logging & tracing)
type observableExtractor struct {
	extractor interfaces.Extractor
}

var _ interfaces.Extractor = (*observableExtractor)(nil)

// Wrap wraps an extractor with observability middleware
func Wrap(extractor interfaces.Extractor) interfaces.Extractor {
	return &observableExtractor{
		extractor: extractor,
	}
}

func (oe *observableExtractor) Extract(ctx context.Context, text string) (*types.OptionQuote, error) {
	ctx, span := trace.StartSpan(ctx, "extract.Extract")
	defer span.End()

	quote, err := oe.extractor.Extract(ctx, text)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Quote extraction failed", err)
		return nil, err
	}

	if quote == nil {
		logger.DebugSkip(ctx, 1, "No quote in message")
		return nil, nil
	}

	logger.InfoSkip(ctx, 1, "Quote extracted",
		"underlying", quote.Underlying,
		"strike", quote.Strike.String(),
		"kind", quote.Kind,
		"month", quote.Month,
		"day", quote.Day,
		"price", quote.Price.String(),
	)

	return quote, nil
}
