package interfaces

import (
	"context"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/types"
)

// Extractor turns raw chat text into a structured option quote.
// A nil quote with a nil error means the message carried no alert.
type Extractor interface {
	Extract(ctx context.Context, text string) (*types.OptionQuote, error)
}
