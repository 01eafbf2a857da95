package interfaces

import (
	"context"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/types"
)

type Engine interface {
	HandleMessage(ctx context.Context, text string) (*types.AlertResult, error)
}
