package interfaces

import (
	"context"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/types"
)

// Broker submits a bracket order (entry + take-profit + stop-loss) as a
// single linked order at the brokerage.
type Broker interface {
	SubmitBracket(ctx context.Context, plan types.OrderPlan) (types.SubmitResult, error)
}
