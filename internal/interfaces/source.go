package interfaces

import "context"

// Source delivers raw chat messages one at a time. Run blocks until the
// context is cancelled or the underlying connection is gone.
type Source interface {
	Run(ctx context.Context, handle func(ctx context.Context, text string)) error
	Stop(ctx context.Context)
}
