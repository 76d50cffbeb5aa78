package tx

import "context"

// Manager wraps the boundary of a multi-step storage operation, such as the
// read-prepend-write cycle on the history log.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
