package clock

import (
	"context"
	"time"
)

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// Sleeper blocks until an absolute instant or until ctx is done.
type Sleeper interface {
	SleepUntil(ctx context.Context, deadline time.Time) error
}

// SystemClock reports local wall time. Session dates are local calendar
// dates, so no UTC conversion happens here.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) SleepUntil(ctx context.Context, deadline time.Time) error {
	wait := time.Until(deadline)
	if wait <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
