package mcp342x

import (
	"context"
	"time"
)

// Delayer suspends the caller for the given duration. It must return early with
// ctx.Err() when the context ends.
type Delayer interface {
	Delay(ctx context.Context, d time.Duration) error
}

// DelayFunc adapts a plain function to the Delayer interface.
type DelayFunc func(ctx context.Context, d time.Duration) error

func (f DelayFunc) Delay(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// TimerDelay waits on a runtime timer.
type TimerDelay struct{}

func (TimerDelay) Delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
