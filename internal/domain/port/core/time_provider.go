package core

import (
	"context"
	"time"
)

// Duration is the clock's unit for elapsed time and waits
type Duration time.Duration

// Common durations
const (
	Millisecond Duration = Duration(time.Millisecond)
	Second               = Duration(time.Second)
	Minute               = Duration(time.Minute)
	Hour                 = Duration(time.Hour)
)

// Std converts d to a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// TimeProvider is the engine's clock. Every ledger timestamp (log rows, daily
// login marks, mission claim dates) comes from Now.
type TimeProvider interface {
	// Now returns the current time in UTC
	Now() time.Time
	// Since returns the time elapsed since t
	Since(t time.Time) Duration
	// WithTimeout derives a context canceled after timeout; used for lock waits and backoff
	WithTimeout(ctx context.Context, timeout Duration) (context.Context, context.CancelFunc)
}
