package time

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
)

// StorePrecision is the timestamp resolution of the Postgres store
const StorePrecision = time.Microsecond

// RealTimeProvider reads the wall clock. Now is reported in UTC at store
// precision so a timestamp read back from the database compares equal to the
// value that was written.
type RealTimeProvider struct {
	precision time.Duration
}

// NewRealTimeProvider creates a wall clock provider at store precision
func NewRealTimeProvider() core.TimeProvider {
	return &RealTimeProvider{precision: StorePrecision}
}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC().Truncate(p.precision)
}

func (p *RealTimeProvider) Since(t time.Time) core.Duration {
	return core.Duration(time.Since(t))
}

// WithTimeout derives a context canceled after timeout of wall-clock time
func (p *RealTimeProvider) WithTimeout(ctx context.Context, timeout core.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout.Std())
}
