package time

import (
	"context"
	"testing"
	"time"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/stretchr/testify/assert"
)

func TestManualTimeProvider(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := NewManualTimeProvider(start)

	assert.Equal(t, start, clock.Now())

	clock.Advance(24 * time.Hour)
	assert.Equal(t, start.Add(24*time.Hour), clock.Now())
	assert.Equal(t, core.Duration(24*time.Hour), clock.Since(start))

	later := start.Add(72 * time.Hour)
	clock.Set(later)
	assert.Equal(t, later, clock.Now())
	assert.Equal(t, core.Duration(48*time.Hour), clock.Since(start.Add(24*time.Hour)))
}

func TestRealTimeProvider_WithTimeout(t *testing.T) {
	provider := NewRealTimeProvider()

	ctx, cancel := provider.WithTimeout(context.Background(), core.Millisecond)
	defer cancel()

	select {
	case <-ctx.Done():
		assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("context did not expire")
	}
}

func TestRealTimeProvider_NowIsUTCAtStorePrecision(t *testing.T) {
	now := NewRealTimeProvider().Now()

	assert.Equal(t, time.UTC, now.Location())
	assert.Zero(t, now.Nanosecond()%int(StorePrecision))
}
