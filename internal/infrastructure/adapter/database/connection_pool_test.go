package database

import (
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/logger"
	mockcore "github.com/amirhossein-jamali/spin-rewards/mocks/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type fixedStats struct{ stats sql.DBStats }

func (f fixedStats) Stats() sql.DBStats { return f.stats }

type recordingObserver struct {
	mu      sync.Mutex
	samples []sql.DBStats
}

func (r *recordingObserver) ObservePool(stats sql.DBStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, stats)
}

func (r *recordingObserver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

func TestConnectionPoolMonitor_PublishesSamples(t *testing.T) {
	stats := sql.DBStats{MaxOpenConnections: 10, OpenConnections: 4, InUse: 2, Idle: 2}
	observer := &recordingObserver{}

	monitor := NewConnectionPoolMonitor(fixedStats{stats}, observer, logger.NewNoopLogger())
	monitor.Start(5 * time.Millisecond)
	defer monitor.Stop()

	assert.Eventually(t, func() bool { return observer.count() >= 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, stats, monitor.Last())
}

func TestConnectionPoolMonitor_WarnsNearExhaustion(t *testing.T) {
	coreLogger := mockcore.NewMockLogger(t)
	coreLogger.On("Warn", "Database connection pool nearly exhausted", mock.Anything).Once()

	stats := sql.DBStats{MaxOpenConnections: 10, InUse: 9}
	monitor := NewConnectionPoolMonitor(fixedStats{stats}, nil, coreLogger)
	monitor.Start(0)
	monitor.Stop()
}
