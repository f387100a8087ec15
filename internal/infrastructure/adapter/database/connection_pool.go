package database

import (
	"context"
	"database/sql"
	"sync"
	"time"

	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
)

// PoolObserver receives connection pool statistics
type PoolObserver interface {
	ObservePool(stats sql.DBStats)
}

// StatsSource is the part of *sql.DB the monitor reads
type StatsSource interface {
	Stats() sql.DBStats
}

// ConnectionPoolMonitor periodically samples the connection pool, publishes
// the sample to an observer and warns when the pool is nearly exhausted
type ConnectionPoolMonitor struct {
	source   StatsSource
	observer PoolObserver
	logger   coreport.Logger

	mu      sync.RWMutex
	last    sql.DBStats
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewConnectionPoolMonitor creates a new connection pool monitor
func NewConnectionPoolMonitor(source StatsSource, observer PoolObserver, logger coreport.Logger) *ConnectionPoolMonitor {
	return &ConnectionPoolMonitor{
		source:   source,
		observer: observer,
		logger:   logger,
	}
}

// Start samples once and then every interval until Stop
func (m *ConnectionPoolMonitor) Start(interval time.Duration) {
	m.collect()
	if interval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.stopped = make(chan struct{})

	go func() {
		defer close(m.stopped)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.collect()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the monitoring goroutine and waits for it to exit
func (m *ConnectionPoolMonitor) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.stopped
	m.cancel = nil
}

// Last returns the most recent sample
func (m *ConnectionPoolMonitor) Last() sql.DBStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

func (m *ConnectionPoolMonitor) collect() {
	stats := m.source.Stats()

	m.mu.Lock()
	m.last = stats
	m.mu.Unlock()

	if m.observer != nil {
		m.observer.ObservePool(stats)
	}

	if stats.MaxOpenConnections > 0 && float64(stats.InUse) > float64(stats.MaxOpenConnections)*0.8 {
		m.logger.Warn("Database connection pool nearly exhausted", map[string]any{
			"in_use":     stats.InUse,
			"max_open":   stats.MaxOpenConnections,
			"idle":       stats.Idle,
			"wait_count": stats.WaitCount,
			"wait_time":  stats.WaitDuration.String(),
		})
	}
}
