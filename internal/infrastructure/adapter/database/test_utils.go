//go:build integration

package database

import (
	"context"
	"os/exec"
	"testing"
	"time"

	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDBManager runs a Manager against a disposable Postgres container
type TestDBManager struct {
	Manager      *Manager
	Config       *Config
	Logger       coreport.Logger
	TimeProvider coreport.TimeProvider

	container *postgres.PostgresContainer
}

func dockerAvailable() bool {
	return exec.Command("docker", "info").Run() == nil
}

// NewTestDBManager starts a container, connects and migrates. The test is
// skipped when Docker is unavailable; cleanup is registered on t.
func NewTestDBManager(t *testing.T, logger coreport.Logger, timeProvider coreport.TimeProvider) *TestDBManager {
	t.Helper()
	if !dockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("spin_rewards_test"),
		postgres.WithUsername("rewards"),
		postgres.WithPassword("rewards"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	config := DefaultConfig().WithLockTimeout(2 * time.Second)
	config.Host = host
	config.Port = port.Int()
	config.Username = "rewards"
	config.Password = "rewards"
	config.Database = "spin_rewards_test"
	config.SSLMode = "disable"
	config.MaxOpenConns = 20
	config.MaxIdleConns = 10
	config.LogLevel = "silent"
	config.RetryAttempts = 3
	config.MonitorInterval = 0

	manager := NewManager(config, logger, timeProvider, nil)
	_, err = manager.Connect(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })

	require.NoError(t, manager.Migrate(ctx))

	return &TestDBManager{
		Manager:      manager,
		Config:       config,
		Logger:       logger,
		TimeProvider: timeProvider,
		container:    container,
	}
}

// TruncateAllTables empties every reward table between tests
func (m *TestDBManager) TruncateAllTables(t *testing.T) {
	t.Helper()

	err := m.Manager.DB().Exec(`
		TRUNCATE TABLE transaction_logs, letter_collections, letter_words,
			user_mission_progress, deposit_missions, daily_login_missions,
			roulette_slots, users
		RESTART IDENTITY CASCADE
	`).Error
	require.NoError(t, err)
}
