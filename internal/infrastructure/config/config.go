package config

import (
	"time"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/usecase"
)

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment" validate:"oneof=development production test"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Logger      LoggerConfig   `mapstructure:"logger"`
	Ledger      LedgerConfig   `mapstructure:"ledger"`
	Rewards     RewardsConfig  `mapstructure:"rewards"`
	Metrics     MetricsConfig  `mapstructure:"metrics"`
	Seed        SeedConfig     `mapstructure:"seed"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout" validate:"gt=0"`     // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout" validate:"gt=0"`    // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`                     // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"`               // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout" validate:"gt=0"` // seconds
}

// DatabaseConfig contains database connection settings.
// Connection fields are only required by the postgres driver.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" validate:"oneof=postgres memory"`
	Host            string        `mapstructure:"host" validate:"required_if=Driver postgres"`
	Port            int           `mapstructure:"port" validate:"required_if=Driver postgres,omitempty,min=1,max=65535"`
	Username        string        `mapstructure:"username" validate:"required_if=Driver postgres"`
	Password        string        `mapstructure:"password" validate:"required_if=Driver postgres"`
	Database        string        `mapstructure:"database" validate:"required_if=Driver postgres"`
	SSLMode         string        `mapstructure:"sslMode" validate:"omitempty,oneof=disable require verify-ca verify-full prefer"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns" validate:"gte=0"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	RetryAttempts   int           `mapstructure:"retryAttempts" validate:"gte=0"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"`      // seconds
	MonitorInterval time.Duration `mapstructure:"monitorInterval"` // seconds
	SlowQuery       time.Duration `mapstructure:"slowQueryMs"`     // milliseconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
	Output string `mapstructure:"output"`
}

// LedgerConfig controls per-user units of work
type LedgerConfig struct {
	MaxRetries         int   `mapstructure:"maxRetries" validate:"gte=0"`
	RetryIntervalMs    int64 `mapstructure:"retryIntervalMs" validate:"gt=0"`
	MaxRetryIntervalMs int64 `mapstructure:"maxRetryIntervalMs" validate:"gtefield=RetryIntervalMs"`
	LockTimeoutMs      int64 `mapstructure:"lockTimeoutMs" validate:"gt=0"`
}

// RetryInterval returns the first retry backoff
func (c LedgerConfig) RetryInterval() time.Duration {
	return time.Duration(c.RetryIntervalMs) * time.Millisecond
}

// MaxRetryInterval returns the backoff cap
func (c LedgerConfig) MaxRetryInterval() time.Duration {
	return time.Duration(c.MaxRetryIntervalMs) * time.Millisecond
}

// LockTimeout returns how long a unit waits for a user's row lock
func (c LedgerConfig) LockTimeout() time.Duration {
	return time.Duration(c.LockTimeoutMs) * time.Millisecond
}

// RewardsConfig holds reward rules that are not catalog rows
type RewardsConfig struct {
	FirstDepositSpins int64         `mapstructure:"firstDepositSpins" validate:"gte=0"`
	DailyLoginWindow  time.Duration `mapstructure:"dailyLoginWindow" validate:"gt=0"` // Go duration string, e.g. "24h"
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// SeedConfig is the default catalog written on an empty store
type SeedConfig struct {
	Enabled            bool                             `mapstructure:"enabled"`
	DepositMissions    []usecase.DepositMissionInput    `mapstructure:"depositMissions"`
	DailyLoginMissions []usecase.DailyLoginMissionInput `mapstructure:"dailyLoginMissions"`
	Slots              []usecase.SlotInput              `mapstructure:"slots"`
	Words              []usecase.WordInput              `mapstructure:"words"`
}

// CatalogSeed converts the seed section to the catalog use case input
func (s SeedConfig) CatalogSeed() usecase.CatalogSeed {
	return usecase.CatalogSeed{
		DepositMissions:    s.DepositMissions,
		DailyLoginMissions: s.DailyLoginMissions,
		Slots:              s.Slots,
		Words:              s.Words,
	}
}
