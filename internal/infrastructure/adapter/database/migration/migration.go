package migration

import (
	"context"
	"errors"

	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

const (
	// CurrentSchemaVersion represents the current database schema version
	CurrentSchemaVersion = "1.1.0"
)

// statement is one named DDL step
type statement struct {
	name string
	sql  string
}

// MigrationManager manages database migrations
type MigrationManager struct {
	db               *gorm.DB
	logger           coreport.Logger
	timeProvider     coreport.TimeProvider
	advancedIndexMgr *AdvancedIndexManager
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *MigrationManager {
	return &MigrationManager{
		db:               db,
		logger:           logger,
		timeProvider:     timeProvider,
		advancedIndexMgr: NewAdvancedIndexManager(db, logger),
	}
}

// MigrateAll brings the schema to CurrentSchemaVersion. It is a no-op when
// the recorded version already matches.
func (m *MigrationManager) MigrateAll(ctx context.Context) error {
	m.logger.Info("Starting database migrations", map[string]any{
		"target_version": CurrentSchemaVersion,
	})

	db := m.db.WithContext(ctx)
	if err := db.AutoMigrate(&model.SchemaVersion{}); err != nil {
		m.logger.Error("Failed to create migration version table", map[string]any{"error": err.Error()})
		return err
	}

	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		m.logger.Error("Failed to check current schema version", map[string]any{"error": err.Error()})
		return err
	}
	if currentVersion == CurrentSchemaVersion {
		m.logger.Info("Database already at target version, skipping migration", map[string]any{
			"version": currentVersion,
		})
		return nil
	}

	steps := []struct {
		name string
		run  func(ctx context.Context) error
	}{
		{"auto_migrate", m.autoMigrateModels},
		{"versioned", func(ctx context.Context) error { return m.runVersionedMigrations(ctx, currentVersion) }},
		{"advanced_indexes", m.advancedIndexMgr.CreateAdvancedIndexes},
		{"performance_tweaks", m.advancedIndexMgr.CreatePerformanceTweaks},
	}
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			m.logger.Error("Migration step failed", map[string]any{
				"step":            step.name,
				"error":           err.Error(),
				"current_version": currentVersion,
				"target_version":  CurrentSchemaVersion,
			})
			return err
		}
	}

	if err := m.setVersion(ctx, CurrentSchemaVersion, "Reward ledger schema"); err != nil {
		m.logger.Error("Failed to update schema version", map[string]any{
			"error":   err.Error(),
			"version": CurrentSchemaVersion,
		})
		return err
	}

	m.logger.Info("Database migrations completed successfully", map[string]any{
		"version": CurrentSchemaVersion,
	})
	return nil
}

// GetCurrentVersion gets the current migration version, or "" on a fresh database
func (m *MigrationManager) GetCurrentVersion(ctx context.Context) (string, error) {
	var version model.SchemaVersion
	result := m.db.WithContext(ctx).Order("applied_at desc").First(&version)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", result.Error
	}
	return version.Version, nil
}

func (m *MigrationManager) setVersion(ctx context.Context, version string, details string) error {
	return m.db.WithContext(ctx).Create(&model.SchemaVersion{
		Version:   version,
		AppliedAt: m.timeProvider.Now(),
		Details:   details,
	}).Error
}

// autoMigrateModels creates tables, column CHECKs, unique indexes and foreign keys from the model tags
func (m *MigrationManager) autoMigrateModels(ctx context.Context) error {
	m.logger.Info("Auto-migrating database models", nil)

	return m.db.WithContext(ctx).AutoMigrate(
		&model.User{},
		&model.DepositMission{},
		&model.DailyLoginMission{},
		&model.UserMissionProgress{},
		&model.RouletteSlot{},
		&model.LetterCollection{},
		&model.LetterWord{},
		&model.TransactionLog{},
	)
}

// runVersionedMigrations runs migrations specific to version transitions
func (m *MigrationManager) runVersionedMigrations(ctx context.Context, currentVersion string) error {
	m.logger.Info("Running versioned migrations", map[string]any{
		"from": currentVersion,
		"to":   CurrentSchemaVersion,
	})

	switch currentVersion {
	case "":
		if err := m.runBaseMigrations(ctx); err != nil {
			return err
		}
		fallthrough
	case "1.0.0":
		return m.migrateFrom1_0_0To1_1_0(ctx)
	}
	return nil
}

// runBaseMigrations adds the table constraints gorm tags cannot express
func (m *MigrationManager) runBaseMigrations(ctx context.Context) error {
	m.logger.Info("Running base migrations", nil)

	constraints := []struct {
		model any
		statement
	}{
		{&model.TransactionLog{}, statement{
			name: "chk_transaction_logs_amount_type",
			sql: `ALTER TABLE transaction_logs ADD CONSTRAINT chk_transaction_logs_amount_type
				CHECK ((amount IS NOT NULL) = (type IN ('ROULETTE_WIN', 'LETTER_BONUS')))`,
		}},
		{&model.DepositMission{}, statement{
			name: "chk_deposit_missions_range",
			sql: `ALTER TABLE deposit_missions ADD CONSTRAINT chk_deposit_missions_range
				CHECK (max_amount IS NULL OR max_amount >= min_amount)`,
		}},
	}

	db := m.db.WithContext(ctx)
	for _, c := range constraints {
		if db.Migrator().HasConstraint(c.model, c.name) {
			continue
		}
		if err := db.Exec(c.sql).Error; err != nil {
			m.logger.Error("Failed to add constraint", map[string]any{"constraint": c.name, "error": err.Error()})
			return err
		}
	}
	return nil
}

// migrateFrom1_0_0To1_1_0 adds the per-type log index used by the reference lookup
func (m *MigrationManager) migrateFrom1_0_0To1_1_0(ctx context.Context) error {
	m.logger.Info("Migrating from v1.0.0 to v1.1.0", nil)

	return m.db.WithContext(ctx).Exec(`
		CREATE INDEX IF NOT EXISTS idx_transaction_logs_user_type_reference
		ON transaction_logs (user_id, type, reference)
		WHERE reference IS NOT NULL
	`).Error
}
