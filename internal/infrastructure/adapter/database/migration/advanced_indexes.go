package migration

import (
	"context"

	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"gorm.io/gorm"
)

// AdvancedIndexManager manages PostgreSQL-specific indexes and storage settings
type AdvancedIndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAdvancedIndexManager creates a new advanced index manager
func NewAdvancedIndexManager(db *gorm.DB, logger coreport.Logger) *AdvancedIndexManager {
	return &AdvancedIndexManager{
		db:     db,
		logger: logger,
	}
}

var advancedIndexes = []statement{
	{
		name: "idx_transaction_logs_user_id_desc",
		sql: `CREATE INDEX IF NOT EXISTS idx_transaction_logs_user_id_desc
			ON transaction_logs (user_id, id DESC)`,
	},
	{
		name: "idx_transaction_logs_cash",
		sql: `CREATE INDEX IF NOT EXISTS idx_transaction_logs_cash
			ON transaction_logs (user_id) INCLUDE (amount)
			WHERE amount IS NOT NULL`,
	},
	{
		name: "idx_transaction_logs_created_at_brin",
		sql: `CREATE INDEX IF NOT EXISTS idx_transaction_logs_created_at_brin
			ON transaction_logs USING BRIN (created_at)
			WITH (pages_per_range = 32)`,
	},
	{
		name: "idx_deposit_missions_active_range",
		sql: `CREATE INDEX IF NOT EXISTS idx_deposit_missions_active_range
			ON deposit_missions (min_amount, max_amount)
			WHERE active`,
	},
	{
		name: "idx_roulette_slots_active",
		sql: `CREATE INDEX IF NOT EXISTS idx_roulette_slots_active
			ON roulette_slots (id)
			WHERE active`,
	},
}

// CreateAdvancedIndexes creates the partial, covering and BRIN indexes the read paths use
func (m *AdvancedIndexManager) CreateAdvancedIndexes(ctx context.Context) error {
	m.logger.Info("Creating advanced PostgreSQL indexes", nil)

	db := m.db.WithContext(ctx)
	for _, idx := range advancedIndexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": idx.name,
				"error": err.Error(),
			})
			return err
		}
	}

	m.logger.Info("Advanced PostgreSQL indexes created successfully", map[string]any{
		"count": len(advancedIndexes),
	})
	return nil
}

// Counter rows are updated in place on every spin; headroom keeps those updates HOT.
var performanceTweaks = []statement{
	{name: "users_fillfactor", sql: `ALTER TABLE users SET (fillfactor = 80)`},
	{name: "letter_collections_fillfactor", sql: `ALTER TABLE letter_collections SET (fillfactor = 80)`},
	{name: "user_mission_progress_fillfactor", sql: `ALTER TABLE user_mission_progress SET (fillfactor = 85)`},
	{name: "transaction_logs_user_id_statistics", sql: `ALTER TABLE transaction_logs ALTER COLUMN user_id SET STATISTICS 1000`},
}

// CreatePerformanceTweaks applies PostgreSQL storage settings. Failures are logged, not returned.
func (m *AdvancedIndexManager) CreatePerformanceTweaks(ctx context.Context) error {
	m.logger.Info("Applying PostgreSQL performance tweaks", nil)

	db := m.db.WithContext(ctx)
	for _, tweak := range performanceTweaks {
		if err := db.Exec(tweak.sql).Error; err != nil {
			m.logger.Warn("Failed to apply performance tweak", map[string]any{
				"tweak": tweak.name,
				"error": err.Error(),
			})
		}
	}
	return nil
}
