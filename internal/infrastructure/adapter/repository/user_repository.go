package repository

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository implements persistence.UserRepository using GORM.
// Counter mutations are single UPDATE statements guarded by a WHERE clause,
// so the database rejects a change whose precondition no longer holds.
type UserRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func userToEntity(m *model.User) *entity.User {
	return &entity.User{
		ID:                    m.ID,
		CashBalance:           m.CashBalance,
		AvailableSpins:        m.AvailableSpins,
		FirstDepositBonusUsed: m.FirstDepositBonusUsed,
		LastDailyLogin:        m.LastDailyLogin,
		LastDailyMissionClaim: m.LastDailyMissionClaim,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

// handleDatabaseError standardizes database error handling
func (r *UserRepository) handleDatabaseError(operation string, err error, userID uint64) error {
	mapped := r.errorClassifier.Map(err, userID, operation)
	if errs.IsConcurrentUpdateError(mapped) {
		r.logger.Warn("User row is locked by another transaction", map[string]any{
			"user_id":   userID,
			"operation": operation,
			"error":     err.Error(),
		})
		return mapped
	}

	r.logger.Error("Database error on users", map[string]any{
		"user_id":   userID,
		"operation": operation,
		"error":     err.Error(),
	})
	return mapped
}

// provision inserts a zero-balance row unless one already exists
func (r *UserRepository) provision(ctx context.Context, userID uint64) error {
	user, err := entity.NewUser(userID, r.timeProvider)
	if err != nil {
		return err
	}

	row := model.User{
		ID:          user.ID,
		CashBalance: user.CashBalance,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&row)
	if result.Error != nil {
		return r.handleDatabaseError("provision_user", result.Error, userID)
	}
	if result.RowsAffected > 0 {
		r.logger.Debug("Provisioned user", map[string]any{"user_id": userID})
	}
	return nil
}

func (r *UserRepository) load(ctx context.Context, userID uint64, lock bool, operation string) (*entity.User, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	if err := r.provision(ctx, userID); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var row model.User
	if err := query.First(&row, userID).Error; err != nil {
		return nil, r.handleDatabaseError(operation, err, userID)
	}
	return userToEntity(&row), nil
}

// LockForUpdate loads the user row with SELECT ... FOR UPDATE
func (r *UserRepository) LockForUpdate(ctx context.Context, userID uint64) (*entity.User, error) {
	return r.load(ctx, userID, true, "lock_user")
}

// GetOrCreate loads the user without locking, provisioning it when absent
func (r *UserRepository) GetOrCreate(ctx context.Context, userID uint64) (*entity.User, error) {
	return r.load(ctx, userID, false, "get_user")
}

// conditionalUpdate runs UPDATE users SET updates WHERE id = ? AND predicate
func (r *UserRepository) conditionalUpdate(ctx context.Context, userID uint64, operation string, updates map[string]any, predicate string, args ...any) (bool, error) {
	updates["updated_at"] = r.timeProvider.Now()

	query := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID)
	if predicate != "" {
		query = query.Where(predicate, args...)
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return false, r.handleDatabaseError(operation, result.Error, userID)
	}
	return result.RowsAffected == 1, nil
}

// ConsumeSpin decrements available spins by one if at least one is available
func (r *UserRepository) ConsumeSpin(ctx context.Context, userID uint64) (bool, error) {
	return r.conditionalUpdate(ctx, userID, "consume_spin",
		map[string]any{"available_spins": gorm.Expr("available_spins - 1")},
		"available_spins >= ?", 1)
}

// AddSpins credits spins unconditionally
func (r *UserRepository) AddSpins(ctx context.Context, userID uint64, spins int64) error {
	if spins <= 0 {
		return errs.ErrInvalidRequest
	}
	ok, err := r.conditionalUpdate(ctx, userID, "add_spins",
		map[string]any{"available_spins": gorm.Expr("available_spins + ?", spins)}, "")
	if err != nil {
		return err
	}
	if !ok {
		return errs.ErrNotFound
	}
	return nil
}

// CreditCash adds a positive amount to the cash balance
func (r *UserRepository) CreditCash(ctx context.Context, userID uint64, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.ErrInvalidAmount
	}
	ok, err := r.conditionalUpdate(ctx, userID, "credit_cash",
		map[string]any{"cash_balance": gorm.Expr("cash_balance + ?", amount)}, "")
	if err != nil {
		return err
	}
	if !ok {
		return errs.ErrNotFound
	}
	return nil
}

// ClaimFirstDepositBonus sets the first-deposit flag and credits spins if the flag is still unset
func (r *UserRepository) ClaimFirstDepositBonus(ctx context.Context, userID uint64, spins int64) (bool, error) {
	return r.conditionalUpdate(ctx, userID, "claim_first_deposit",
		map[string]any{
			"first_deposit_bonus_used": true,
			"available_spins":          gorm.Expr("available_spins + ?", spins),
		},
		"first_deposit_bonus_used = ?", false)
}

// ClaimDailyLogin credits spins and stamps the login if the previous login is absent or not after notAfter
func (r *UserRepository) ClaimDailyLogin(ctx context.Context, userID uint64, spins int64, now, notAfter time.Time) (bool, error) {
	return r.conditionalUpdate(ctx, userID, "claim_daily_login",
		map[string]any{
			"available_spins":          gorm.Expr("available_spins + ?", spins),
			"last_daily_login":         now,
			"last_daily_mission_claim": now,
		},
		"(last_daily_login IS NULL OR last_daily_login <= ?)", notAfter)
}
