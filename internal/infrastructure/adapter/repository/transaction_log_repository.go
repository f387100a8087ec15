package repository

import (
	"context"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionLogRepository implements persistence.TransactionLogRepository using GORM.
// It only ever inserts; rows are never updated or deleted.
type TransactionLogRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionLogRepository creates a new TransactionLogRepository instance
func NewTransactionLogRepository(db *gorm.DB, logger coreport.Logger) *TransactionLogRepository {
	return &TransactionLogRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func logToEntity(m *model.TransactionLog) *entity.TransactionLog {
	log := &entity.TransactionLog{
		ID:          m.ID,
		UserID:      m.UserID,
		Type:        entity.TransactionType(m.Type),
		SpinsDelta:  m.SpinsDelta,
		Description: m.Description,
		Reference:   m.Reference,
		CreatedAt:   m.CreatedAt,
	}
	if m.Amount.Valid {
		amount := m.Amount.Decimal
		log.Amount = &amount
	}
	return log
}

// Append inserts a log row and assigns its ID
func (r *TransactionLogRepository) Append(ctx context.Context, log *entity.TransactionLog) error {
	row := model.TransactionLog{
		UserID:      log.UserID,
		Type:        string(log.Type),
		SpinsDelta:  log.SpinsDelta,
		Description: log.Description,
		Reference:   log.Reference,
		CreatedAt:   log.CreatedAt,
	}
	if log.Amount != nil {
		row.Amount = decimal.NewNullDecimal(*log.Amount)
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		mapped := r.errorClassifier.Map(err, log.UserID, "append_log")
		if r.errorClassifier.Classify(err) == DuplicateKeyError {
			r.logger.Warn("Duplicate log reference", map[string]any{
				"user_id": log.UserID,
				"type":    log.Type,
			})
			return mapped
		}
		r.logger.Error("Failed to append transaction log", map[string]any{
			"user_id": log.UserID,
			"type":    log.Type,
			"error":   err.Error(),
		})
		return mapped
	}

	log.ID = row.ID
	return nil
}

// ListByUser returns the user's rows newest first
func (r *TransactionLogRepository) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]*entity.TransactionLog, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []model.TransactionLog
	if err := query.Find(&rows).Error; err != nil {
		return nil, r.errorClassifier.Map(err, userID, "list_logs")
	}

	logs := make([]*entity.TransactionLog, 0, len(rows))
	for i := range rows {
		logs = append(logs, logToEntity(&rows[i]))
	}
	return logs, nil
}

// SumAmountByUser sums the signed amounts of the user's rows
func (r *TransactionLogRepository) SumAmountByUser(ctx context.Context, userID uint64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&model.TransactionLog{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userID).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, r.errorClassifier.Map(err, userID, "sum_logs")
	}
	return sum, nil
}

// ExistsByReference reports whether the user has a row of txType with the given reference
func (r *TransactionLogRepository) ExistsByReference(ctx context.Context, userID uint64, txType entity.TransactionType, reference string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TransactionLog{}).
		Where("user_id = ? AND type = ? AND reference = ?", userID, string(txType), reference).
		Count(&count).Error
	if err != nil {
		return false, r.errorClassifier.Map(err, userID, "exists_by_reference")
	}
	return count > 0, nil
}
