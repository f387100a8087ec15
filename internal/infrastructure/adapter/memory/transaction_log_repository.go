package memory

import (
	"context"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	"github.com/shopspring/decimal"
)

// TransactionLogRepository implements persistence.TransactionLogRepository in memory
type TransactionLogRepository struct {
	session
}

func cloneLog(l *entity.TransactionLog) *entity.TransactionLog {
	c := *l
	if l.Amount != nil {
		amount := *l.Amount
		c.Amount = &amount
	}
	if l.Reference != nil {
		ref := *l.Reference
		c.Reference = &ref
	}
	return &c
}

// Append inserts a log row and assigns its ID
func (r *TransactionLogRepository) Append(ctx context.Context, log *entity.TransactionLog) error {
	return r.mutate(ctx, func(t *tx) error {
		if log.Reference != nil {
			for _, existing := range r.store.logs {
				if existing.UserID == log.UserID && existing.Reference != nil && *existing.Reference == *log.Reference {
					return errs.ErrDuplicateKey
				}
			}
		}

		log.ID = r.store.nextID("transaction_logs")
		id := log.ID
		r.store.logs = append(r.store.logs, cloneLog(log))
		t.journal(func() {
			for i, existing := range r.store.logs {
				if existing.ID == id {
					r.store.logs = append(r.store.logs[:i], r.store.logs[i+1:]...)
					return
				}
			}
		})
		return nil
	})
}

// ListByUser returns the user's rows newest first
func (r *TransactionLogRepository) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]*entity.TransactionLog, error) {
	var logs []*entity.TransactionLog
	err := r.read(ctx, func() error {
		skipped := 0
		for i := len(r.store.logs) - 1; i >= 0; i-- {
			log := r.store.logs[i]
			if log.UserID != userID {
				continue
			}
			if skipped < offset {
				skipped++
				continue
			}
			if limit > 0 && len(logs) >= limit {
				break
			}
			logs = append(logs, cloneLog(log))
		}
		return nil
	})
	return logs, err
}

// SumAmountByUser sums the signed amounts of the user's rows
func (r *TransactionLogRepository) SumAmountByUser(ctx context.Context, userID uint64) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.read(ctx, func() error {
		for _, log := range r.store.logs {
			if log.UserID == userID && log.Amount != nil {
				sum = sum.Add(*log.Amount)
			}
		}
		return nil
	})
	return sum, err
}

// ExistsByReference reports whether the user has a row of txType with the given reference
func (r *TransactionLogRepository) ExistsByReference(ctx context.Context, userID uint64, txType entity.TransactionType, reference string) (bool, error) {
	exists := false
	err := r.read(ctx, func() error {
		for _, log := range r.store.logs {
			if log.UserID == userID && log.Type == txType && log.Reference != nil && *log.Reference == reference {
				exists = true
				return nil
			}
		}
		return nil
	})
	return exists, err
}
