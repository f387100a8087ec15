package persistence

import (
	"context"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// TransactionLogRepository appends and reads the audit log
type TransactionLogRepository interface {
	// Append inserts a log row and assigns its ID. Rows are never updated.
	//
	// Possible errors:
	// - ErrDuplicateKey: If the row's reference is already used
	// - ErrDatabaseConnection: If database connection fails
	Append(ctx context.Context, log *entity.TransactionLog) error

	// ListByUser returns the user's rows newest first
	ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]*entity.TransactionLog, error)

	// SumAmountByUser sums the signed amounts of the user's rows
	SumAmountByUser(ctx context.Context, userID uint64) (decimal.Decimal, error)

	// ExistsByReference reports whether the user has a row of txType with the given reference
	ExistsByReference(ctx context.Context, userID uint64, txType entity.TransactionType, reference string) (bool, error)
}
