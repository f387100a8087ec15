package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// UserRepository defines the reward account operations of the Ledger Store.
// Every counter mutation is a single conditional update: the bool result
// reports whether the predicate held and the row changed.
type UserRepository interface {
	// LockForUpdate loads the user row under an exclusive lock held until the
	// surrounding unit of work ends. A zero-balance row is provisioned first
	// when the user has never been referenced.
	//
	// Possible errors:
	// - ErrInvalidUserID: If userID is zero
	// - ErrConcurrentUpdate: If the lock could not be taken in time
	// - ErrDatabaseConnection: If database connection fails
	LockForUpdate(ctx context.Context, userID uint64) (*entity.User, error)

	// GetOrCreate loads the user without locking, provisioning it when absent
	GetOrCreate(ctx context.Context, userID uint64) (*entity.User, error)

	// ConsumeSpin decrements available spins by one if at least one is available
	ConsumeSpin(ctx context.Context, userID uint64) (bool, error)

	// AddSpins credits spins unconditionally
	AddSpins(ctx context.Context, userID uint64, spins int64) error

	// CreditCash adds a positive amount to the cash balance
	CreditCash(ctx context.Context, userID uint64, amount decimal.Decimal) error

	// ClaimFirstDepositBonus sets the first-deposit flag and credits spins if the flag is still unset
	ClaimFirstDepositBonus(ctx context.Context, userID uint64, spins int64) (bool, error)

	// ClaimDailyLogin credits spins and stamps the login time if the previous
	// login is absent or not after notAfter
	ClaimDailyLogin(ctx context.Context, userID uint64, spins int64, now, notAfter time.Time) (bool, error)
}
