package usecase

import (
	"context"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
)

// LedgerFunc is one unit of work for a single user. ctx carries the store
// transaction and user is the row locked for the duration of the unit.
type LedgerFunc func(ctx context.Context, user *entity.User) error

// LedgerExecutor runs per-user units of work atomically
type LedgerExecutor interface {
	// Run locks (or provisions) the user, runs fn and commits. Any error rolls
	// the whole unit back. Lost races are retried before being returned.
	Run(ctx context.Context, userID uint64, operation string, fn LedgerFunc) error
}

// SlotSelector picks one roulette slot by weight
type SlotSelector interface {
	// Select returns one of slots with probability proportional to its weight
	//
	// Possible errors:
	// - ErrNoActiveSlots: If slots is empty or the total weight is not positive
	Select(slots []*entity.RouletteSlot) (*entity.RouletteSlot, error)
}
