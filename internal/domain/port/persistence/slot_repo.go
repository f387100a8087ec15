package persistence

import (
	"context"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
)

// SlotRepository reads and writes roulette slot configuration
type SlotRepository interface {
	// ListActive returns active slots ordered by ID ascending
	ListActive(ctx context.Context) ([]*entity.RouletteSlot, error)

	// List returns every slot ordered by ID ascending
	List(ctx context.Context) ([]*entity.RouletteSlot, error)

	// Create stores a new slot and assigns its ID
	Create(ctx context.Context, slot *entity.RouletteSlot) error

	// SetActive toggles a slot
	//
	// Possible errors:
	// - ErrNotFound: If no slot has the given ID
	SetActive(ctx context.Context, id uint64, active bool) error
}
