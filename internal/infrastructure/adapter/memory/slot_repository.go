package memory

import (
	"context"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
)

// SlotRepository implements persistence.SlotRepository in memory
type SlotRepository struct {
	session
}

func (r *SlotRepository) list(ctx context.Context, activeOnly bool) ([]*entity.RouletteSlot, error) {
	var slots []*entity.RouletteSlot
	err := r.read(ctx, func() error {
		for _, id := range sortedKeys(r.store.slots) {
			slot := r.store.slots[id]
			if activeOnly && !slot.Active {
				continue
			}
			c := *slot
			slots = append(slots, &c)
		}
		return nil
	})
	return slots, err
}

// ListActive returns active slots ordered by ID ascending
func (r *SlotRepository) ListActive(ctx context.Context) ([]*entity.RouletteSlot, error) {
	return r.list(ctx, true)
}

// List returns every slot ordered by ID ascending
func (r *SlotRepository) List(ctx context.Context) ([]*entity.RouletteSlot, error) {
	return r.list(ctx, false)
}

// Create stores a new slot and assigns its ID
func (r *SlotRepository) Create(ctx context.Context, slot *entity.RouletteSlot) error {
	return r.mutate(ctx, func(t *tx) error {
		slot.ID = r.store.nextID("roulette_slots")
		id := slot.ID
		c := *slot
		r.store.slots[id] = &c
		t.journal(func() { delete(r.store.slots, id) })
		return nil
	})
}

// SetActive toggles a slot
func (r *SlotRepository) SetActive(ctx context.Context, id uint64, active bool) error {
	return r.mutate(ctx, func(t *tx) error {
		slot, ok := r.store.slots[id]
		if !ok {
			return errs.ErrNotFound
		}
		previous := slot.Active
		t.journal(func() { slot.Active = previous })
		slot.Active = active
		return nil
	})
}
