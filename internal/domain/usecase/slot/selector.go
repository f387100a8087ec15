package slot

import (
	"fmt"
	"sort"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/usecase"
)

// Selector picks roulette slots by cumulative-weight inversion
type Selector struct {
	rng coreport.RandomSource
}

// NewSelector creates a selector drawing from rng
func NewSelector(rng coreport.RandomSource) usecase.SlotSelector {
	return &Selector{rng: rng}
}

// Select draws r in [0, total weight) and returns the first slot, in ID order,
// whose cumulative weight exceeds r. Inactive and non-positive weight slots never win.
func (s *Selector) Select(slots []*entity.RouletteSlot) (*entity.RouletteSlot, error) {
	candidates := make([]*entity.RouletteSlot, 0, len(slots))
	var total int64
	for _, slot := range slots {
		if slot == nil || !slot.Active || slot.Weight <= 0 {
			continue
		}
		if total > 0 && slot.Weight > (1<<63-1)-total {
			return nil, fmt.Errorf("%w: total weight overflows", errs.ErrInvalidSlot)
		}
		total += slot.Weight
		candidates = append(candidates, slot)
	}

	if len(candidates) == 0 || total <= 0 {
		return nil, errs.ErrNoActiveSlots
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ID < candidates[j].ID
	})

	r := s.rng.Int63n(total)
	var cumulative int64
	for _, slot := range candidates {
		cumulative += slot.Weight
		if cumulative > r {
			return slot, nil
		}
	}

	// unreachable while r < total
	return candidates[len(candidates)-1], nil
}
