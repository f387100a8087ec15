package slot

import (
	"math/rand"
	"testing"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// fixedDraw returns the same draw for every call
type fixedDraw struct {
	value int64
	lastN int64
}

func (f *fixedDraw) Int63n(n int64) int64 {
	f.lastN = n
	return f.value
}

func cashSlot(id uint64, value string, weight int64) *entity.RouletteSlot {
	return &entity.RouletteSlot{ID: id, Type: entity.SlotCash, Value: value, Weight: weight, Active: true}
}

func letterSlot(id uint64, letter string, weight int64) *entity.RouletteSlot {
	return &entity.RouletteSlot{ID: id, Type: entity.SlotLetter, Value: letter, Weight: weight, Active: true}
}

func TestSelector_Select(t *testing.T) {
	slots := []*entity.RouletteSlot{
		letterSlot(3, "A", 5),
		cashSlot(1, "10.00", 2),
		cashSlot(2, "1.00", 3),
	}

	t.Run("Draws over the total weight", func(t *testing.T) {
		draw := &fixedDraw{value: 0}
		_, err := NewSelector(draw).Select(slots)

		require.NoError(t, err)
		assert.Equal(t, int64(10), draw.lastN)
	})

	t.Run("Walks slots in ID order", func(t *testing.T) {
		testCases := []struct {
			draw     int64
			expected uint64
		}{
			{0, 1},
			{1, 1},
			{2, 2},
			{4, 2},
			{5, 3},
			{9, 3},
		}

		for _, tc := range testCases {
			selected, err := NewSelector(&fixedDraw{value: tc.draw}).Select(slots)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, selected.ID, "draw %d", tc.draw)
		}
	})

	t.Run("Skips inactive and zero weight slots", func(t *testing.T) {
		inactive := cashSlot(1, "100.00", 50)
		inactive.Active = false
		input := []*entity.RouletteSlot{inactive, cashSlot(2, "1.00", 0), letterSlot(3, "Z", 1)}

		selected, err := NewSelector(&fixedDraw{value: 0}).Select(input)

		require.NoError(t, err)
		assert.Equal(t, uint64(3), selected.ID)
	})

	t.Run("Empty set fails", func(t *testing.T) {
		_, err := NewSelector(&fixedDraw{}).Select(nil)
		assert.ErrorIs(t, err, errs.ErrNoActiveSlots)
	})

	t.Run("Zero total weight fails", func(t *testing.T) {
		_, err := NewSelector(&fixedDraw{}).Select([]*entity.RouletteSlot{cashSlot(1, "1.00", 0)})
		assert.ErrorIs(t, err, errs.ErrNoActiveSlots)
	})

	t.Run("Same seed reproduces the same sequence", func(t *testing.T) {
		first := NewSelector(rand.New(rand.NewSource(7)))
		second := NewSelector(rand.New(rand.NewSource(7)))

		for i := 0; i < 100; i++ {
			a, err := first.Select(slots)
			require.NoError(t, err)
			b, err := second.Select(slots)
			require.NoError(t, err)
			assert.Equal(t, a.ID, b.ID)
		}
	})
}

func TestSelector_ConvergesToWeights(t *testing.T) {
	slots := []*entity.RouletteSlot{
		cashSlot(1, "10.00", 1),
		cashSlot(2, "1.00", 3),
		letterSlot(3, "H", 6),
	}
	selector := NewSelector(rand.New(rand.NewSource(42)))

	const samples = 100000
	counts := map[uint64]int{}
	for i := 0; i < samples; i++ {
		selected, err := selector.Select(slots)
		require.NoError(t, err)
		counts[selected.ID]++
	}

	expected := map[uint64]float64{1: 0.1, 2: 0.3, 3: 0.6}
	for id, share := range expected {
		observed := float64(counts[id]) / samples
		assert.InDelta(t, share, observed, 0.01, "slot %d", id)
	}
}

func TestSelector_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(t, "slots")
		slots := make([]*entity.RouletteSlot, 0, n)
		var total int64
		for i := 0; i < n; i++ {
			weight := rapid.Int64Range(0, 1000).Draw(t, "weight")
			total += weight
			slots = append(slots, cashSlot(uint64(i+1), "1.00", weight))
		}
		seed := rapid.Int64().Draw(t, "seed")

		selected, err := NewSelector(rand.New(rand.NewSource(seed))).Select(slots)

		if total == 0 {
			if err == nil {
				t.Fatalf("expected ErrNoActiveSlots for zero total weight")
			}
			return
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if selected.Weight <= 0 {
			t.Fatalf("selected slot %d has weight %d", selected.ID, selected.Weight)
		}
		if selected.ID < 1 || selected.ID > uint64(n) {
			t.Fatalf("selected slot %d is outside the input", selected.ID)
		}
	})
}
