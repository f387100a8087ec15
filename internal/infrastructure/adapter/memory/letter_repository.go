package memory

import (
	"context"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
)

// LetterRepository implements persistence.LetterRepository in memory
type LetterRepository struct {
	session
}

func cloneWord(w *entity.LetterWord) *entity.LetterWord {
	c := *w
	c.RawRequirements = append([]byte(nil), w.RawRequirements...)
	return &c
}

// Increment adds one to the (user, letter) count, creating the row at 1 when absent
func (r *LetterRepository) Increment(ctx context.Context, userID uint64, letter string) (int64, error) {
	var count int64
	err := r.mutate(ctx, func(t *tx) error {
		key := letterKey{userID: userID, letter: letter}
		previous, existed := r.store.letters[key]
		t.journal(func() {
			if existed {
				r.store.letters[key] = previous
			} else {
				delete(r.store.letters, key)
			}
		})
		r.store.letters[key] = previous + 1
		count = previous + 1
		return nil
	})
	return count, err
}

// DecrementIfEnough subtracts n from the (user, letter) count if the count is at least n
func (r *LetterRepository) DecrementIfEnough(ctx context.Context, userID uint64, letter string, n int64) (bool, error) {
	if n <= 0 {
		return false, errs.ErrInvalidRequest
	}

	applied := false
	err := r.mutate(ctx, func(t *tx) error {
		key := letterKey{userID: userID, letter: letter}
		current, ok := r.store.letters[key]
		if !ok || current < n {
			return nil
		}
		t.journal(func() { r.store.letters[key] = current })
		r.store.letters[key] = current - n
		applied = true
		return nil
	})
	return applied, err
}

// GetCollection returns the user's letter counts keyed by letter
func (r *LetterRepository) GetCollection(ctx context.Context, userID uint64) (map[string]int64, error) {
	collection := make(map[string]int64)
	err := r.read(ctx, func() error {
		for key, count := range r.store.letters {
			if key.userID == userID {
				collection[key.letter] = count
			}
		}
		return nil
	})
	return collection, err
}

// GetWord returns a word by ID
func (r *LetterRepository) GetWord(ctx context.Context, id uint64) (*entity.LetterWord, error) {
	var found *entity.LetterWord
	err := r.read(ctx, func() error {
		word, ok := r.store.words[id]
		if !ok {
			return errs.ErrWordNotFound
		}
		found = cloneWord(word)
		return nil
	})
	return found, err
}

// ListWords returns words ordered by ID, optionally only active ones
func (r *LetterRepository) ListWords(ctx context.Context, activeOnly bool) ([]*entity.LetterWord, error) {
	var words []*entity.LetterWord
	err := r.read(ctx, func() error {
		for _, id := range sortedKeys(r.store.words) {
			word := r.store.words[id]
			if activeOnly && !word.Active {
				continue
			}
			words = append(words, cloneWord(word))
		}
		return nil
	})
	return words, err
}

// CreateWord stores a new word and assigns its ID
func (r *LetterRepository) CreateWord(ctx context.Context, word *entity.LetterWord) error {
	return r.mutate(ctx, func(t *tx) error {
		word.ID = r.store.nextID("letter_words")
		id := word.ID
		r.store.words[id] = cloneWord(word)
		t.journal(func() { delete(r.store.words, id) })
		return nil
	})
}

// SetWordActive toggles a word
func (r *LetterRepository) SetWordActive(ctx context.Context, id uint64, active bool) error {
	return r.mutate(ctx, func(t *tx) error {
		word, ok := r.store.words[id]
		if !ok {
			return errs.ErrWordNotFound
		}
		previous := word.Active
		t.journal(func() { word.Active = previous })
		word.Active = active
		return nil
	})
}
