package persistence

import (
	"context"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
)

// LetterRepository keeps per-user letter counts and the redeemable word catalog
type LetterRepository interface {
	// Increment adds one to the (user, letter) count, creating the row at 1 when absent.
	// Returns the new count.
	Increment(ctx context.Context, userID uint64, letter string) (int64, error)

	// DecrementIfEnough subtracts n from the (user, letter) count if the count is at least n
	DecrementIfEnough(ctx context.Context, userID uint64, letter string, n int64) (bool, error)

	// GetCollection returns the user's letter counts keyed by letter
	GetCollection(ctx context.Context, userID uint64) (map[string]int64, error)

	// GetWord returns a word by ID
	//
	// Possible errors:
	// - ErrWordNotFound: If no word has the given ID
	GetWord(ctx context.Context, id uint64) (*entity.LetterWord, error)

	// ListWords returns words ordered by ID, optionally only active ones
	ListWords(ctx context.Context, activeOnly bool) ([]*entity.LetterWord, error)

	// CreateWord stores a new word and assigns its ID
	CreateWord(ctx context.Context, word *entity.LetterWord) error

	// SetWordActive toggles a word
	SetWordActive(ctx context.Context, id uint64, active bool) error
}
