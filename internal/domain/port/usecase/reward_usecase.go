package usecase

import (
	"context"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
)

// MissionUseCase turns deposits and logins into spin grants
type MissionUseCase interface {
	// EvaluateDeposit applies the first-deposit bonus and every matching deposit
	// mission with claims left. A non-empty reference makes the call idempotent.
	EvaluateDeposit(ctx context.Context, userID uint64, amount string, reference string) (*entity.DepositEvaluation, error)

	// EvaluateDailyLogin grants the daily login mission if the login window has elapsed
	EvaluateDailyLogin(ctx context.Context, userID uint64) (*entity.DailyLoginResult, error)
}

// SpinUseCase pays for and resolves roulette spins
type SpinUseCase interface {
	// ConsumeSpin spends one spin, selects a slot and applies its prize
	ConsumeSpin(ctx context.Context, userID uint64) (*entity.SpinOutcome, error)
}

// LetterUseCase accumulates letters and redeems words
type LetterUseCase interface {
	// Collect adds one letter to the user's collection inside the caller's unit of work
	Collect(ctx context.Context, userID uint64, letter string) (int64, error)

	// ClaimWord redeems a word against the user's letters
	ClaimWord(ctx context.Context, userID, wordID uint64) (*entity.WordClaimResult, error)

	// GetLetterCollection returns the user's letter counts
	GetLetterCollection(ctx context.Context, userID uint64) (map[string]int64, error)

	// ListActiveWords returns the words users can currently redeem
	ListActiveWords(ctx context.Context) ([]*entity.LetterWord, error)
}

// AccountUseCase exposes read-only account views
type AccountUseCase interface {
	// GetAccount returns the user's balances, provisioning the user when absent
	GetAccount(ctx context.Context, userID uint64) (*entity.AccountSummary, error)

	// ListTransactions returns the user's log rows newest first
	ListTransactions(ctx context.Context, userID uint64, limit, offset int) ([]*entity.TransactionLog, error)
}
