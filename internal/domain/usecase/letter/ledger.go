package letter

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/usecase"
)

// Ledger accumulates letters won on the roulette and redeems completed words
type Ledger struct {
	uow          persistence.UnitOfWork
	executor     usecase.LedgerExecutor
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	metrics      coreport.Metrics
}

// NewLedger creates a letter ledger
func NewLedger(
	uow persistence.UnitOfWork,
	executor usecase.LedgerExecutor,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
	metrics coreport.Metrics,
) *Ledger {
	return &Ledger{
		uow:          uow,
		executor:     executor,
		logger:       logger,
		timeProvider: timeProvider,
		metrics:      metrics,
	}
}

var _ usecase.LetterUseCase = (*Ledger)(nil)

// Collect adds one letter to the user's collection and logs it. ctx must carry
// the caller's unit of work so the increment commits or rolls back with it.
func (l *Ledger) Collect(ctx context.Context, userID uint64, letter string) (int64, error) {
	normalized, ok := entity.NormalizeLetter(letter)
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a single letter", errs.ErrInvalidSlot, letter)
	}

	count, err := l.uow.GetLetterRepository(ctx).Increment(ctx, userID, normalized)
	if err != nil {
		return 0, fmt.Errorf("failed to collect letter: %w", err)
	}

	collectedLog, err := entity.NewTransactionLog(userID, entity.TxLetterCollected, nil, 0,
		fmt.Sprintf("Collected letter %s (now %d)", normalized, count), l.timeProvider)
	if err != nil {
		return 0, err
	}
	if err := l.uow.GetTransactionLogRepository(ctx).Append(ctx, collectedLog); err != nil {
		return 0, fmt.Errorf("failed to log letter collection: %w", err)
	}

	return count, nil
}

// ClaimWord checks that the user's letters contain the word's requirement
// multiset, then spends the letters and credits the reward in one unit.
func (l *Ledger) ClaimWord(ctx context.Context, userID, wordID uint64) (*entity.WordClaimResult, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}

	result := &entity.WordClaimResult{UserID: userID, WordID: wordID}

	err := l.executor.Run(ctx, userID, "claim_word", func(txCtx context.Context, user *entity.User) error {
		letters := l.uow.GetLetterRepository(txCtx)

		word, err := letters.GetWord(txCtx, wordID)
		if err != nil {
			return err
		}
		if !word.Active {
			return fmt.Errorf("%w: word %d is inactive", errs.ErrWordNotFound, wordID)
		}

		required, err := word.Requirements()
		if err != nil {
			l.logger.Error("Letter word has an unusable requirement set", map[string]any{
				"word_id": wordID,
				"word":    word.Word,
				"error":   err.Error(),
			})
			return err
		}

		collection, err := letters.GetCollection(txCtx, userID)
		if err != nil {
			return fmt.Errorf("failed to read letter collection: %w", err)
		}

		if shortfall := required.FirstShortfall(collection); shortfall != nil {
			return errs.NewInsufficientLettersError(userID, wordID, shortfall.Letter, shortfall.Required, shortfall.Available)
		}

		for _, letter := range required.Letters() {
			spent, err := letters.DecrementIfEnough(txCtx, userID, letter, required[letter])
			if err != nil {
				return fmt.Errorf("failed to spend letter %s: %w", letter, err)
			}
			if !spent {
				return errs.NewConflictError(userID, "claim_word", fmt.Errorf("letter %s changed during claim", letter))
			}
		}

		if err := l.uow.GetUserRepository(txCtx).CreditCash(txCtx, userID, word.RewardAmount); err != nil {
			return fmt.Errorf("failed to credit word reward: %w", err)
		}

		reward := word.RewardAmount
		bonusLog, err := entity.NewTransactionLog(userID, entity.TxLetterBonus, &reward, 0,
			fmt.Sprintf("Redeemed word %s (#%d)", word.Word, word.ID), l.timeProvider)
		if err != nil {
			return err
		}
		if err := l.uow.GetTransactionLogRepository(txCtx).Append(txCtx, bonusLog); err != nil {
			return fmt.Errorf("failed to log word redemption: %w", err)
		}

		result.Word = word.Word
		result.LettersSpent = map[string]int64(required)
		result.RewardAmount = entity.FormatAmount(reward)
		result.NewCashBalance = entity.FormatAmount(user.CashBalance.Add(reward))
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.metrics.WordClaimed(result.Word)
	l.logger.Info("Word redeemed", map[string]any{
		"user_id":          userID,
		"word_id":          wordID,
		"word":             result.Word,
		"reward_amount":    result.RewardAmount,
		"new_cash_balance": result.NewCashBalance,
	})

	return result, nil
}

// GetLetterCollection returns the user's letter counts without modifying anything
func (l *Ledger) GetLetterCollection(ctx context.Context, userID uint64) (map[string]int64, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}

	collection, err := l.uow.GetLetterRepository(ctx).GetCollection(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read letter collection: %w", err)
	}
	return collection, nil
}

// ListActiveWords returns the words users can currently redeem
func (l *Ledger) ListActiveWords(ctx context.Context) ([]*entity.LetterWord, error) {
	words, err := l.uow.GetLetterRepository(ctx).ListWords(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list words: %w", err)
	}
	return words, nil
}
