package spin

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/usecase"
)

// LetterCollector adds a won letter inside the caller's unit of work
type LetterCollector interface {
	Collect(ctx context.Context, userID uint64, letter string) (int64, error)
}

// Controller executes one paid spin: spend, select, pay out
type Controller struct {
	uow          persistence.UnitOfWork
	executor     usecase.LedgerExecutor
	selector     usecase.SlotSelector
	letters      LetterCollector
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	metrics      coreport.Metrics
}

// NewController creates a spin controller
func NewController(
	uow persistence.UnitOfWork,
	executor usecase.LedgerExecutor,
	selector usecase.SlotSelector,
	letters LetterCollector,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
	metrics coreport.Metrics,
) usecase.SpinUseCase {
	return &Controller{
		uow:          uow,
		executor:     executor,
		selector:     selector,
		letters:      letters,
		logger:       logger,
		timeProvider: timeProvider,
		metrics:      metrics,
	}
}

// ConsumeSpin spends one spin and applies the selected slot. The spin is only
// spent when the whole unit commits; a selection or payout failure restores it.
func (c *Controller) ConsumeSpin(ctx context.Context, userID uint64) (*entity.SpinOutcome, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}

	var outcome *entity.SpinOutcome

	err := c.executor.Run(ctx, userID, "consume_spin", func(txCtx context.Context, user *entity.User) error {
		outcome = nil
		users := c.uow.GetUserRepository(txCtx)
		logs := c.uow.GetTransactionLogRepository(txCtx)

		paid, err := users.ConsumeSpin(txCtx, userID)
		if err != nil {
			return fmt.Errorf("failed to consume spin: %w", err)
		}
		if !paid {
			return errs.NewInsufficientSpinsError(userID)
		}

		consumedLog, err := entity.NewTransactionLog(userID, entity.TxSpinConsumed, nil, -1, "Spin consumed", c.timeProvider)
		if err != nil {
			return err
		}
		if err := logs.Append(txCtx, consumedLog); err != nil {
			return fmt.Errorf("failed to log spin consumption: %w", err)
		}

		slots, err := c.uow.GetSlotRepository(txCtx).ListActive(txCtx)
		if err != nil {
			return fmt.Errorf("failed to load roulette slots: %w", err)
		}

		slot, err := c.selector.Select(slots)
		if err != nil {
			return err
		}

		result := &entity.SpinOutcome{
			UserID:         userID,
			SlotID:         slot.ID,
			Type:           slot.Type,
			Value:          slot.Value,
			RemainingSpins: user.AvailableSpins - 1,
			CashBalance:    user.GetCashBalance(),
		}

		switch slot.Type {
		case entity.SlotCash:
			amount, err := slot.CashValue()
			if err != nil {
				return err
			}
			if err := users.CreditCash(txCtx, userID, amount); err != nil {
				return fmt.Errorf("failed to credit cash prize: %w", err)
			}

			winLog, err := entity.NewTransactionLog(userID, entity.TxRouletteWin, &amount, 0,
				fmt.Sprintf("Roulette cash win %s (slot #%d)", entity.FormatAmount(amount), slot.ID), c.timeProvider)
			if err != nil {
				return err
			}
			if err := logs.Append(txCtx, winLog); err != nil {
				return fmt.Errorf("failed to log cash prize: %w", err)
			}

			won := entity.FormatAmount(amount)
			result.CashWon = &won
			result.Value = won
			result.CashBalance = entity.FormatAmount(user.CashBalance.Add(amount))

		case entity.SlotLetter:
			letter, err := slot.LetterValue()
			if err != nil {
				return err
			}
			if _, err := c.letters.Collect(txCtx, userID, letter); err != nil {
				return err
			}

			spinLog, err := entity.NewTransactionLog(userID, entity.TxRouletteSpin, nil, 0,
				fmt.Sprintf("Roulette landed on %s (slot #%d)", slot.Describe(), slot.ID), c.timeProvider)
			if err != nil {
				return err
			}
			if err := logs.Append(txCtx, spinLog); err != nil {
				return fmt.Errorf("failed to log letter prize: %w", err)
			}

			result.LetterWon = &letter
			result.Value = letter

		default:
			return fmt.Errorf("%w: slot %d has unknown type %q", errs.ErrInvalidSlot, slot.ID, slot.Type)
		}

		outcome = result
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.metrics.SpinConsumed(string(outcome.Type))
	c.logger.Info("Spin consumed", map[string]any{
		"user_id":         userID,
		"slot_id":         outcome.SlotID,
		"slot_type":       outcome.Type,
		"value":           outcome.Value,
		"remaining_spins": outcome.RemainingSpins,
		"cash_balance":    outcome.CashBalance,
	})

	return outcome, nil
}
