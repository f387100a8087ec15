package ledger

import (
	"context"
	"errors"
	"time"

	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/usecase"
)

// RetryConfig controls how lost races are retried
type RetryConfig struct {
	MaxRetries    int
	RetryInterval time.Duration
	MaxInterval   time.Duration
	JitterFactor  float64 // 0.0-1.0
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		RetryInterval: 10 * time.Millisecond,
		MaxInterval:   200 * time.Millisecond,
		JitterFactor:  0.2,
	}
}

// Executor runs per-user units of work inside one store transaction
type Executor struct {
	uow          persistence.UnitOfWork
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	rng          coreport.RandomSource
	metrics      coreport.Metrics
	config       RetryConfig
}

// NewExecutor creates a ledger executor
func NewExecutor(
	uow persistence.UnitOfWork,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
	rng coreport.RandomSource,
	metrics coreport.Metrics,
	config RetryConfig,
) *Executor {
	if uow == nil {
		panic("unit of work cannot be nil")
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}

	return &Executor{
		uow:          uow,
		logger:       logger,
		timeProvider: timeProvider,
		rng:          rng,
		metrics:      metrics,
		config:       config,
	}
}

var _ usecase.LedgerExecutor = (*Executor)(nil)

// Run locks (or provisions) the user row, runs fn and commits. Conflicts are
// retried with exponential backoff up to MaxRetries times.
func (e *Executor) Run(ctx context.Context, userID uint64, operation string, fn usecase.LedgerFunc) error {
	if userID == 0 {
		return errs.ErrInvalidUserID
	}

	var err error
	for attempt := 0; ; attempt++ {
		err = e.runOnce(ctx, userID, fn)
		if err == nil {
			return nil
		}

		if !errs.IsConcurrentUpdateError(err) || attempt >= e.config.MaxRetries {
			break
		}

		backoff := e.calculateBackoffWithJitter(attempt)
		e.metrics.LedgerRetry(operation)
		e.logger.Warn("Concurrent update conflict, retrying ledger operation", map[string]any{
			"user_id":     userID,
			"operation":   operation,
			"attempt":     attempt + 1,
			"max_retries": e.config.MaxRetries,
			"error":       err.Error(),
			"retry_after": backoff.String(),
		})

		if waitErr := e.wait(ctx, backoff); waitErr != nil {
			e.logger.Warn("Ledger retry canceled by context", map[string]any{
				"user_id":   userID,
				"operation": operation,
				"error":     waitErr.Error(),
			})
			return waitErr
		}
	}

	e.metrics.LedgerFailure(operation, errs.ErrorCode(err))
	e.logFailure(userID, operation, err)
	return err
}

// runOnce executes one attempt. The deferred rollback covers every exit that
// did not commit, including panics in fn.
func (e *Executor) runOnce(ctx context.Context, userID uint64, fn usecase.LedgerFunc) (err error) {
	if err = ctx.Err(); err != nil {
		return err
	}

	txCtx, err := e.uow.Begin(ctx)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := e.uow.Rollback(txCtx); rbErr != nil {
			e.logger.Error("Failed to roll back ledger unit", map[string]any{
				"user_id": userID,
				"error":   rbErr.Error(),
			})
		}
	}()

	user, err := e.uow.GetUserRepository(txCtx).LockForUpdate(txCtx, userID)
	if err != nil {
		return err
	}

	if err = fn(txCtx, user); err != nil {
		return err
	}

	// An abandoned request must not commit
	if err = ctx.Err(); err != nil {
		return err
	}

	if err = e.uow.Commit(txCtx); err != nil {
		return err
	}
	committed = true
	return nil
}

// calculateBackoffWithJitter computes RetryInterval * 2^attempt capped at MaxInterval, plus jitter
func (e *Executor) calculateBackoffWithJitter(attempt int) time.Duration {
	backoff := e.config.RetryInterval * (1 << uint(attempt))
	if backoff > e.config.MaxInterval || backoff <= 0 {
		backoff = e.config.MaxInterval
	}

	if e.config.JitterFactor > 0 && backoff > 0 && e.rng != nil {
		jitter := time.Duration(float64(backoff) * e.config.JitterFactor * (float64(e.rng.Int63n(100)) / 100.0))
		backoff += jitter
	}

	return backoff
}

func (e *Executor) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	waitCtx, cancel := e.timeProvider.WithTimeout(ctx, coreport.Duration(d))
	defer cancel()
	<-waitCtx.Done()
	return ctx.Err()
}

type logFielder interface {
	LogFields() map[string]any
}

func (e *Executor) logFailure(userID uint64, operation string, err error) {
	fields := map[string]any{
		"user_id":    userID,
		"operation":  operation,
		"error":      err.Error(),
		"error_code": errs.ErrorCode(err),
	}
	var structured logFielder
	if errors.As(err, &structured) {
		for k, v := range structured.LogFields() {
			fields[k] = v
		}
	}

	switch {
	case errs.ErrorCode(err) >= errs.CodeInternalServer:
		e.logger.Error("Ledger operation failed", fields)
	default:
		e.logger.Debug("Ledger operation rejected", fields)
	}
}
