package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	mcore "github.com/amirhossein-jamali/spin-rewards/mocks/port/core"
	mpers "github.com/amirhossein-jamali/spin-rewards/mocks/port/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type txKey struct{}

type fixedRandom struct{}

func (fixedRandom) Int63n(int64) int64 { return 0 }

type executorFixture struct {
	uow      *mpers.MockUnitOfWork
	userRepo *mpers.MockUserRepository
	logger   *mcore.MockLogger
	clock    *mcore.MockTimeProvider
	metrics  *mcore.MockMetrics
	txCtx    context.Context
	user     *entity.User
}

func newExecutorFixture(t *testing.T) *executorFixture {
	f := &executorFixture{
		uow:      mpers.NewMockUnitOfWork(t),
		userRepo: mpers.NewMockUserRepository(t),
		logger:   mcore.NewMockLogger(t),
		clock:    mcore.NewMockTimeProvider(t),
		metrics:  mcore.NewMockMetrics(t),
		txCtx:    context.WithValue(context.Background(), txKey{}, "tx"),
		user:     &entity.User{ID: 7, AvailableSpins: 1},
	}

	f.logger.On("Debug", mock.Anything, mock.Anything).Maybe()
	f.logger.On("Info", mock.Anything, mock.Anything).Maybe()
	f.logger.On("Warn", mock.Anything, mock.Anything).Maybe()
	f.logger.On("Error", mock.Anything, mock.Anything).Maybe()
	f.clock.On("WithTimeout", mock.Anything, mock.Anything).Return(
		func(ctx context.Context, d coreport.Duration) (context.Context, context.CancelFunc) {
			return context.WithTimeout(ctx, d.Std())
		},
	).Maybe()

	return f
}

func (f *executorFixture) executor(maxRetries int) *Executor {
	return NewExecutor(f.uow, f.logger, f.clock, fixedRandom{}, f.metrics, RetryConfig{
		MaxRetries:    maxRetries,
		RetryInterval: time.Millisecond,
		MaxInterval:   5 * time.Millisecond,
	})
}

func (f *executorFixture) expectAttempt() {
	f.uow.On("Begin", mock.Anything).Return(f.txCtx, nil).Once()
	f.uow.On("GetUserRepository", f.txCtx).Return(f.userRepo).Once()
	f.userRepo.On("LockForUpdate", f.txCtx, uint64(7)).Return(f.user, nil).Once()
}

func TestExecutor_Run(t *testing.T) {
	t.Run("Commits a successful unit", func(t *testing.T) {
		// Arrange
		f := newExecutorFixture(t)
		f.expectAttempt()
		f.uow.On("Commit", f.txCtx).Return(nil).Once()

		var seen *entity.User
		// Act
		err := f.executor(3).Run(context.Background(), 7, "consume_spin", func(ctx context.Context, user *entity.User) error {
			assert.Equal(t, "tx", ctx.Value(txKey{}))
			seen = user
			return nil
		})

		// Assert
		require.NoError(t, err)
		assert.Same(t, f.user, seen)
		f.uow.AssertNotCalled(t, "Rollback", mock.Anything)
	})

	t.Run("Rolls back when the unit fails", func(t *testing.T) {
		f := newExecutorFixture(t)
		f.expectAttempt()
		f.uow.On("Rollback", f.txCtx).Return(nil).Once()
		f.metrics.On("LedgerFailure", "consume_spin", errs.CodeInsufficientSpins).Once()

		err := f.executor(3).Run(context.Background(), 7, "consume_spin", func(context.Context, *entity.User) error {
			return errs.NewInsufficientSpinsError(7)
		})

		assert.ErrorIs(t, err, errs.ErrInsufficientSpins)
		f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("Retries a lost race", func(t *testing.T) {
		f := newExecutorFixture(t)
		f.expectAttempt()
		f.uow.On("Rollback", f.txCtx).Return(nil).Once()
		f.expectAttempt()
		f.uow.On("Commit", f.txCtx).Return(nil).Once()
		f.metrics.On("LedgerRetry", "claim_word").Once()

		calls := 0
		err := f.executor(3).Run(context.Background(), 7, "claim_word", func(context.Context, *entity.User) error {
			calls++
			if calls == 1 {
				return errs.NewConflictError(7, "claim_word", nil)
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("Surfaces the conflict once retries are exhausted", func(t *testing.T) {
		f := newExecutorFixture(t)
		for i := 0; i < 3; i++ {
			f.expectAttempt()
			f.uow.On("Rollback", f.txCtx).Return(nil).Once()
		}
		f.metrics.On("LedgerRetry", "claim_word").Twice()
		f.metrics.On("LedgerFailure", "claim_word", errs.CodeConcurrentUpdate).Once()

		calls := 0
		err := f.executor(2).Run(context.Background(), 7, "claim_word", func(context.Context, *entity.User) error {
			calls++
			return errs.NewConflictError(7, "claim_word", nil)
		})

		assert.ErrorIs(t, err, errs.ErrConcurrentUpdate)
		assert.Equal(t, 3, calls)
	})

	t.Run("Commit conflicts are retried", func(t *testing.T) {
		f := newExecutorFixture(t)
		f.expectAttempt()
		f.uow.On("Commit", f.txCtx).Return(errs.NewConflictError(7, "commit", errors.New("could not serialize access"))).Once()
		f.uow.On("Rollback", f.txCtx).Return(nil).Once()
		f.expectAttempt()
		f.uow.On("Commit", f.txCtx).Return(nil).Once()
		f.metrics.On("LedgerRetry", "evaluate_deposit").Once()

		err := f.executor(1).Run(context.Background(), 7, "evaluate_deposit", func(context.Context, *entity.User) error {
			return nil
		})

		require.NoError(t, err)
	})

	t.Run("Canceled request never commits", func(t *testing.T) {
		f := newExecutorFixture(t)
		f.expectAttempt()
		f.uow.On("Rollback", f.txCtx).Return(nil).Once()
		f.metrics.On("LedgerFailure", "consume_spin", errs.CodeInternalServer).Once()

		ctx, cancel := context.WithCancel(context.Background())
		err := f.executor(3).Run(ctx, 7, "consume_spin", func(context.Context, *entity.User) error {
			cancel()
			return nil
		})

		assert.ErrorIs(t, err, context.Canceled)
		f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("Zero user ID is rejected before any work", func(t *testing.T) {
		f := newExecutorFixture(t)

		err := f.executor(3).Run(context.Background(), 0, "consume_spin", func(context.Context, *entity.User) error {
			t.Fatal("unit must not run")
			return nil
		})

		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
		f.uow.AssertNotCalled(t, "Begin", mock.Anything)
	})
}

func TestExecutor_Backoff(t *testing.T) {
	f := newExecutorFixture(t)
	e := NewExecutor(f.uow, f.logger, f.clock, fixedRandom{}, f.metrics, RetryConfig{
		MaxRetries:    5,
		RetryInterval: 10 * time.Millisecond,
		MaxInterval:   50 * time.Millisecond,
	})

	assert.Equal(t, 10*time.Millisecond, e.calculateBackoffWithJitter(0))
	assert.Equal(t, 20*time.Millisecond, e.calculateBackoffWithJitter(1))
	assert.Equal(t, 40*time.Millisecond, e.calculateBackoffWithJitter(2))
	assert.Equal(t, 50*time.Millisecond, e.calculateBackoffWithJitter(3))
}
