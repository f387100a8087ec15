//go:build integration

package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/usecase/account"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/usecase/catalog"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/usecase/ledger"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/usecase/letter"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/usecase/mission"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/usecase/slot"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/usecase/spin"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/metrics"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/random"
	timeadapter "github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/time"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rewardsStack struct {
	db       *TestDBManager
	uow      persistence.UnitOfWork
	catalog  usecase.CatalogUseCase
	missions usecase.MissionUseCase
	spins    usecase.SpinUseCase
	letters  usecase.LetterUseCase
	accounts usecase.AccountUseCase
}

func newRewardsStack(t *testing.T, missionConfig mission.Config) *rewardsStack {
	t.Helper()

	log := logger.NewNoopLogger()
	clock := timeadapter.NewRealTimeProvider()
	db := NewTestDBManager(t, log, clock)
	uow := db.Manager.CreateUnitOfWork()

	noop := metrics.NewNoop()
	rng := random.NewSeededSource(7, 42)
	retry := ledger.DefaultRetryConfig()
	retry.MaxRetries = 10
	exec := ledger.NewExecutor(uow, log, clock, rng, noop, retry)
	letters := letter.NewLedger(uow, exec, log, clock, noop)

	return &rewardsStack{
		db:       db,
		uow:      uow,
		catalog:  catalog.NewService(uow, log),
		missions: mission.NewEvaluator(uow, exec, log, clock, noop, missionConfig),
		spins:    spin.NewController(uow, exec, slot.NewSelector(rng), letters, log, clock, noop),
		letters:  letters,
		accounts: account.NewService(uow, log),
	}
}

func logTypes(t *testing.T, accounts usecase.AccountUseCase, userID uint64) map[entity.TransactionType]int {
	t.Helper()
	rows, err := accounts.ListTransactions(context.Background(), userID, 500, 0)
	require.NoError(t, err)
	counts := make(map[entity.TransactionType]int)
	for _, row := range rows {
		counts[row.Type]++
	}
	return counts
}

func TestPostgres_DepositThenCashSpin(t *testing.T) {
	s := newRewardsStack(t, mission.Config{FirstDepositSpins: 0, DailyLoginWindow: 24 * time.Hour})
	ctx := context.Background()

	m, err := s.catalog.CreateDepositMission(ctx, usecase.DepositMissionInput{
		Name: "Big deposit", MinAmount: "100.00", SpinsGranted: 2, MaxClaims: 5,
	})
	require.NoError(t, err)
	_, err = s.catalog.CreateSlot(ctx, usecase.SlotInput{Type: "CASH", Value: "10.00", Weight: 1})
	require.NoError(t, err)

	eval, err := s.missions.EvaluateDeposit(ctx, 1001, "500.00", "dep-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), eval.AvailableSpins)

	txCtx, err := s.uow.Begin(ctx)
	require.NoError(t, err)
	progress, err := s.uow.GetMissionRepository(txCtx).GetProgress(txCtx, 1001, m.ID)
	require.NoError(t, err)
	require.NoError(t, s.uow.Rollback(txCtx))
	assert.Equal(t, int64(1), progress.ClaimsUsed)

	outcome, err := s.spins.ConsumeSpin(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, entity.SlotCash, outcome.Type)
	assert.Equal(t, int64(1), outcome.RemainingSpins)
	assert.Equal(t, "10.00", outcome.CashBalance)

	summary, err := s.accounts.GetAccount(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, "10.00", summary.CashBalance)
	assert.Equal(t, int64(1), summary.AvailableSpins)

	types := logTypes(t, s.accounts, 1001)
	assert.Equal(t, 1, types[entity.TxDepositMissionSpin])
	assert.Equal(t, 1, types[entity.TxSpinConsumed])
	assert.Equal(t, 1, types[entity.TxRouletteWin])
}

func TestPostgres_DepositReferenceIsIdempotent(t *testing.T) {
	s := newRewardsStack(t, mission.DefaultConfig())
	ctx := context.Background()

	_, err := s.catalog.CreateDepositMission(ctx, usecase.DepositMissionInput{
		Name: "Any deposit", MinAmount: "1.00", SpinsGranted: 3, MaxClaims: 10,
	})
	require.NoError(t, err)

	first, err := s.missions.EvaluateDeposit(ctx, 7, "20.00", "ref-42")
	require.NoError(t, err)
	second, err := s.missions.EvaluateDeposit(ctx, 7, "20.00", "ref-42")
	require.NoError(t, err)

	assert.False(t, first.Duplicate)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.AvailableSpins, second.AvailableSpins)
	assert.Equal(t, int64(4), second.AvailableSpins)
}

func TestPostgres_ConcurrentSpinsNeverOverspend(t *testing.T) {
	s := newRewardsStack(t, mission.Config{FirstDepositSpins: 5, DailyLoginWindow: time.Hour})
	ctx := context.Background()

	_, err := s.catalog.CreateSlot(ctx, usecase.SlotInput{Type: "CASH", Value: "1.25", Weight: 3})
	require.NoError(t, err)
	_, err = s.catalog.CreateSlot(ctx, usecase.SlotInput{Type: "LETTER", Value: "A", Weight: 1})
	require.NoError(t, err)

	_, err = s.missions.EvaluateDeposit(ctx, 55, "10.00", "")
	require.NoError(t, err)

	const workers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		refused   int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.spins.ConsumeSpin(ctx, 55)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errs.ErrorCode(err) == errs.CodeInsufficientSpins:
				refused++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, workers-5, refused)

	summary, err := s.accounts.GetAccount(ctx, 55)
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.AvailableSpins)

	txCtx, err := s.uow.Begin(ctx)
	require.NoError(t, err)
	sum, err := s.uow.GetTransactionLogRepository(txCtx).SumAmountByUser(txCtx, 55)
	require.NoError(t, err)
	require.NoError(t, s.uow.Rollback(txCtx))

	balance, err := decimal.NewFromString(summary.CashBalance)
	require.NoError(t, err)
	assert.True(t, sum.Equal(balance), "log sum %s != balance %s", sum, balance)
}

func TestPostgres_ClaimWord(t *testing.T) {
	s := newRewardsStack(t, mission.DefaultConfig())
	ctx := context.Background()

	word, err := s.catalog.CreateWord(ctx, usecase.WordInput{Word: "PAY", RewardAmount: "25.00"})
	require.NoError(t, err)

	_, err = s.letters.ClaimWord(ctx, 9, word.ID)
	assert.ErrorIs(t, err, errs.ErrInsufficientLetters)

	exec := ledger.NewExecutor(s.uow, logger.NewNoopLogger(), timeadapter.NewRealTimeProvider(),
		random.NewSeededSource(1, 2), metrics.NewNoop(), ledger.DefaultRetryConfig())
	for _, l := range []string{"P", "A", "Y", "Y"} {
		err := exec.Run(ctx, 9, "collect", func(txCtx context.Context, _ *entity.User) error {
			_, err := s.letters.Collect(txCtx, 9, l)
			return err
		})
		require.NoError(t, err)
	}

	result, err := s.letters.ClaimWord(ctx, 9, word.ID)
	require.NoError(t, err)
	assert.Equal(t, "25.00", result.RewardAmount)
	assert.Equal(t, "25.00", result.NewCashBalance)

	collection, err := s.letters.GetLetterCollection(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(0), collection["P"])
	assert.Equal(t, int64(0), collection["A"])
	assert.Equal(t, int64(1), collection["Y"])

	types := logTypes(t, s.accounts, 9)
	assert.Equal(t, 1, types[entity.TxLetterBonus])
	assert.Equal(t, 4, types[entity.TxLetterCollected])
}

func TestPostgres_DailyLoginOncePerWindow(t *testing.T) {
	s := newRewardsStack(t, mission.DefaultConfig())
	ctx := context.Background()

	_, err := s.catalog.CreateDailyLoginMission(ctx, usecase.DailyLoginMissionInput{Name: "Daily", SpinsGranted: 1})
	require.NoError(t, err)

	first, err := s.missions.EvaluateDailyLogin(ctx, 3)
	require.NoError(t, err)
	assert.True(t, first.Granted())

	second, err := s.missions.EvaluateDailyLogin(ctx, 3)
	require.NoError(t, err)
	assert.False(t, second.Granted())
	assert.Equal(t, int64(1), second.AvailableSpins)
	require.NotNil(t, second.NextEligibleAt)
}

func TestPostgres_SpinWithoutSlotsRestoresSpin(t *testing.T) {
	s := newRewardsStack(t, mission.Config{FirstDepositSpins: 1, DailyLoginWindow: time.Hour})
	ctx := context.Background()

	_, err := s.missions.EvaluateDeposit(ctx, 77, "5.00", "")
	require.NoError(t, err)

	_, err = s.spins.ConsumeSpin(ctx, 77)
	assert.ErrorIs(t, err, errs.ErrNoActiveSlots)

	summary, err := s.accounts.GetAccount(ctx, 77)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.AvailableSpins)
}
