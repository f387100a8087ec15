package mission

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/usecase/ledger"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/memory"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/metrics"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/random"
	timeadapter "github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/time"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	uow       persistence.UnitOfWork
	clock     *timeadapter.ManualTimeProvider
	evaluator *Evaluator
}

func newFixture(t *testing.T, config Config) *fixture {
	t.Helper()

	clock := timeadapter.NewManualTimeProvider(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	log := logger.NewNoopLogger()
	store := memory.NewStore(clock, log, time.Second)
	uow := memory.NewUnitOfWork(store)
	exec := ledger.NewExecutor(uow, log, clock, random.NewSeededSource(1, 2), metrics.NewNoop(), ledger.DefaultRetryConfig())

	return &fixture{
		uow:       uow,
		clock:     clock,
		evaluator: NewEvaluator(uow, exec, log, clock, metrics.NewNoop(), config).(*Evaluator),
	}
}

func (f *fixture) addDepositMission(t *testing.T, name, minAmount string, maxAmount *string, spins, maxClaims int64) *entity.DepositMission {
	t.Helper()

	mission := &entity.DepositMission{
		Name:         name,
		MinAmount:    decimal.RequireFromString(minAmount),
		SpinsGranted: spins,
		MaxClaims:    maxClaims,
		Active:       true,
	}
	if maxAmount != nil {
		upper := decimal.RequireFromString(*maxAmount)
		mission.MaxAmount = &upper
	}
	require.NoError(t, f.uow.GetMissionRepository(context.Background()).CreateDepositMission(context.Background(), mission))
	return mission
}

func (f *fixture) logsOfType(t *testing.T, userID uint64, txType entity.TransactionType) []*entity.TransactionLog {
	t.Helper()

	all, err := f.uow.GetTransactionLogRepository(context.Background()).ListByUser(context.Background(), userID, 1000, 0)
	require.NoError(t, err)

	var matched []*entity.TransactionLog
	for _, l := range all {
		if l.Type == txType {
			matched = append(matched, l)
		}
	}
	return matched
}

func (f *fixture) user(t *testing.T, userID uint64) *entity.User {
	t.Helper()
	user, err := f.uow.GetUserRepository(context.Background()).GetOrCreate(context.Background(), userID)
	require.NoError(t, err)
	return user
}

func strPtr(s string) *string { return &s }

func TestEvaluateDeposit_FreshUserMatchingMission(t *testing.T) {
	f := newFixture(t, Config{FirstDepositSpins: 0, DailyLoginWindow: 24 * time.Hour})
	mission := f.addDepositMission(t, "High roller", "100.00", nil, 2, 5)

	result, err := f.evaluator.EvaluateDeposit(context.Background(), 1, "500", "")
	require.NoError(t, err)

	assert.Equal(t, "500.00", result.Amount)
	assert.False(t, result.Duplicate)
	require.Len(t, result.Grants, 1)
	assert.Equal(t, entity.GrantDepositMission, result.Grants[0].Source)
	assert.Equal(t, mission.ID, result.Grants[0].MissionID)
	assert.Equal(t, int64(1), result.Grants[0].ClaimsUsed)
	assert.Equal(t, int64(2), result.AvailableSpins)

	user := f.user(t, 1)
	assert.Equal(t, int64(2), user.AvailableSpins)
	assert.Equal(t, "0.00", user.GetCashBalance())
	assert.True(t, user.FirstDepositBonusUsed)

	progress, err := f.uow.GetMissionRepository(context.Background()).GetProgress(context.Background(), 1, mission.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), progress.ClaimsUsed)

	assert.Len(t, f.logsOfType(t, 1, entity.TxDepositMissionSpin), 1)
	assert.Len(t, f.logsOfType(t, 1, entity.TxDeposit), 1)
}

func TestEvaluateDeposit_FirstDepositBonusOnce(t *testing.T) {
	f := newFixture(t, DefaultConfig())

	first, err := f.evaluator.EvaluateDeposit(context.Background(), 2, "10", "")
	require.NoError(t, err)
	require.Len(t, first.Grants, 1)
	assert.Equal(t, entity.GrantFirstDeposit, first.Grants[0].Source)
	assert.Equal(t, int64(1), first.AvailableSpins)

	second, err := f.evaluator.EvaluateDeposit(context.Background(), 2, "10", "")
	require.NoError(t, err)
	assert.Empty(t, second.Grants)
	assert.Equal(t, int64(1), second.AvailableSpins)

	bonusLogs := f.logsOfType(t, 2, entity.TxFirstDepositSpin)
	require.Len(t, bonusLogs, 1)
	assert.Equal(t, int64(1), bonusLogs[0].SpinsDelta)
	assert.Nil(t, bonusLogs[0].Amount)
}

func TestEvaluateDeposit_MaxClaimsOne(t *testing.T) {
	f := newFixture(t, Config{FirstDepositSpins: 0, DailyLoginWindow: time.Hour})
	mission := f.addDepositMission(t, "Once only", "50", strPtr("100"), 3, 1)

	first, err := f.evaluator.EvaluateDeposit(context.Background(), 3, "75.50", "")
	require.NoError(t, err)
	require.Len(t, first.Grants, 1)
	assert.Equal(t, int64(3), first.AvailableSpins)

	second, err := f.evaluator.EvaluateDeposit(context.Background(), 3, "75.50", "")
	require.NoError(t, err)
	assert.Empty(t, second.Grants)
	assert.Equal(t, int64(3), second.AvailableSpins)

	progress, err := f.uow.GetMissionRepository(context.Background()).GetProgress(context.Background(), 3, mission.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), progress.ClaimsUsed)
	assert.Len(t, f.logsOfType(t, 3, entity.TxDepositMissionSpin), 1)
}

func TestEvaluateDeposit_RangesAreInclusiveAndStack(t *testing.T) {
	f := newFixture(t, Config{FirstDepositSpins: 0, DailyLoginWindow: time.Hour})
	f.addDepositMission(t, "Small", "10", strPtr("100"), 1, 10)
	f.addDepositMission(t, "Medium", "100", strPtr("500"), 2, 10)
	f.addDepositMission(t, "Large", "500.01", nil, 5, 10)

	tests := []struct {
		amount string
		spins  int64
	}{
		{"9.99", 0},
		{"10", 1},
		{"100", 3},
		{"500", 2},
		{"500.01", 5},
	}

	for i, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			userID := uint64(100 + i)
			result, err := f.evaluator.EvaluateDeposit(context.Background(), userID, tt.amount, "")
			require.NoError(t, err)
			assert.Equal(t, tt.spins, result.TotalSpins())
			assert.Equal(t, tt.spins, f.user(t, userID).AvailableSpins)
		})
	}
}

func TestEvaluateDeposit_InactiveMissionIgnored(t *testing.T) {
	f := newFixture(t, Config{FirstDepositSpins: 0, DailyLoginWindow: time.Hour})
	mission := f.addDepositMission(t, "Paused", "1", nil, 4, 10)
	require.NoError(t, f.uow.GetMissionRepository(context.Background()).SetDepositMissionActive(context.Background(), mission.ID, false))

	result, err := f.evaluator.EvaluateDeposit(context.Background(), 4, "20", "")
	require.NoError(t, err)
	assert.Empty(t, result.Grants)
}

func TestEvaluateDeposit_DuplicateReference(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.addDepositMission(t, "Any", "1", nil, 2, 10)

	first, err := f.evaluator.EvaluateDeposit(context.Background(), 5, "25", "dep-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), first.AvailableSpins)

	replay, err := f.evaluator.EvaluateDeposit(context.Background(), 5, "25", "dep-1")
	require.NoError(t, err)
	assert.True(t, replay.Duplicate)
	assert.Empty(t, replay.Grants)
	assert.Equal(t, int64(3), replay.AvailableSpins)

	// the same reference belongs to a different user independently
	other, err := f.evaluator.EvaluateDeposit(context.Background(), 6, "25", "dep-1")
	require.NoError(t, err)
	assert.False(t, other.Duplicate)

	assert.Equal(t, int64(3), f.user(t, 5).AvailableSpins)
	assert.Len(t, f.logsOfType(t, 5, entity.TxDeposit), 1)
}

func TestEvaluateDeposit_InvalidInput(t *testing.T) {
	f := newFixture(t, DefaultConfig())

	tests := []struct {
		name    string
		userID  uint64
		amount  string
		wantErr error
	}{
		{"zero user", 0, "10", errs.ErrInvalidUserID},
		{"empty amount", 1, "", errs.ErrInvalidAmount},
		{"negative amount", 1, "-5", errs.ErrNegativeAmount},
		{"zero amount", 1, "0.00", errs.ErrInvalidAmount},
		{"three decimals", 1, "1.005", errs.ErrInvalidAmount},
		{"exponent", 1, "1e3", errs.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.evaluator.EvaluateDeposit(context.Background(), tt.userID, tt.amount, "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// nothing was provisioned or logged
	logs, err := f.uow.GetTransactionLogRepository(context.Background()).ListByUser(context.Background(), 1, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestEvaluateDeposit_ConcurrentDepositsRespectMaxClaims(t *testing.T) {
	f := newFixture(t, Config{FirstDepositSpins: 0, DailyLoginWindow: time.Hour})
	mission := f.addDepositMission(t, "Limited", "1", nil, 1, 3)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.evaluator.EvaluateDeposit(context.Background(), 7, "10", "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	progress, err := f.uow.GetMissionRepository(context.Background()).GetProgress(context.Background(), 7, mission.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), progress.ClaimsUsed)
	assert.Equal(t, int64(3), f.user(t, 7).AvailableSpins)
}

func TestEvaluateDailyLogin(t *testing.T) {
	f := newFixture(t, Config{FirstDepositSpins: 1, DailyLoginWindow: 24 * time.Hour})

	_, err := f.evaluator.EvaluateDailyLogin(context.Background(), 8)
	assert.ErrorIs(t, err, errs.ErrMissionNotConfigured)

	require.NoError(t, f.uow.GetMissionRepository(context.Background()).CreateDailyLoginMission(context.Background(),
		&entity.DailyLoginMission{Name: "Daily", SpinsGranted: 2, Active: true}))

	first, err := f.evaluator.EvaluateDailyLogin(context.Background(), 8)
	require.NoError(t, err)
	require.True(t, first.Granted())
	assert.Equal(t, int64(2), first.Grant.SpinsGranted)
	assert.Equal(t, int64(2), first.AvailableSpins)

	// same window: nothing
	f.clock.Advance(23 * time.Hour)
	again, err := f.evaluator.EvaluateDailyLogin(context.Background(), 8)
	require.NoError(t, err)
	assert.False(t, again.Granted())
	require.NotNil(t, again.NextEligibleAt)
	assert.Equal(t, time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC), *again.NextEligibleAt)
	assert.Equal(t, int64(2), again.AvailableSpins)

	// window elapsed
	f.clock.Advance(time.Hour)
	later, err := f.evaluator.EvaluateDailyLogin(context.Background(), 8)
	require.NoError(t, err)
	assert.True(t, later.Granted())
	assert.Equal(t, int64(4), f.user(t, 8).AvailableSpins)

	assert.Len(t, f.logsOfType(t, 8, entity.TxDailyLoginSpin), 2)
}

func TestEvaluateDailyLogin_ConcurrentGrantsOnce(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	require.NoError(t, f.uow.GetMissionRepository(context.Background()).CreateDailyLoginMission(context.Background(),
		&entity.DailyLoginMission{Name: "Daily", SpinsGranted: 1, Active: true}))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := f.evaluator.EvaluateDailyLogin(context.Background(), 9)
			if !assert.NoError(t, err) {
				return
			}
			if result.Granted() {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, granted)
	assert.Equal(t, int64(1), f.user(t, 9).AvailableSpins)
}
