package spin

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/usecase/ledger"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/usecase/letter"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/usecase/mission"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/usecase/slot"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/memory"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/metrics"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/random"
	timeadapter "github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/time"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSelector records how often selection ran
type countingSelector struct {
	inner usecase.SlotSelector
	calls atomic.Int64
}

func (s *countingSelector) Select(slots []*entity.RouletteSlot) (*entity.RouletteSlot, error) {
	s.calls.Add(1)
	return s.inner.Select(slots)
}

type engine struct {
	uow        persistence.UnitOfWork
	clock      *timeadapter.ManualTimeProvider
	selector   *countingSelector
	controller usecase.SpinUseCase
	missions   usecase.MissionUseCase
	letters    *letter.Ledger
}

func newEngine(t *testing.T, missionConfig mission.Config) *engine {
	t.Helper()

	clock := timeadapter.NewManualTimeProvider(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	log := logger.NewNoopLogger()
	noop := metrics.NewNoop()
	store := memory.NewStore(clock, log, 2*time.Second)
	uow := memory.NewUnitOfWork(store)
	rng := random.NewSeededSource(11, 13)
	exec := ledger.NewExecutor(uow, log, clock, rng, noop, ledger.DefaultRetryConfig())

	letters := letter.NewLedger(uow, exec, log, clock, noop)
	selector := &countingSelector{inner: slot.NewSelector(rng)}

	return &engine{
		uow:        uow,
		clock:      clock,
		selector:   selector,
		controller: NewController(uow, exec, selector, letters, log, clock, noop),
		missions:   mission.NewEvaluator(uow, exec, log, clock, noop, missionConfig),
		letters:    letters,
	}
}

func (e *engine) addSlot(t *testing.T, slotType entity.SlotType, value string, weight int64) *entity.RouletteSlot {
	t.Helper()
	s := &entity.RouletteSlot{Type: slotType, Value: value, Weight: weight, Active: true}
	require.NoError(t, e.uow.GetSlotRepository(context.Background()).Create(context.Background(), s))
	return s
}

func (e *engine) grantSpins(t *testing.T, userID uint64, spins int64) {
	t.Helper()
	require.NoError(t, e.uow.GetUserRepository(context.Background()).AddSpins(context.Background(), userID, spins))
}

func (e *engine) user(t *testing.T, userID uint64) *entity.User {
	t.Helper()
	user, err := e.uow.GetUserRepository(context.Background()).GetOrCreate(context.Background(), userID)
	require.NoError(t, err)
	return user
}

func (e *engine) logs(t *testing.T, userID uint64) []*entity.TransactionLog {
	t.Helper()
	rows, err := e.uow.GetTransactionLogRepository(context.Background()).ListByUser(context.Background(), userID, 1000, 0)
	require.NoError(t, err)
	return rows
}

func TestConsumeSpin_DepositThenCashWin(t *testing.T) {
	e := newEngine(t, mission.Config{FirstDepositSpins: 0, DailyLoginWindow: 24 * time.Hour})

	require.NoError(t, e.uow.GetMissionRepository(context.Background()).CreateDepositMission(context.Background(), &entity.DepositMission{
		Name:         "Deposit 500",
		MinAmount:    decimal.RequireFromString("500"),
		SpinsGranted: 2,
		MaxClaims:    5,
		Active:       true,
	}))
	e.addSlot(t, entity.SlotCash, "10.00", 1)

	evaluation, err := e.missions.EvaluateDeposit(context.Background(), 1, "500", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), evaluation.AvailableSpins)
	logsAfterDeposit := len(e.logs(t, 1))

	outcome, err := e.controller.ConsumeSpin(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, entity.SlotCash, outcome.Type)
	require.NotNil(t, outcome.CashWon)
	assert.Equal(t, "10.00", *outcome.CashWon)
	assert.Nil(t, outcome.LetterWon)
	assert.Equal(t, int64(1), outcome.RemainingSpins)
	assert.Equal(t, "10.00", outcome.CashBalance)

	user := e.user(t, 1)
	assert.Equal(t, int64(1), user.AvailableSpins)
	assert.Equal(t, "10.00", user.GetCashBalance())

	rows := e.logs(t, 1)
	require.Len(t, rows, logsAfterDeposit+2)
	// newest first
	assert.Equal(t, entity.TxRouletteWin, rows[0].Type)
	assert.Equal(t, "10.00", rows[0].AmountString())
	assert.Equal(t, entity.TxSpinConsumed, rows[1].Type)
	assert.Equal(t, int64(-1), rows[1].SpinsDelta)
	assert.Nil(t, rows[1].Amount)
}

func TestConsumeSpin_LetterWin(t *testing.T) {
	e := newEngine(t, mission.DefaultConfig())
	e.addSlot(t, entity.SlotLetter, "h", 5)
	e.grantSpins(t, 2, 2)

	outcome, err := e.controller.ConsumeSpin(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, entity.SlotLetter, outcome.Type)
	require.NotNil(t, outcome.LetterWon)
	assert.Equal(t, "H", *outcome.LetterWon)
	assert.Nil(t, outcome.CashWon)
	assert.Equal(t, "0.00", outcome.CashBalance)

	collection, err := e.letters.GetLetterCollection(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"H": 1}, collection)

	var types []entity.TransactionType
	for _, row := range e.logs(t, 2) {
		types = append(types, row.Type)
	}
	assert.Equal(t, []entity.TransactionType{entity.TxRouletteSpin, entity.TxLetterCollected, entity.TxSpinConsumed}, types)
}

func TestConsumeSpin_NoSpins(t *testing.T) {
	e := newEngine(t, mission.DefaultConfig())
	e.addSlot(t, entity.SlotCash, "5", 1)

	_, err := e.controller.ConsumeSpin(context.Background(), 3)
	require.ErrorIs(t, err, errs.ErrInsufficientSpins)

	var spinsErr *errs.InsufficientSpinsError
	assert.True(t, errors.As(err, &spinsErr))

	assert.Zero(t, e.selector.calls.Load())
	user := e.user(t, 3)
	assert.Zero(t, user.AvailableSpins)
	assert.Equal(t, "0.00", user.GetCashBalance())
	assert.Empty(t, e.logs(t, 3))
}

func TestConsumeSpin_NoActiveSlotsRestoresSpin(t *testing.T) {
	e := newEngine(t, mission.DefaultConfig())
	inactive := e.addSlot(t, entity.SlotCash, "5", 1)
	require.NoError(t, e.uow.GetSlotRepository(context.Background()).SetActive(context.Background(), inactive.ID, false))
	e.grantSpins(t, 4, 1)

	_, err := e.controller.ConsumeSpin(context.Background(), 4)
	require.ErrorIs(t, err, errs.ErrNoActiveSlots)

	assert.Equal(t, int64(1), e.user(t, 4).AvailableSpins)
	assert.Empty(t, e.logs(t, 4))
}

func TestConsumeSpin_InvalidUser(t *testing.T) {
	e := newEngine(t, mission.DefaultConfig())
	_, err := e.controller.ConsumeSpin(context.Background(), 0)
	assert.ErrorIs(t, err, errs.ErrInvalidUserID)
}

func TestConsumeSpin_ConcurrentSpinsNeverOverspend(t *testing.T) {
	const (
		attempts  = 20
		available = 5
	)

	e := newEngine(t, mission.DefaultConfig())
	e.addSlot(t, entity.SlotCash, "1.25", 3)
	e.addSlot(t, entity.SlotLetter, "A", 1)
	e.grantSpins(t, 5, available)

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int64
		rejected  atomic.Int64
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.controller.ConsumeSpin(context.Background(), 5)
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, errs.ErrInsufficientSpins):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(available), succeeded.Load())
	assert.Equal(t, int64(attempts-available), rejected.Load())
	assert.Zero(t, e.user(t, 5).AvailableSpins)

	consumed := 0
	for _, row := range e.logs(t, 5) {
		if row.Type == entity.TxSpinConsumed {
			consumed++
		}
	}
	assert.Equal(t, available, consumed)
}
