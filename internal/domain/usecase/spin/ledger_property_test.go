package spin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/usecase/mission"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestLedgerBalancesMatchLog runs random operation sequences and checks that
// the log explains both balances: signed amounts sum to the cash balance and
// spin deltas sum to the available spins.
func TestLedgerBalancesMatchLog(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		e := newEngine(t, mission.DefaultConfig())
		ctx := context.Background()

		missions := e.uow.GetMissionRepository(ctx)
		require.NoError(t, missions.CreateDepositMission(ctx, &entity.DepositMission{
			Name: "Tier", MinAmount: decimal.RequireFromString("20"), SpinsGranted: 2, MaxClaims: 3, Active: true,
		}))
		require.NoError(t, missions.CreateDailyLoginMission(ctx, &entity.DailyLoginMission{
			Name: "Daily", SpinsGranted: 1, Active: true,
		}))
		e.addSlot(t, entity.SlotCash, "0.50", 2)
		e.addSlot(t, entity.SlotCash, "3.25", 1)
		e.addSlot(t, entity.SlotLetter, "A", 2)
		e.addSlot(t, entity.SlotLetter, "B", 2)
		word := &entity.LetterWord{
			Word: "AB", RawRequirements: []byte(`{"A":1,"B":1}`), RewardAmount: decimal.RequireFromString("1.10"), Active: true,
		}
		require.NoError(t, e.uow.GetLetterRepository(ctx).CreateWord(ctx, word))

		const userID = 42
		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 3).Draw(rt, "op") {
			case 0:
				cents := rapid.Int64Range(1, 100000).Draw(rt, "cents")
				amount := entity.FormatAmount(decimal.New(cents, -2))
				if _, err := e.missions.EvaluateDeposit(ctx, userID, amount, ""); err != nil {
					rt.Fatalf("deposit %s: %v", amount, err)
				}
			case 1:
				e.clock.Advance(time.Duration(rapid.IntRange(0, 30).Draw(rt, "hours")) * time.Hour)
				if _, err := e.missions.EvaluateDailyLogin(ctx, userID); err != nil {
					rt.Fatalf("daily login: %v", err)
				}
			case 2:
				if _, err := e.controller.ConsumeSpin(ctx, userID); err != nil && !errors.Is(err, errs.ErrInsufficientSpins) {
					rt.Fatalf("spin: %v", err)
				}
			case 3:
				if _, err := e.letters.ClaimWord(ctx, userID, word.ID); err != nil && !errors.Is(err, errs.ErrInsufficientLetters) {
					rt.Fatalf("claim: %v", err)
				}
			}
		}

		user, err := e.uow.GetUserRepository(ctx).GetOrCreate(ctx, userID)
		if err != nil {
			rt.Fatalf("load user: %v", err)
		}
		if user.AvailableSpins < 0 || user.CashBalance.IsNegative() {
			rt.Fatalf("negative balance: spins=%d cash=%s", user.AvailableSpins, user.GetCashBalance())
		}

		sum, err := e.uow.GetTransactionLogRepository(ctx).SumAmountByUser(ctx, userID)
		if err != nil {
			rt.Fatalf("sum: %v", err)
		}
		if !sum.Equal(user.CashBalance) {
			rt.Fatalf("log sum %s != cash balance %s", entity.FormatAmount(sum), user.GetCashBalance())
		}

		var spins int64
		for _, row := range e.logs(t, userID) {
			spins += row.SpinsDelta
		}
		if spins != user.AvailableSpins {
			rt.Fatalf("log spin deltas %d != available spins %d", spins, user.AvailableSpins)
		}
	})
}
