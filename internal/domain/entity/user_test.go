package entity

import (
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	coremocks "github.com/amirhossein-jamali/spin-rewards/mocks/port/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	fixedTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	mockTime := coremocks.NewMockTimeProvider(t)
	mockTime.On("Now").Return(fixedTime).Maybe()

	t.Run("Valid user creation", func(t *testing.T) {
		user, err := NewUser(1, mockTime)

		require.NoError(t, err)
		assert.Equal(t, uint64(1), user.ID)
		assert.Equal(t, "0.00", user.GetCashBalance())
		assert.Equal(t, int64(0), user.AvailableSpins)
		assert.False(t, user.FirstDepositBonusUsed)
		assert.Nil(t, user.LastDailyLogin)
		assert.Equal(t, fixedTime, user.CreatedAt)
		assert.Equal(t, fixedTime, user.UpdatedAt)
	})

	t.Run("Zero ID should return error", func(t *testing.T) {
		user, err := NewUser(0, mockTime)

		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
		assert.Nil(t, user)
	})
}

func TestUserDailyLogin(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	user := &User{ID: 1}

	assert.True(t, user.DailyLoginDue(now, 24*time.Hour))
	assert.Nil(t, user.NextDailyLogin(24*time.Hour))

	last := now.Add(-23 * time.Hour)
	user.LastDailyLogin = &last
	assert.False(t, user.DailyLoginDue(now, 24*time.Hour))
	assert.Equal(t, last.Add(24*time.Hour), *user.NextDailyLogin(24*time.Hour))

	assert.True(t, user.DailyLoginDue(now.Add(time.Hour), 24*time.Hour), "exactly one window later is due")
}

func TestUserClone(t *testing.T) {
	login := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	user := &User{ID: 3, CashBalance: decimal.RequireFromString("4.50"), AvailableSpins: 2, LastDailyLogin: &login}

	clone := user.Clone()
	*clone.LastDailyLogin = login.Add(time.Hour)
	clone.AvailableSpins = 0

	assert.Equal(t, login, *user.LastDailyLogin)
	assert.Equal(t, int64(2), user.AvailableSpins)
	assert.True(t, user.HasSpins())
	assert.False(t, clone.HasSpins())
}

func TestParseAmount(t *testing.T) {
	valid := map[string]string{
		"0":         "0.00",
		"10":        "10.00",
		"10.5":      "10.50",
		"10.":       "10.00",
		" 99.99 ":   "99.99",
		"500.00":    "500.00",
		"123456.01": "123456.01",
	}
	for in, want := range valid {
		t.Run(in, func(t *testing.T) {
			got, err := ParseAmount(in)
			require.NoError(t, err)
			assert.Equal(t, want, FormatAmount(got))
		})
	}

	invalid := []struct {
		in   string
		want error
	}{
		{"", errs.ErrInvalidAmount},
		{"abc", errs.ErrInvalidAmount},
		{"1.234", errs.ErrInvalidAmount},
		{"1e3", errs.ErrInvalidAmount},
		{"$10", errs.ErrInvalidAmount},
		{"1,000.00", errs.ErrInvalidAmount},
		{".5", errs.ErrInvalidAmount},
		{"-1.00", errs.ErrNegativeAmount},
	}
	for _, tc := range invalid {
		t.Run("invalid "+tc.in, func(t *testing.T) {
			_, err := ParseAmount(tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err := ParsePositiveAmount("0.00")
	assert.ErrorIs(t, err, errs.ErrInvalidAmount)
}
