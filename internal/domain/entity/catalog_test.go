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

func TestRouletteSlotValidate(t *testing.T) {
	tests := []struct {
		name string
		slot RouletteSlot
		ok   bool
	}{
		{"cash", RouletteSlot{Type: SlotCash, Value: "10.00", Weight: 5}, true},
		{"letter lower case", RouletteSlot{Type: SlotLetter, Value: "h", Weight: 1}, true},
		{"zero weight", RouletteSlot{Type: SlotCash, Value: "10.00", Weight: 0}, false},
		{"zero cash", RouletteSlot{Type: SlotCash, Value: "0", Weight: 1}, false},
		{"two letters", RouletteSlot{Type: SlotLetter, Value: "AB", Weight: 1}, false},
		{"digit letter", RouletteSlot{Type: SlotLetter, Value: "1", Weight: 1}, false},
		{"unknown type", RouletteSlot{Type: "BONUS", Value: "1", Weight: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.slot.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, errs.ErrInvalidSlot)
			}
		})
	}

	letter, err := (&RouletteSlot{Type: SlotLetter, Value: " y "}).LetterValue()
	require.NoError(t, err)
	assert.Equal(t, "Y", letter)

	_, err = (&RouletteSlot{Type: SlotLetter, Value: "Y"}).CashValue()
	assert.ErrorIs(t, err, errs.ErrInvalidSlot)
}

func TestDepositMission(t *testing.T) {
	maxAmount := decimal.RequireFromString("500.00")
	m := &DepositMission{
		Name:         "Mid",
		MinAmount:    decimal.RequireFromString("100.00"),
		MaxAmount:    &maxAmount,
		SpinsGranted: 2,
		MaxClaims:    5,
	}
	require.NoError(t, m.Validate())

	assert.False(t, m.Matches(decimal.RequireFromString("99.99")))
	assert.True(t, m.Matches(decimal.RequireFromString("100.00")))
	assert.True(t, m.Matches(decimal.RequireFromString("500.00")))
	assert.False(t, m.Matches(decimal.RequireFromString("500.01")))

	m.MaxAmount = nil
	assert.True(t, m.Matches(decimal.RequireFromString("1000000")))

	below := decimal.RequireFromString("50")
	m.MaxAmount = &below
	assert.ErrorIs(t, m.Validate(), errs.ErrInvalidMission)

	assert.ErrorIs(t, (&DailyLoginMission{Name: "Daily"}).Validate(), errs.ErrInvalidMission)
	assert.NoError(t, (&DailyLoginMission{Name: "Daily", SpinsGranted: 1}).Validate())
}

func TestTransactionLog(t *testing.T) {
	clock := coremocks.NewMockTimeProvider(t)
	clock.On("Now").Return(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)).Maybe()
	amount := decimal.RequireFromString("10")

	row, err := NewTransactionLog(1, TxRouletteWin, &amount, 0, "win", clock)
	require.NoError(t, err)
	assert.Equal(t, "10.00", row.AmountString())
	assert.Nil(t, row.WithReference("").Reference)
	assert.Equal(t, "r-1", *row.WithReference("r-1").Reference)

	_, err = NewTransactionLog(1, TxSpinConsumed, &amount, -1, "spin", clock)
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)

	_, err = NewTransactionLog(1, "BOGUS", nil, 0, "", clock)
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)

	_, err = NewTransactionLog(0, TxDeposit, nil, 0, "", clock)
	assert.ErrorIs(t, err, errs.ErrInvalidUserID)
}
