package entity

import (
	"time"

	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/shopspring/decimal"
)

// User is a player's reward account. It is provisioned with zero balances
// the first time any operation references its ID.
type User struct {
	ID                    uint64          // Externally issued identifier
	CashBalance           decimal.Decimal // Never negative
	AvailableSpins        int64           // Never negative
	FirstDepositBonusUsed bool            // Set once the first-deposit bonus has been granted
	LastDailyLogin        *time.Time      // Nil until the first daily login grant
	LastDailyMissionClaim *time.Time      // Nil until the first daily login grant
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewUser creates a zero-balance user with the given ID
func NewUser(id uint64, timeProvider coreport.TimeProvider) (*User, error) {
	if id == 0 {
		return nil, errs.ErrInvalidUserID
	}

	now := timeProvider.Now()
	return &User{
		ID:          id,
		CashBalance: decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// GetCashBalance returns the balance as a string with 2 decimal places
func (u *User) GetCashBalance() string {
	return FormatAmount(u.CashBalance)
}

// HasSpins reports whether the user can pay for one spin
func (u *User) HasSpins() bool {
	return u.AvailableSpins >= 1
}

// DailyLoginDue reports whether a daily login grant is allowed at now for the given window
func (u *User) DailyLoginDue(now time.Time, window time.Duration) bool {
	if u.LastDailyLogin == nil {
		return true
	}
	return now.Sub(*u.LastDailyLogin) >= window
}

// NextDailyLogin returns the earliest time the next daily login grant is allowed
func (u *User) NextDailyLogin(window time.Duration) *time.Time {
	if u.LastDailyLogin == nil {
		return nil
	}
	next := u.LastDailyLogin.Add(window)
	return &next
}

// Clone returns a copy that does not share timestamp pointers with u
func (u *User) Clone() *User {
	c := *u
	if u.LastDailyLogin != nil {
		t := *u.LastDailyLogin
		c.LastDailyLogin = &t
	}
	if u.LastDailyMissionClaim != nil {
		t := *u.LastDailyMissionClaim
		c.LastDailyMissionClaim = &t
	}
	return &c
}
