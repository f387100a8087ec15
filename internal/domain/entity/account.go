package entity

import "time"

// AccountSummary is the read model of a user's reward account
type AccountSummary struct {
	UserID                uint64     `json:"userId"`
	CashBalance           string     `json:"cashBalance"`
	AvailableSpins        int64      `json:"availableSpins"`
	FirstDepositBonusUsed bool       `json:"firstDepositBonusUsed"`
	LastDailyLogin        *time.Time `json:"lastDailyLogin,omitempty"`
}

// UserToAccountSummary converts a User entity to its read model
func UserToAccountSummary(user *User) AccountSummary {
	return AccountSummary{
		UserID:                user.ID,
		CashBalance:           user.GetCashBalance(),
		AvailableSpins:        user.AvailableSpins,
		FirstDepositBonusUsed: user.FirstDepositBonusUsed,
		LastDailyLogin:        user.LastDailyLogin,
	}
}
