package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents the database model for reward accounts
type User struct {
	ID                    uint64          `gorm:"primaryKey;autoIncrement:false"`
	CashBalance           decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0;check:chk_users_cash_balance,cash_balance >= 0"`
	AvailableSpins        int64           `gorm:"not null;default:0;check:chk_users_available_spins,available_spins >= 0"`
	FirstDepositBonusUsed bool            `gorm:"not null"`
	LastDailyLogin        *time.Time
	LastDailyMissionClaim *time.Time
	CreatedAt             time.Time `gorm:"not null"`
	UpdatedAt             time.Time `gorm:"not null"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
