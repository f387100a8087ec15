package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionLog represents the append-only audit log
type TransactionLog struct {
	ID          uint64              `gorm:"primaryKey;autoIncrement"`
	UserID      uint64              `gorm:"not null;index;uniqueIndex:idx_transaction_logs_user_reference,priority:1"`
	Type        string              `gorm:"size:30;not null;index;check:chk_transaction_logs_type,type IN ('DEPOSIT','ROULETTE_WIN','LETTER_BONUS','DAILY_LOGIN_SPIN','FIRST_DEPOSIT_SPIN','DEPOSIT_MISSION_SPIN','SPIN_CONSUMED','LETTER_COLLECTED','ROULETTE_SPIN')"`
	Amount      decimal.NullDecimal `gorm:"type:numeric(18,2)"`
	SpinsDelta  int64               `gorm:"not null;default:0"`
	Description string              `gorm:"type:text;not null"`
	Reference   *string             `gorm:"size:100;uniqueIndex:idx_transaction_logs_user_reference,priority:2"`
	CreatedAt   time.Time           `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for TransactionLog
func (TransactionLog) TableName() string {
	return "transaction_logs"
}
