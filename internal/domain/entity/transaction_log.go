package entity

import (
	"fmt"
	"time"

	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger log row
type TransactionType string

// Transaction types
const (
	TxDeposit            TransactionType = "DEPOSIT"
	TxRouletteWin        TransactionType = "ROULETTE_WIN"
	TxLetterBonus        TransactionType = "LETTER_BONUS"
	TxDailyLoginSpin     TransactionType = "DAILY_LOGIN_SPIN"
	TxFirstDepositSpin   TransactionType = "FIRST_DEPOSIT_SPIN"
	TxDepositMissionSpin TransactionType = "DEPOSIT_MISSION_SPIN"
	TxSpinConsumed       TransactionType = "SPIN_CONSUMED"
	TxLetterCollected    TransactionType = "LETTER_COLLECTED"
	TxRouletteSpin       TransactionType = "ROULETTE_SPIN"
)

// AllTransactionTypes lists every log row type
var AllTransactionTypes = []TransactionType{
	TxDeposit,
	TxRouletteWin,
	TxLetterBonus,
	TxDailyLoginSpin,
	TxFirstDepositSpin,
	TxDepositMissionSpin,
	TxSpinConsumed,
	TxLetterCollected,
	TxRouletteSpin,
}

// IsValid reports whether t is a known transaction type
func (t TransactionType) IsValid() bool {
	for _, known := range AllTransactionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// MovesCash reports whether rows of this type carry a cash amount
func (t TransactionType) MovesCash() bool {
	return t == TxRouletteWin || t == TxLetterBonus
}

// TransactionLog is an append-only audit row. Only cash-moving rows carry an
// Amount, so the sum of a user's amounts equals the user's cash balance.
type TransactionLog struct {
	ID          uint64
	UserID      uint64
	Type        TransactionType
	Amount      *decimal.Decimal
	SpinsDelta  int64
	Description string
	Reference   *string
	CreatedAt   time.Time
}

// NewTransactionLog builds a log row stamped with the current time
func NewTransactionLog(
	userID uint64,
	txType TransactionType,
	amount *decimal.Decimal,
	spinsDelta int64,
	description string,
	timeProvider coreport.TimeProvider,
) (*TransactionLog, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	if !txType.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", errs.ErrInvalidRequest, txType)
	}
	if amount != nil && !txType.MovesCash() {
		return nil, fmt.Errorf("%w: %s rows do not carry an amount", errs.ErrInvalidRequest, txType)
	}

	return &TransactionLog{
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		SpinsDelta:  spinsDelta,
		Description: description,
		CreatedAt:   timeProvider.Now(),
	}, nil
}

// WithReference attaches an external reference to the row
func (l *TransactionLog) WithReference(reference string) *TransactionLog {
	if reference != "" {
		l.Reference = &reference
	}
	return l
}

// AmountString returns the formatted amount, or an empty string when the row carries none
func (l *TransactionLog) AmountString() string {
	if l.Amount == nil {
		return ""
	}
	return FormatAmount(*l.Amount)
}
