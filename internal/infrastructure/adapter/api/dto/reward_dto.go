package dto

import (
	"time"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
)

// DepositRequest reports a completed deposit
type DepositRequest struct {
	Amount    string `json:"amount" binding:"required"`
	Reference string `json:"reference" binding:"max=100"`
}

// LetterCollectionResponse lists a user's letter counts
type LetterCollectionResponse struct {
	UserID  uint64           `json:"userId"`
	Letters map[string]int64 `json:"letters"`
}

// TransactionLogResponse is one ledger row
type TransactionLogResponse struct {
	ID          uint64    `json:"id"`
	Type        string    `json:"type"`
	Amount      string    `json:"amount,omitempty"`
	SpinsDelta  int64     `json:"spinsDelta"`
	Description string    `json:"description"`
	Reference   string    `json:"reference,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TransactionListResponse is a page of a user's ledger rows, newest first
type TransactionListResponse struct {
	UserID       uint64                   `json:"userId"`
	Limit        int                      `json:"limit"`
	Offset       int                      `json:"offset"`
	Transactions []TransactionLogResponse `json:"transactions"`
}

// NewTransactionListResponse converts log rows for the API
func NewTransactionListResponse(userID uint64, limit, offset int, rows []*entity.TransactionLog) TransactionListResponse {
	out := TransactionListResponse{
		UserID:       userID,
		Limit:        limit,
		Offset:       offset,
		Transactions: make([]TransactionLogResponse, 0, len(rows)),
	}
	for _, row := range rows {
		item := TransactionLogResponse{
			ID:          row.ID,
			Type:        string(row.Type),
			Amount:      row.AmountString(),
			SpinsDelta:  row.SpinsDelta,
			Description: row.Description,
			CreatedAt:   row.CreatedAt,
		}
		if row.Reference != nil {
			item.Reference = *row.Reference
		}
		out.Transactions = append(out.Transactions, item)
	}
	return out
}
