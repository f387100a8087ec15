package dto

import (
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
)

// SetActiveRequest toggles a catalog row
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// DepositMissionResponse is a stored deposit mission
type DepositMissionResponse struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	MinAmount    string  `json:"minAmount"`
	MaxAmount    *string `json:"maxAmount,omitempty"`
	SpinsGranted int64   `json:"spinsGranted"`
	MaxClaims    int64   `json:"maxClaims"`
	Active       bool    `json:"active"`
}

// NewDepositMissionResponse converts a deposit mission for the API
func NewDepositMissionResponse(m *entity.DepositMission) DepositMissionResponse {
	resp := DepositMissionResponse{
		ID:           m.ID,
		Name:         m.Name,
		MinAmount:    entity.FormatAmount(m.MinAmount),
		SpinsGranted: m.SpinsGranted,
		MaxClaims:    m.MaxClaims,
		Active:       m.Active,
	}
	if m.MaxAmount != nil {
		maxAmount := entity.FormatAmount(*m.MaxAmount)
		resp.MaxAmount = &maxAmount
	}
	return resp
}

// DailyLoginMissionResponse is a stored daily login mission
type DailyLoginMissionResponse struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	SpinsGranted int64  `json:"spinsGranted"`
	Active       bool   `json:"active"`
}

// SlotResponse is a stored roulette slot
type SlotResponse struct {
	ID     uint64 `json:"id"`
	Type   string `json:"type"`
	Value  string `json:"value"`
	Weight int64  `json:"weight"`
	Active bool   `json:"active"`
}

// WordResponse is a redeemable letter word
type WordResponse struct {
	ID              uint64           `json:"id"`
	Word            string           `json:"word"`
	RequiredLetters map[string]int64 `json:"requiredLetters"`
	RewardAmount    string           `json:"rewardAmount"`
	Active          bool             `json:"active"`
}

// NewWordResponse converts a word for the API. A malformed requirement set is
// rendered as an empty map.
func NewWordResponse(w *entity.LetterWord) WordResponse {
	required := map[string]int64{}
	if req, err := w.Requirements(); err == nil {
		required = req
	}
	return WordResponse{
		ID:              w.ID,
		Word:            w.Word,
		RequiredLetters: required,
		RewardAmount:    entity.FormatAmount(w.RewardAmount),
		Active:          w.Active,
	}
}
