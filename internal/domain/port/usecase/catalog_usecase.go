package usecase

import (
	"context"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
)

// CatalogKind names a kind of configuration row
type CatalogKind string

// Catalog kinds
const (
	CatalogDepositMissions    CatalogKind = "deposit-missions"
	CatalogDailyLoginMissions CatalogKind = "daily-login-missions"
	CatalogSlots              CatalogKind = "slots"
	CatalogWords              CatalogKind = "words"
)

// DepositMissionInput describes a new deposit mission
type DepositMissionInput struct {
	Name         string  `json:"name" validate:"required,max=100"`
	MinAmount    string  `json:"minAmount" validate:"required"`
	MaxAmount    *string `json:"maxAmount,omitempty"`
	SpinsGranted int64   `json:"spinsGranted" validate:"required,gt=0"`
	MaxClaims    int64   `json:"maxClaims" validate:"required,gt=0"`
}

// DailyLoginMissionInput describes a new daily login mission
type DailyLoginMissionInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	SpinsGranted int64  `json:"spinsGranted" validate:"required,gt=0"`
}

// SlotInput describes a new roulette slot
type SlotInput struct {
	Type   string `json:"type" validate:"required,oneof=CASH LETTER"`
	Value  string `json:"value" validate:"required,max=20"`
	Weight int64  `json:"weight" validate:"required,gt=0"`
}

// WordInput describes a new letter word. Requirements default to the letters of Word.
type WordInput struct {
	Word            string           `json:"word" validate:"required,max=50"`
	RequiredLetters map[string]int64 `json:"requiredLetters,omitempty"`
	RewardAmount    string           `json:"rewardAmount" validate:"required"`
}

// CatalogSeed is the default configuration written on an empty store
type CatalogSeed struct {
	DepositMissions    []DepositMissionInput
	DailyLoginMissions []DailyLoginMissionInput
	Slots              []SlotInput
	Words              []WordInput
}

// CatalogUseCase validates and stores reward configuration
type CatalogUseCase interface {
	CreateDepositMission(ctx context.Context, in DepositMissionInput) (*entity.DepositMission, error)
	CreateDailyLoginMission(ctx context.Context, in DailyLoginMissionInput) (*entity.DailyLoginMission, error)
	CreateSlot(ctx context.Context, in SlotInput) (*entity.RouletteSlot, error)
	CreateWord(ctx context.Context, in WordInput) (*entity.LetterWord, error)

	// SetActive toggles one configuration row
	SetActive(ctx context.Context, kind CatalogKind, id uint64, active bool) error

	// SeedDefaults writes each kind of the seed only when the store holds no row of that kind
	SeedDefaults(ctx context.Context, seed CatalogSeed) error
}
