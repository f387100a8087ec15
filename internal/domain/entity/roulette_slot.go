package entity

import (
	"fmt"
	"strings"

	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	"github.com/shopspring/decimal"
)

// SlotType is the kind of prize a roulette slot pays
type SlotType string

// Slot types
const (
	SlotCash   SlotType = "CASH"
	SlotLetter SlotType = "LETTER"
)

// RouletteSlot is one weighted outcome on the wheel
type RouletteSlot struct {
	ID     uint64
	Type   SlotType
	Value  string // decimal amount for CASH, a single letter A-Z for LETTER
	Weight int64
	Active bool
}

// Validate checks the slot definition
func (s *RouletteSlot) Validate() error {
	if s.Weight <= 0 {
		return fmt.Errorf("%w: weight must be positive", errs.ErrInvalidSlot)
	}

	switch s.Type {
	case SlotCash:
		if _, err := s.CashValue(); err != nil {
			return err
		}
	case SlotLetter:
		if _, err := s.LetterValue(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown slot type %q", errs.ErrInvalidSlot, s.Type)
	}
	return nil
}

// CashValue parses the value of a CASH slot
func (s *RouletteSlot) CashValue() (decimal.Decimal, error) {
	if s.Type != SlotCash {
		return decimal.Zero, fmt.Errorf("%w: slot %d is not a cash slot", errs.ErrInvalidSlot, s.ID)
	}
	amount, err := ParsePositiveAmount(s.Value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: slot %d value %q: %v", errs.ErrInvalidSlot, s.ID, s.Value, err)
	}
	return amount, nil
}

// LetterValue returns the normalized letter of a LETTER slot
func (s *RouletteSlot) LetterValue() (string, error) {
	if s.Type != SlotLetter {
		return "", fmt.Errorf("%w: slot %d is not a letter slot", errs.ErrInvalidSlot, s.ID)
	}
	letter, ok := NormalizeLetter(s.Value)
	if !ok {
		return "", fmt.Errorf("%w: slot %d value %q is not a single letter", errs.ErrInvalidSlot, s.ID, s.Value)
	}
	return letter, nil
}

// Describe renders the slot for log descriptions
func (s *RouletteSlot) Describe() string {
	return fmt.Sprintf("%s:%s", s.Type, strings.TrimSpace(s.Value))
}

// SpinOutcome is the result of one consumed spin
type SpinOutcome struct {
	UserID         uint64   `json:"userId"`
	SlotID         uint64   `json:"slotId"`
	Type           SlotType `json:"type"`
	Value          string   `json:"value"`
	CashWon        *string  `json:"cashWon,omitempty"`
	LetterWon      *string  `json:"letterWon,omitempty"`
	RemainingSpins int64    `json:"remainingSpins"`
	CashBalance    string   `json:"cashBalance"`
}
