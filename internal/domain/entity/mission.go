package entity

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	"github.com/shopspring/decimal"
)

// DepositMission grants spins for deposits whose amount falls in [MinAmount, MaxAmount].
// A nil MaxAmount leaves the range open at the top.
type DepositMission struct {
	ID           uint64
	Name         string
	MinAmount    decimal.Decimal
	MaxAmount    *decimal.Decimal
	SpinsGranted int64
	MaxClaims    int64
	Active       bool
}

// Validate checks the mission definition
func (m *DepositMission) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name is required", errs.ErrInvalidMission)
	}
	if m.MinAmount.IsNegative() {
		return fmt.Errorf("%w: min amount cannot be negative", errs.ErrInvalidMission)
	}
	if m.MaxAmount != nil && m.MaxAmount.LessThan(m.MinAmount) {
		return fmt.Errorf("%w: max amount %s is below min amount %s",
			errs.ErrInvalidMission, FormatAmount(*m.MaxAmount), FormatAmount(m.MinAmount))
	}
	if m.SpinsGranted <= 0 {
		return fmt.Errorf("%w: spins granted must be positive", errs.ErrInvalidMission)
	}
	if m.MaxClaims <= 0 {
		return fmt.Errorf("%w: max claims must be positive", errs.ErrInvalidMission)
	}
	return nil
}

// Matches reports whether amount lies in the mission's inclusive range
func (m *DepositMission) Matches(amount decimal.Decimal) bool {
	if amount.LessThan(m.MinAmount) {
		return false
	}
	return m.MaxAmount == nil || amount.LessThanOrEqual(*m.MaxAmount)
}

// DailyLoginMission grants spins at most once per login window
type DailyLoginMission struct {
	ID           uint64
	Name         string
	SpinsGranted int64
	Active       bool
}

// Validate checks the mission definition
func (m *DailyLoginMission) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name is required", errs.ErrInvalidMission)
	}
	if m.SpinsGranted <= 0 {
		return fmt.Errorf("%w: spins granted must be positive", errs.ErrInvalidMission)
	}
	return nil
}

// UserMissionProgress counts a user's claims against one deposit mission
type UserMissionProgress struct {
	UserID        uint64
	MissionID     uint64
	ClaimsUsed    int64
	LastClaimDate *time.Time
}

// GrantSource identifies why spins were granted
type GrantSource string

// Grant sources
const (
	GrantFirstDeposit   GrantSource = "first_deposit"
	GrantDepositMission GrantSource = "deposit_mission"
	GrantDailyLogin     GrantSource = "daily_login"
)

// MissionGrant is one application of spins to a user
type MissionGrant struct {
	Source       GrantSource `json:"source"`
	MissionID    uint64      `json:"missionId,omitempty"`
	MissionName  string      `json:"missionName,omitempty"`
	SpinsGranted int64       `json:"spinsGranted"`
	ClaimsUsed   int64       `json:"claimsUsed,omitempty"`
	MaxClaims    int64       `json:"maxClaims,omitempty"`
}

// DepositEvaluation is the result of evaluating one deposit
type DepositEvaluation struct {
	UserID         uint64         `json:"userId"`
	Amount         string         `json:"amount"`
	Reference      string         `json:"reference,omitempty"`
	Duplicate      bool           `json:"duplicate"`
	Grants         []MissionGrant `json:"grants"`
	AvailableSpins int64          `json:"availableSpins"`
}

// TotalSpins sums the spins granted by the evaluation
func (e *DepositEvaluation) TotalSpins() int64 {
	var total int64
	for _, g := range e.Grants {
		total += g.SpinsGranted
	}
	return total
}

// DailyLoginResult is the result of evaluating a daily login
type DailyLoginResult struct {
	UserID         uint64        `json:"userId"`
	Grant          *MissionGrant `json:"grant,omitempty"`
	AvailableSpins int64         `json:"availableSpins"`
	NextEligibleAt *time.Time    `json:"nextEligibleAt,omitempty"`
}

// Granted reports whether the login produced a grant
func (r *DailyLoginResult) Granted() bool {
	return r.Grant != nil
}
