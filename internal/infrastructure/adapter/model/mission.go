package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositMission represents the database model for deposit missions
type DepositMission struct {
	ID           uint64              `gorm:"primaryKey;autoIncrement"`
	Name         string              `gorm:"size:100;not null"`
	MinAmount    decimal.Decimal     `gorm:"type:numeric(18,2);not null;check:chk_deposit_missions_min_amount,min_amount >= 0"`
	MaxAmount    decimal.NullDecimal `gorm:"type:numeric(18,2)"`
	SpinsGranted int64               `gorm:"not null;check:chk_deposit_missions_spins_granted,spins_granted > 0"`
	MaxClaims    int64               `gorm:"not null;check:chk_deposit_missions_max_claims,max_claims > 0"`
	Active       bool                `gorm:"not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for DepositMission
func (DepositMission) TableName() string {
	return "deposit_missions"
}

// DailyLoginMission represents the database model for daily login missions
type DailyLoginMission struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"size:100;not null"`
	SpinsGranted int64  `gorm:"not null;check:chk_daily_login_missions_spins_granted,spins_granted > 0"`
	Active       bool   `gorm:"not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for DailyLoginMission
func (DailyLoginMission) TableName() string {
	return "daily_login_missions"
}

// UserMissionProgress represents a user's claim counter on one deposit mission
type UserMissionProgress struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement"`
	UserID        uint64 `gorm:"not null;uniqueIndex:idx_user_mission_progress_user_mission"`
	MissionID     uint64 `gorm:"not null;uniqueIndex:idx_user_mission_progress_user_mission"`
	ClaimsUsed    int64  `gorm:"not null;default:0;check:chk_user_mission_progress_claims_used,claims_used >= 0"`
	LastClaimDate *time.Time

	User    User           `gorm:"foreignKey:UserID;references:ID"`
	Mission DepositMission `gorm:"foreignKey:MissionID;references:ID"`
}

// TableName specifies the table name for UserMissionProgress
func (UserMissionProgress) TableName() string {
	return "user_mission_progress"
}
