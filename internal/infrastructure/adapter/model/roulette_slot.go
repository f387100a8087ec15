package model

import "time"

// RouletteSlot represents the database model for roulette slots
type RouletteSlot struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Type      string `gorm:"size:10;not null;check:chk_roulette_slots_type,type IN ('CASH','LETTER')"`
	Value     string `gorm:"size:20;not null"`
	Weight    int64  `gorm:"not null;check:chk_roulette_slots_weight,weight > 0"`
	Active    bool   `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for RouletteSlot
func (RouletteSlot) TableName() string {
	return "roulette_slots"
}
