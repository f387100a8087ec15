package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// LetterCollection is one user's count of one letter
type LetterCollection struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	UserID uint64 `gorm:"not null;uniqueIndex:idx_letter_collections_user_letter"`
	Letter string `gorm:"type:char(1);not null;uniqueIndex:idx_letter_collections_user_letter"`
	Count  int64  `gorm:"not null;default:0;check:chk_letter_collections_count,count >= 0"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for LetterCollection
func (LetterCollection) TableName() string {
	return "letter_collections"
}

// LetterWord represents a redeemable word and its letter requirements
type LetterWord struct {
	ID              uint64          `gorm:"primaryKey;autoIncrement"`
	Word            string          `gorm:"size:50;not null"`
	RequiredLetters datatypes.JSON  `gorm:"type:jsonb;not null"`
	RewardAmount    decimal.Decimal `gorm:"type:numeric(18,2);not null;check:chk_letter_words_reward_amount,reward_amount > 0"`
	Active          bool            `gorm:"not null;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the table name for LetterWord
func (LetterWord) TableName() string {
	return "letter_words"
}
