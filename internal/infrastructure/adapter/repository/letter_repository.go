package repository

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LetterRepository implements persistence.LetterRepository using GORM
type LetterRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewLetterRepository creates a new LetterRepository instance
func NewLetterRepository(db *gorm.DB, logger coreport.Logger) *LetterRepository {
	return &LetterRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func wordToEntity(m *model.LetterWord) *entity.LetterWord {
	return &entity.LetterWord{
		ID:              m.ID,
		Word:            m.Word,
		RawRequirements: append([]byte(nil), m.RequiredLetters...),
		RewardAmount:    m.RewardAmount,
		Active:          m.Active,
	}
}

func (r *LetterRepository) fail(operation string, err error, userID uint64) error {
	r.logger.Error("Database error on letters", map[string]any{
		"operation": operation,
		"user_id":   userID,
		"error":     err.Error(),
	})
	return r.errorClassifier.Map(err, userID, operation)
}

const incrementLetterSQL = `
INSERT INTO letter_collections (user_id, letter, count)
VALUES (?, ?, 1)
ON CONFLICT (user_id, letter) DO UPDATE SET count = letter_collections.count + 1
RETURNING count`

// Increment adds one to the (user, letter) count, creating the row at 1 when absent
func (r *LetterRepository) Increment(ctx context.Context, userID uint64, letter string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Raw(incrementLetterSQL, userID, letter).Scan(&count).Error; err != nil {
		return 0, r.fail("increment_letter", err, userID)
	}
	return count, nil
}

// DecrementIfEnough subtracts n from the (user, letter) count if the count is at least n
func (r *LetterRepository) DecrementIfEnough(ctx context.Context, userID uint64, letter string, n int64) (bool, error) {
	if n <= 0 {
		return false, errs.ErrInvalidRequest
	}

	result := r.db.WithContext(ctx).
		Model(&model.LetterCollection{}).
		Where("user_id = ? AND letter = ?", userID, letter).
		Where("count >= ?", n).
		Update("count", gorm.Expr("count - ?", n))
	if result.Error != nil {
		return false, r.fail("decrement_letter", result.Error, userID)
	}
	return result.RowsAffected == 1, nil
}

// GetCollection returns the user's letter counts keyed by letter
func (r *LetterRepository) GetCollection(ctx context.Context, userID uint64) (map[string]int64, error) {
	var rows []model.LetterCollection
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, r.fail("get_collection", err, userID)
	}

	collection := make(map[string]int64, len(rows))
	for _, row := range rows {
		collection[row.Letter] = row.Count
	}
	return collection, nil
}

// GetWord returns a word by ID
func (r *LetterRepository) GetWord(ctx context.Context, id uint64) (*entity.LetterWord, error) {
	var row model.LetterWord
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrWordNotFound
		}
		return nil, r.fail("get_word", err, 0)
	}
	return wordToEntity(&row), nil
}

// ListWords returns words ordered by ID, optionally only active ones
func (r *LetterRepository) ListWords(ctx context.Context, activeOnly bool) ([]*entity.LetterWord, error) {
	query := r.db.WithContext(ctx).Order("id ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var rows []model.LetterWord
	if err := query.Find(&rows).Error; err != nil {
		return nil, r.fail("list_words", err, 0)
	}

	words := make([]*entity.LetterWord, 0, len(rows))
	for i := range rows {
		words = append(words, wordToEntity(&rows[i]))
	}
	return words, nil
}

// CreateWord stores a new word and assigns its ID
func (r *LetterRepository) CreateWord(ctx context.Context, word *entity.LetterWord) error {
	row := model.LetterWord{
		Word:            word.Word,
		RequiredLetters: datatypes.JSON(word.RawRequirements),
		RewardAmount:    word.RewardAmount,
		Active:          word.Active,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.fail("create_word", err, 0)
	}
	word.ID = row.ID
	return nil
}

// SetWordActive toggles a word
func (r *LetterRepository) SetWordActive(ctx context.Context, id uint64, active bool) error {
	result := r.db.WithContext(ctx).Model(&model.LetterWord{}).Where("id = ?", id).Update("active", active)
	if result.Error != nil {
		return r.fail("set_word_active", result.Error, 0)
	}
	if result.RowsAffected == 0 {
		return errs.ErrWordNotFound
	}
	return nil
}
