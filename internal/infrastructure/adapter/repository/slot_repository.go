package repository

import (
	"context"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// SlotRepository implements persistence.SlotRepository using GORM
type SlotRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewSlotRepository creates a new SlotRepository instance
func NewSlotRepository(db *gorm.DB, logger coreport.Logger) *SlotRepository {
	return &SlotRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *SlotRepository) list(ctx context.Context, activeOnly bool) ([]*entity.RouletteSlot, error) {
	query := r.db.WithContext(ctx).Order("id ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var rows []model.RouletteSlot
	if err := query.Find(&rows).Error; err != nil {
		r.logger.Error("Failed to list roulette slots", map[string]any{"error": err.Error()})
		return nil, r.errorClassifier.Map(err, 0, "list_slots")
	}

	slots := make([]*entity.RouletteSlot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, &entity.RouletteSlot{
			ID:     row.ID,
			Type:   entity.SlotType(row.Type),
			Value:  row.Value,
			Weight: row.Weight,
			Active: row.Active,
		})
	}
	return slots, nil
}

// ListActive returns active slots ordered by ID ascending
func (r *SlotRepository) ListActive(ctx context.Context) ([]*entity.RouletteSlot, error) {
	return r.list(ctx, true)
}

// List returns every slot ordered by ID ascending
func (r *SlotRepository) List(ctx context.Context) ([]*entity.RouletteSlot, error) {
	return r.list(ctx, false)
}

// Create stores a new slot and assigns its ID
func (r *SlotRepository) Create(ctx context.Context, slot *entity.RouletteSlot) error {
	row := model.RouletteSlot{
		Type:   string(slot.Type),
		Value:  slot.Value,
		Weight: slot.Weight,
		Active: slot.Active,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		r.logger.Error("Failed to create roulette slot", map[string]any{"error": err.Error()})
		return r.errorClassifier.Map(err, 0, "create_slot")
	}
	slot.ID = row.ID
	return nil
}

// SetActive toggles a slot
func (r *SlotRepository) SetActive(ctx context.Context, id uint64, active bool) error {
	result := r.db.WithContext(ctx).Model(&model.RouletteSlot{}).Where("id = ?", id).Update("active", active)
	if result.Error != nil {
		return r.errorClassifier.Map(result.Error, 0, "set_slot_active")
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}
