package repository

import (
	"context"
	"errors"
	"time"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MissionRepository implements persistence.MissionRepository using GORM
type MissionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewMissionRepository creates a new MissionRepository instance
func NewMissionRepository(db *gorm.DB, logger coreport.Logger) *MissionRepository {
	return &MissionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func depositMissionToEntity(m *model.DepositMission) *entity.DepositMission {
	mission := &entity.DepositMission{
		ID:           m.ID,
		Name:         m.Name,
		MinAmount:    m.MinAmount,
		SpinsGranted: m.SpinsGranted,
		MaxClaims:    m.MaxClaims,
		Active:       m.Active,
	}
	if m.MaxAmount.Valid {
		upper := m.MaxAmount.Decimal
		mission.MaxAmount = &upper
	}
	return mission
}

func dailyLoginMissionToEntity(m *model.DailyLoginMission) *entity.DailyLoginMission {
	return &entity.DailyLoginMission{
		ID:           m.ID,
		Name:         m.Name,
		SpinsGranted: m.SpinsGranted,
		Active:       m.Active,
	}
}

func (r *MissionRepository) fail(operation string, err error, userID uint64) error {
	r.logger.Error("Database error on missions", map[string]any{
		"operation": operation,
		"user_id":   userID,
		"error":     err.Error(),
	})
	return r.errorClassifier.Map(err, userID, operation)
}

// ListActiveDepositMissionsFor returns active deposit missions whose range contains amount, ordered by ID
func (r *MissionRepository) ListActiveDepositMissionsFor(ctx context.Context, amount decimal.Decimal) ([]*entity.DepositMission, error) {
	var rows []model.DepositMission
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("min_amount <= ?", amount).
		Where("max_amount IS NULL OR max_amount >= ?", amount).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, r.fail("list_deposit_missions", err, 0)
	}

	missions := make([]*entity.DepositMission, 0, len(rows))
	for i := range rows {
		missions = append(missions, depositMissionToEntity(&rows[i]))
	}
	return missions, nil
}

// GetActiveDailyLoginMission returns the active daily login mission with the lowest ID
func (r *MissionRepository) GetActiveDailyLoginMission(ctx context.Context) (*entity.DailyLoginMission, error) {
	var row model.DailyLoginMission
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id ASC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrMissionNotConfigured
	}
	if err != nil {
		return nil, r.fail("get_daily_login_mission", err, 0)
	}
	return dailyLoginMissionToEntity(&row), nil
}

// EnsureProgress creates the (user, mission) progress row with zero claims when absent
func (r *MissionRepository) EnsureProgress(ctx context.Context, userID, missionID uint64) error {
	row := model.UserMissionProgress{UserID: userID, MissionID: missionID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "mission_id"}},
			DoNothing: true,
		}).
		Omit(clause.Associations).
		Create(&row).Error
	if err != nil {
		return r.fail("ensure_progress", err, userID)
	}
	return nil
}

// IncrementClaimIfBelow adds one claim and stamps claimedAt if claims used is below maxClaims
func (r *MissionRepository) IncrementClaimIfBelow(ctx context.Context, userID, missionID uint64, maxClaims int64, claimedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.UserMissionProgress{}).
		Where("user_id = ? AND mission_id = ?", userID, missionID).
		Where("claims_used < ?", maxClaims).
		Updates(map[string]any{
			"claims_used":     gorm.Expr("claims_used + 1"),
			"last_claim_date": claimedAt,
		})
	if result.Error != nil {
		return false, r.fail("increment_claim", result.Error, userID)
	}
	return result.RowsAffected == 1, nil
}

// GetProgress returns the (user, mission) progress row
func (r *MissionRepository) GetProgress(ctx context.Context, userID, missionID uint64) (*entity.UserMissionProgress, error) {
	var row model.UserMissionProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND mission_id = ?", userID, missionID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, r.fail("get_progress", err, userID)
	}
	return &entity.UserMissionProgress{
		UserID:        row.UserID,
		MissionID:     row.MissionID,
		ClaimsUsed:    row.ClaimsUsed,
		LastClaimDate: row.LastClaimDate,
	}, nil
}

// CreateDepositMission stores a new deposit mission and assigns its ID
func (r *MissionRepository) CreateDepositMission(ctx context.Context, mission *entity.DepositMission) error {
	row := model.DepositMission{
		Name:         mission.Name,
		MinAmount:    mission.MinAmount,
		SpinsGranted: mission.SpinsGranted,
		MaxClaims:    mission.MaxClaims,
		Active:       mission.Active,
	}
	if mission.MaxAmount != nil {
		row.MaxAmount = decimal.NewNullDecimal(*mission.MaxAmount)
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.fail("create_deposit_mission", err, 0)
	}
	mission.ID = row.ID
	return nil
}

// CreateDailyLoginMission stores a new daily login mission and assigns its ID
func (r *MissionRepository) CreateDailyLoginMission(ctx context.Context, mission *entity.DailyLoginMission) error {
	row := model.DailyLoginMission{
		Name:         mission.Name,
		SpinsGranted: mission.SpinsGranted,
		Active:       mission.Active,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.fail("create_daily_login_mission", err, 0)
	}
	mission.ID = row.ID
	return nil
}

func (r *MissionRepository) setActive(ctx context.Context, value any, id uint64, active bool, operation string) error {
	result := r.db.WithContext(ctx).Model(value).Where("id = ?", id).Update("active", active)
	if result.Error != nil {
		return r.fail(operation, result.Error, 0)
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// SetDepositMissionActive toggles a deposit mission
func (r *MissionRepository) SetDepositMissionActive(ctx context.Context, id uint64, active bool) error {
	return r.setActive(ctx, &model.DepositMission{}, id, active, "set_deposit_mission_active")
}

// SetDailyLoginMissionActive toggles a daily login mission
func (r *MissionRepository) SetDailyLoginMissionActive(ctx context.Context, id uint64, active bool) error {
	return r.setActive(ctx, &model.DailyLoginMission{}, id, active, "set_daily_login_mission_active")
}

// ListDepositMissions returns every deposit mission ordered by ID
func (r *MissionRepository) ListDepositMissions(ctx context.Context) ([]*entity.DepositMission, error) {
	var rows []model.DepositMission
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, r.fail("list_deposit_missions", err, 0)
	}
	missions := make([]*entity.DepositMission, 0, len(rows))
	for i := range rows {
		missions = append(missions, depositMissionToEntity(&rows[i]))
	}
	return missions, nil
}

// ListDailyLoginMissions returns every daily login mission ordered by ID
func (r *MissionRepository) ListDailyLoginMissions(ctx context.Context) ([]*entity.DailyLoginMission, error) {
	var rows []model.DailyLoginMission
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, r.fail("list_daily_login_missions", err, 0)
	}
	missions := make([]*entity.DailyLoginMission, 0, len(rows))
	for i := range rows {
		missions = append(missions, dailyLoginMissionToEntity(&rows[i]))
	}
	return missions, nil
}
