package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MissionRepository reads mission configuration and keeps per-user claim counters
type MissionRepository interface {
	// ListActiveDepositMissionsFor returns active deposit missions whose range contains amount, ordered by ID
	ListActiveDepositMissionsFor(ctx context.Context, amount decimal.Decimal) ([]*entity.DepositMission, error)

	// GetActiveDailyLoginMission returns the active daily login mission with the lowest ID
	//
	// Possible errors:
	// - ErrMissionNotConfigured: If no daily login mission is active
	GetActiveDailyLoginMission(ctx context.Context) (*entity.DailyLoginMission, error)

	// EnsureProgress creates the (user, mission) progress row with zero claims when absent
	EnsureProgress(ctx context.Context, userID, missionID uint64) error

	// IncrementClaimIfBelow adds one claim and stamps claimedAt if claims used is below maxClaims
	IncrementClaimIfBelow(ctx context.Context, userID, missionID uint64, maxClaims int64, claimedAt time.Time) (bool, error)

	// GetProgress returns the (user, mission) progress row
	//
	// Possible errors:
	// - ErrNotFound: If the user never attempted a claim on the mission
	GetProgress(ctx context.Context, userID, missionID uint64) (*entity.UserMissionProgress, error)

	// CreateDepositMission stores a new deposit mission and assigns its ID
	CreateDepositMission(ctx context.Context, mission *entity.DepositMission) error

	// CreateDailyLoginMission stores a new daily login mission and assigns its ID
	CreateDailyLoginMission(ctx context.Context, mission *entity.DailyLoginMission) error

	// SetDepositMissionActive toggles a deposit mission
	SetDepositMissionActive(ctx context.Context, id uint64, active bool) error

	// SetDailyLoginMissionActive toggles a daily login mission
	SetDailyLoginMissionActive(ctx context.Context, id uint64, active bool) error

	// ListDepositMissions returns every deposit mission ordered by ID
	ListDepositMissions(ctx context.Context) ([]*entity.DepositMission, error)

	// ListDailyLoginMissions returns every daily login mission ordered by ID
	ListDailyLoginMissions(ctx context.Context) ([]*entity.DailyLoginMission, error)
}
