package memory

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	"github.com/shopspring/decimal"
)

// MissionRepository implements persistence.MissionRepository in memory
type MissionRepository struct {
	session
}

func cloneDepositMission(m *entity.DepositMission) *entity.DepositMission {
	c := *m
	if m.MaxAmount != nil {
		upper := *m.MaxAmount
		c.MaxAmount = &upper
	}
	return &c
}

// ListActiveDepositMissionsFor returns active deposit missions whose range contains amount
func (r *MissionRepository) ListActiveDepositMissionsFor(ctx context.Context, amount decimal.Decimal) ([]*entity.DepositMission, error) {
	var missions []*entity.DepositMission
	err := r.read(ctx, func() error {
		for _, id := range sortedKeys(r.store.depositMissions) {
			mission := r.store.depositMissions[id]
			if mission.Active && mission.Matches(amount) {
				missions = append(missions, cloneDepositMission(mission))
			}
		}
		return nil
	})
	return missions, err
}

// GetActiveDailyLoginMission returns the active daily login mission with the lowest ID
func (r *MissionRepository) GetActiveDailyLoginMission(ctx context.Context) (*entity.DailyLoginMission, error) {
	var found *entity.DailyLoginMission
	err := r.read(ctx, func() error {
		for _, id := range sortedKeys(r.store.dailyMissions) {
			mission := r.store.dailyMissions[id]
			if mission.Active {
				c := *mission
				found = &c
				return nil
			}
		}
		return errs.ErrMissionNotConfigured
	})
	return found, err
}

// EnsureProgress creates the progress row with zero claims when absent
func (r *MissionRepository) EnsureProgress(ctx context.Context, userID, missionID uint64) error {
	return r.mutate(ctx, func(t *tx) error {
		key := progressKey{userID: userID, missionID: missionID}
		if _, ok := r.store.progress[key]; ok {
			return nil
		}
		r.store.progress[key] = &entity.UserMissionProgress{UserID: userID, MissionID: missionID}
		t.journal(func() { delete(r.store.progress, key) })
		return nil
	})
}

// IncrementClaimIfBelow adds one claim if claims used is below maxClaims
func (r *MissionRepository) IncrementClaimIfBelow(ctx context.Context, userID, missionID uint64, maxClaims int64, claimedAt time.Time) (bool, error) {
	applied := false
	err := r.mutate(ctx, func(t *tx) error {
		progress, ok := r.store.progress[progressKey{userID: userID, missionID: missionID}]
		if !ok {
			return errs.ErrNotFound
		}
		if progress.ClaimsUsed >= maxClaims {
			return nil
		}

		previous := *progress
		t.journal(func() { *progress = previous })

		stamp := claimedAt
		progress.ClaimsUsed++
		progress.LastClaimDate = &stamp
		applied = true
		return nil
	})
	return applied, err
}

// GetProgress returns the (user, mission) progress row
func (r *MissionRepository) GetProgress(ctx context.Context, userID, missionID uint64) (*entity.UserMissionProgress, error) {
	var found *entity.UserMissionProgress
	err := r.read(ctx, func() error {
		progress, ok := r.store.progress[progressKey{userID: userID, missionID: missionID}]
		if !ok {
			return errs.ErrNotFound
		}
		c := *progress
		found = &c
		return nil
	})
	return found, err
}

// CreateDepositMission stores a new deposit mission and assigns its ID
func (r *MissionRepository) CreateDepositMission(ctx context.Context, mission *entity.DepositMission) error {
	return r.mutate(ctx, func(t *tx) error {
		mission.ID = r.store.nextID("deposit_missions")
		id := mission.ID
		r.store.depositMissions[id] = cloneDepositMission(mission)
		t.journal(func() { delete(r.store.depositMissions, id) })
		return nil
	})
}

// CreateDailyLoginMission stores a new daily login mission and assigns its ID
func (r *MissionRepository) CreateDailyLoginMission(ctx context.Context, mission *entity.DailyLoginMission) error {
	return r.mutate(ctx, func(t *tx) error {
		mission.ID = r.store.nextID("daily_login_missions")
		id := mission.ID
		c := *mission
		r.store.dailyMissions[id] = &c
		t.journal(func() { delete(r.store.dailyMissions, id) })
		return nil
	})
}

// SetDepositMissionActive toggles a deposit mission
func (r *MissionRepository) SetDepositMissionActive(ctx context.Context, id uint64, active bool) error {
	return r.mutate(ctx, func(t *tx) error {
		mission, ok := r.store.depositMissions[id]
		if !ok {
			return errs.ErrNotFound
		}
		previous := mission.Active
		t.journal(func() { mission.Active = previous })
		mission.Active = active
		return nil
	})
}

// SetDailyLoginMissionActive toggles a daily login mission
func (r *MissionRepository) SetDailyLoginMissionActive(ctx context.Context, id uint64, active bool) error {
	return r.mutate(ctx, func(t *tx) error {
		mission, ok := r.store.dailyMissions[id]
		if !ok {
			return errs.ErrNotFound
		}
		previous := mission.Active
		t.journal(func() { mission.Active = previous })
		mission.Active = active
		return nil
	})
}

// ListDepositMissions returns every deposit mission ordered by ID
func (r *MissionRepository) ListDepositMissions(ctx context.Context) ([]*entity.DepositMission, error) {
	var missions []*entity.DepositMission
	err := r.read(ctx, func() error {
		for _, id := range sortedKeys(r.store.depositMissions) {
			missions = append(missions, cloneDepositMission(r.store.depositMissions[id]))
		}
		return nil
	})
	return missions, err
}

// ListDailyLoginMissions returns every daily login mission ordered by ID
func (r *MissionRepository) ListDailyLoginMissions(ctx context.Context) ([]*entity.DailyLoginMission, error) {
	var missions []*entity.DailyLoginMission
	err := r.read(ctx, func() error {
		for _, id := range sortedKeys(r.store.dailyMissions) {
			c := *r.store.dailyMissions[id]
			missions = append(missions, &c)
		}
		return nil
	})
	return missions, err
}
