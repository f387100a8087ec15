package mission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/usecase"
)

// Config holds the reward rules that are not stored as catalog rows
type Config struct {
	FirstDepositSpins int64
	DailyLoginWindow  time.Duration
}

// DefaultConfig returns the default reward rules
func DefaultConfig() Config {
	return Config{
		FirstDepositSpins: 1,
		DailyLoginWindow:  24 * time.Hour,
	}
}

// Evaluator turns deposits and logins into spin grants
type Evaluator struct {
	uow          persistence.UnitOfWork
	executor     usecase.LedgerExecutor
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	metrics      coreport.Metrics
	config       Config
}

// NewEvaluator creates a mission evaluator
func NewEvaluator(
	uow persistence.UnitOfWork,
	executor usecase.LedgerExecutor,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
	metrics coreport.Metrics,
	config Config,
) usecase.MissionUseCase {
	if config.DailyLoginWindow <= 0 {
		config.DailyLoginWindow = DefaultConfig().DailyLoginWindow
	}
	if config.FirstDepositSpins < 0 {
		config.FirstDepositSpins = 0
	}

	return &Evaluator{
		uow:          uow,
		executor:     executor,
		logger:       logger,
		timeProvider: timeProvider,
		metrics:      metrics,
		config:       config,
	}
}

// EvaluateDeposit records the deposit, applies the first-deposit bonus once per
// user and claims every matching deposit mission that has claims left.
func (e *Evaluator) EvaluateDeposit(ctx context.Context, userID uint64, amount string, reference string) (*entity.DepositEvaluation, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	value, err := entity.ParsePositiveAmount(amount)
	if err != nil {
		return nil, err
	}
	reference = strings.TrimSpace(reference)

	result := &entity.DepositEvaluation{
		UserID:    userID,
		Amount:    entity.FormatAmount(value),
		Reference: reference,
	}

	err = e.executor.Run(ctx, userID, "evaluate_deposit", func(txCtx context.Context, user *entity.User) error {
		result.Grants = []entity.MissionGrant{}
		result.Duplicate = false

		logs := e.uow.GetTransactionLogRepository(txCtx)
		if reference != "" {
			exists, err := logs.ExistsByReference(txCtx, userID, entity.TxDeposit, reference)
			if err != nil {
				return fmt.Errorf("failed to check deposit reference: %w", err)
			}
			if exists {
				result.Duplicate = true
				result.AvailableSpins = user.AvailableSpins
				return nil
			}
		}

		depositLog, err := entity.NewTransactionLog(userID, entity.TxDeposit, nil, 0,
			fmt.Sprintf("Deposit of %s", result.Amount), e.timeProvider)
		if err != nil {
			return err
		}
		if err := logs.Append(txCtx, depositLog.WithReference(reference)); err != nil {
			return fmt.Errorf("failed to log deposit: %w", err)
		}

		spins := user.AvailableSpins

		if !user.FirstDepositBonusUsed {
			granted, err := e.applyFirstDepositBonus(txCtx, userID)
			if err != nil {
				return err
			}
			if granted != nil {
				spins += granted.SpinsGranted
				if granted.SpinsGranted > 0 {
					result.Grants = append(result.Grants, *granted)
				}
			}
		}

		missions, err := e.uow.GetMissionRepository(txCtx).ListActiveDepositMissionsFor(txCtx, value)
		if err != nil {
			return fmt.Errorf("failed to load deposit missions: %w", err)
		}

		for _, mission := range missions {
			grant, err := e.claimDepositMission(txCtx, userID, mission, result.Amount)
			if errors.Is(err, errs.ErrMissionExhausted) {
				continue
			}
			if err != nil {
				return err
			}
			spins += grant.SpinsGranted
			result.Grants = append(result.Grants, *grant)
		}

		result.AvailableSpins = spins
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Duplicate {
		e.logger.Info("Duplicate deposit ignored", map[string]any{
			"user_id":   userID,
			"reference": reference,
		})
		return result, nil
	}

	for _, grant := range result.Grants {
		e.metrics.SpinsGranted(string(grant.Source), grant.SpinsGranted)
	}
	e.logger.Info("Deposit evaluated", map[string]any{
		"user_id":         userID,
		"amount":          result.Amount,
		"reference":       reference,
		"grants":          len(result.Grants),
		"spins_granted":   result.TotalSpins(),
		"available_spins": result.AvailableSpins,
	})

	return result, nil
}

// applyFirstDepositBonus sets the first-deposit flag and credits the bonus.
// Returns nil when another unit already used the bonus.
func (e *Evaluator) applyFirstDepositBonus(ctx context.Context, userID uint64) (*entity.MissionGrant, error) {
	spins := e.config.FirstDepositSpins
	applied, err := e.uow.GetUserRepository(ctx).ClaimFirstDepositBonus(ctx, userID, spins)
	if err != nil {
		return nil, fmt.Errorf("failed to apply first deposit bonus: %w", err)
	}
	if !applied {
		return nil, nil
	}

	bonusLog, err := entity.NewTransactionLog(userID, entity.TxFirstDepositSpin, nil, spins,
		fmt.Sprintf("First deposit bonus: %d spins", spins), e.timeProvider)
	if err != nil {
		return nil, err
	}
	if err := e.uow.GetTransactionLogRepository(ctx).Append(ctx, bonusLog); err != nil {
		return nil, fmt.Errorf("failed to log first deposit bonus: %w", err)
	}

	return &entity.MissionGrant{
		Source:       entity.GrantFirstDeposit,
		SpinsGranted: spins,
	}, nil
}

// claimDepositMission is a compare-and-increment on the user's claim counter.
// An exhausted mission returns a MissionExhaustedError and changes nothing.
func (e *Evaluator) claimDepositMission(ctx context.Context, userID uint64, mission *entity.DepositMission, amount string) (*entity.MissionGrant, error) {
	missions := e.uow.GetMissionRepository(ctx)

	if err := missions.EnsureProgress(ctx, userID, mission.ID); err != nil {
		return nil, fmt.Errorf("failed to create mission progress: %w", err)
	}

	claimed, err := missions.IncrementClaimIfBelow(ctx, userID, mission.ID, mission.MaxClaims, e.timeProvider.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to claim mission %d: %w", mission.ID, err)
	}

	progress, err := missions.GetProgress(ctx, userID, mission.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read mission progress: %w", err)
	}

	if !claimed {
		exhausted := &errs.MissionExhaustedError{
			UserID:     userID,
			MissionID:  mission.ID,
			ClaimsUsed: progress.ClaimsUsed,
			MaxClaims:  mission.MaxClaims,
		}
		e.logger.Debug("Deposit mission exhausted, skipping", exhausted.LogFields())
		return nil, exhausted
	}

	if err := e.uow.GetUserRepository(ctx).AddSpins(ctx, userID, mission.SpinsGranted); err != nil {
		return nil, fmt.Errorf("failed to credit mission spins: %w", err)
	}

	missionLog, err := entity.NewTransactionLog(userID, entity.TxDepositMissionSpin, nil, mission.SpinsGranted,
		fmt.Sprintf("Deposit mission %q (#%d) for deposit %s: %d spins, claim %d/%d",
			mission.Name, mission.ID, amount, mission.SpinsGranted, progress.ClaimsUsed, mission.MaxClaims),
		e.timeProvider)
	if err != nil {
		return nil, err
	}
	if err := e.uow.GetTransactionLogRepository(ctx).Append(ctx, missionLog); err != nil {
		return nil, fmt.Errorf("failed to log mission grant: %w", err)
	}

	return &entity.MissionGrant{
		Source:       entity.GrantDepositMission,
		MissionID:    mission.ID,
		MissionName:  mission.Name,
		SpinsGranted: mission.SpinsGranted,
		ClaimsUsed:   progress.ClaimsUsed,
		MaxClaims:    mission.MaxClaims,
	}, nil
}

// EvaluateDailyLogin grants the active daily login mission if the previous
// grant is at least one login window old.
func (e *Evaluator) EvaluateDailyLogin(ctx context.Context, userID uint64) (*entity.DailyLoginResult, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}

	result := &entity.DailyLoginResult{UserID: userID}
	window := e.config.DailyLoginWindow

	err := e.executor.Run(ctx, userID, "evaluate_daily_login", func(txCtx context.Context, user *entity.User) error {
		result.Grant = nil

		mission, err := e.uow.GetMissionRepository(txCtx).GetActiveDailyLoginMission(txCtx)
		if err != nil {
			return err
		}

		now := e.timeProvider.Now()
		granted, err := e.uow.GetUserRepository(txCtx).ClaimDailyLogin(txCtx, userID, mission.SpinsGranted, now, now.Add(-window))
		if err != nil {
			return fmt.Errorf("failed to claim daily login: %w", err)
		}
		if !granted {
			result.AvailableSpins = user.AvailableSpins
			result.NextEligibleAt = user.NextDailyLogin(window)
			return nil
		}

		loginLog, err := entity.NewTransactionLog(userID, entity.TxDailyLoginSpin, nil, mission.SpinsGranted,
			fmt.Sprintf("Daily login mission %q (#%d): %d spins", mission.Name, mission.ID, mission.SpinsGranted),
			e.timeProvider)
		if err != nil {
			return err
		}
		if err := e.uow.GetTransactionLogRepository(txCtx).Append(txCtx, loginLog); err != nil {
			return fmt.Errorf("failed to log daily login: %w", err)
		}

		next := now.Add(window)
		result.Grant = &entity.MissionGrant{
			Source:       entity.GrantDailyLogin,
			MissionID:    mission.ID,
			MissionName:  mission.Name,
			SpinsGranted: mission.SpinsGranted,
		}
		result.AvailableSpins = user.AvailableSpins + mission.SpinsGranted
		result.NextEligibleAt = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Granted() {
		e.metrics.SpinsGranted(string(entity.GrantDailyLogin), result.Grant.SpinsGranted)
		e.logger.Info("Daily login granted", map[string]any{
			"user_id":         userID,
			"mission_id":      result.Grant.MissionID,
			"spins_granted":   result.Grant.SpinsGranted,
			"available_spins": result.AvailableSpins,
		})
	} else {
		e.logger.Debug("Daily login not yet due", map[string]any{
			"user_id":          userID,
			"next_eligible_at": result.NextEligibleAt,
		})
	}

	return result, nil
}
