package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/usecase"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Service validates and stores reward configuration rows
type Service struct {
	uow      persistence.UnitOfWork
	logger   coreport.Logger
	validate *validator.Validate
}

// NewService creates a catalog service
func NewService(uow persistence.UnitOfWork, logger coreport.Logger) usecase.CatalogUseCase {
	return &Service{
		uow:      uow,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// checkInput runs struct validation and reports the first failing field
func (s *Service) checkInput(in any, kind error) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("%w: field %s failed %q", kind, fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %v", kind, err)
}

func (s *Service) buildDepositMission(in usecase.DepositMissionInput) (*entity.DepositMission, error) {
	if err := s.checkInput(in, errs.ErrInvalidMission); err != nil {
		return nil, err
	}

	minAmount, err := entity.ParseAmount(in.MinAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: min amount: %v", errs.ErrInvalidMission, err)
	}

	var maxAmount *decimal.Decimal
	if in.MaxAmount != nil && strings.TrimSpace(*in.MaxAmount) != "" {
		parsed, err := entity.ParseAmount(*in.MaxAmount)
		if err != nil {
			return nil, fmt.Errorf("%w: max amount: %v", errs.ErrInvalidMission, err)
		}
		maxAmount = &parsed
	}

	mission := &entity.DepositMission{
		Name:         strings.TrimSpace(in.Name),
		MinAmount:    minAmount,
		MaxAmount:    maxAmount,
		SpinsGranted: in.SpinsGranted,
		MaxClaims:    in.MaxClaims,
		Active:       true,
	}
	if err := mission.Validate(); err != nil {
		return nil, err
	}
	return mission, nil
}

// CreateDepositMission validates and stores an active deposit mission
func (s *Service) CreateDepositMission(ctx context.Context, in usecase.DepositMissionInput) (*entity.DepositMission, error) {
	mission, err := s.buildDepositMission(in)
	if err != nil {
		return nil, err
	}
	if err := s.uow.GetMissionRepository(ctx).CreateDepositMission(ctx, mission); err != nil {
		return nil, fmt.Errorf("failed to store deposit mission: %w", err)
	}

	s.logger.Info("Deposit mission created", map[string]any{
		"mission_id":    mission.ID,
		"name":          mission.Name,
		"spins_granted": mission.SpinsGranted,
		"max_claims":    mission.MaxClaims,
	})
	return mission, nil
}

func (s *Service) buildDailyLoginMission(in usecase.DailyLoginMissionInput) (*entity.DailyLoginMission, error) {
	if err := s.checkInput(in, errs.ErrInvalidMission); err != nil {
		return nil, err
	}
	mission := &entity.DailyLoginMission{
		Name:         strings.TrimSpace(in.Name),
		SpinsGranted: in.SpinsGranted,
		Active:       true,
	}
	if err := mission.Validate(); err != nil {
		return nil, err
	}
	return mission, nil
}

// CreateDailyLoginMission validates and stores an active daily login mission
func (s *Service) CreateDailyLoginMission(ctx context.Context, in usecase.DailyLoginMissionInput) (*entity.DailyLoginMission, error) {
	mission, err := s.buildDailyLoginMission(in)
	if err != nil {
		return nil, err
	}
	if err := s.uow.GetMissionRepository(ctx).CreateDailyLoginMission(ctx, mission); err != nil {
		return nil, fmt.Errorf("failed to store daily login mission: %w", err)
	}

	s.logger.Info("Daily login mission created", map[string]any{
		"mission_id":    mission.ID,
		"name":          mission.Name,
		"spins_granted": mission.SpinsGranted,
	})
	return mission, nil
}

func (s *Service) buildSlot(in usecase.SlotInput) (*entity.RouletteSlot, error) {
	if err := s.checkInput(in, errs.ErrInvalidSlot); err != nil {
		return nil, err
	}

	slot := &entity.RouletteSlot{
		Type:   entity.SlotType(in.Type),
		Value:  strings.TrimSpace(in.Value),
		Weight: in.Weight,
		Active: true,
	}
	if err := slot.Validate(); err != nil {
		return nil, err
	}

	// store values in canonical form
	switch slot.Type {
	case entity.SlotCash:
		amount, _ := slot.CashValue()
		slot.Value = entity.FormatAmount(amount)
	case entity.SlotLetter:
		slot.Value, _ = slot.LetterValue()
	}
	return slot, nil
}

// CreateSlot validates and stores an active roulette slot
func (s *Service) CreateSlot(ctx context.Context, in usecase.SlotInput) (*entity.RouletteSlot, error) {
	slot, err := s.buildSlot(in)
	if err != nil {
		return nil, err
	}
	if err := s.uow.GetSlotRepository(ctx).Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to store slot: %w", err)
	}

	s.logger.Info("Roulette slot created", map[string]any{
		"slot_id": slot.ID,
		"type":    slot.Type,
		"value":   slot.Value,
		"weight":  slot.Weight,
	})
	return slot, nil
}

func (s *Service) buildWord(in usecase.WordInput) (*entity.LetterWord, error) {
	if err := s.checkInput(in, errs.ErrInvalidWord); err != nil {
		return nil, err
	}

	word := entity.NormalizeWord(in.Word)

	var required entity.LetterRequirements
	if len(in.RequiredLetters) == 0 {
		fromWord, err := entity.RequirementsFromWord(word)
		if err != nil {
			return nil, err
		}
		required = fromWord
	} else {
		required = make(entity.LetterRequirements, len(in.RequiredLetters))
		for key, count := range in.RequiredLetters {
			letter, ok := entity.NormalizeLetter(key)
			if !ok {
				return nil, fmt.Errorf("%w: %q is not a letter", errs.ErrInvalidWord, key)
			}
			if count <= 0 {
				return nil, fmt.Errorf("%w: letter %s needs a positive count", errs.ErrInvalidWord, letter)
			}
			if _, dup := required[letter]; dup {
				return nil, fmt.Errorf("%w: letter %s listed twice", errs.ErrInvalidWord, letter)
			}
			required[letter] = count
		}
	}

	raw, err := required.Marshal()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidWord, err)
	}

	reward, err := entity.ParsePositiveAmount(in.RewardAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: reward amount: %v", errs.ErrInvalidWord, err)
	}

	letterWord := &entity.LetterWord{
		Word:            word,
		RawRequirements: raw,
		RewardAmount:    reward,
		Active:          true,
	}
	if err := letterWord.Validate(); err != nil {
		return nil, err
	}
	return letterWord, nil
}

// CreateWord validates and stores an active letter word. Without explicit
// requirements the word needs its own letters.
func (s *Service) CreateWord(ctx context.Context, in usecase.WordInput) (*entity.LetterWord, error) {
	word, err := s.buildWord(in)
	if err != nil {
		return nil, err
	}
	if err := s.uow.GetLetterRepository(ctx).CreateWord(ctx, word); err != nil {
		return nil, fmt.Errorf("failed to store word: %w", err)
	}

	s.logger.Info("Letter word created", map[string]any{
		"word_id":       word.ID,
		"word":          word.Word,
		"requirements":  string(word.RawRequirements),
		"reward_amount": entity.FormatAmount(word.RewardAmount),
	})
	return word, nil
}

// SetActive toggles one configuration row
func (s *Service) SetActive(ctx context.Context, kind usecase.CatalogKind, id uint64, active bool) error {
	if id == 0 {
		return fmt.Errorf("%w: id is required", errs.ErrInvalidRequest)
	}

	var err error
	switch kind {
	case usecase.CatalogDepositMissions:
		err = s.uow.GetMissionRepository(ctx).SetDepositMissionActive(ctx, id, active)
	case usecase.CatalogDailyLoginMissions:
		err = s.uow.GetMissionRepository(ctx).SetDailyLoginMissionActive(ctx, id, active)
	case usecase.CatalogSlots:
		err = s.uow.GetSlotRepository(ctx).SetActive(ctx, id, active)
	case usecase.CatalogWords:
		err = s.uow.GetLetterRepository(ctx).SetWordActive(ctx, id, active)
	default:
		return fmt.Errorf("%w: unknown catalog kind %q", errs.ErrInvalidRequest, kind)
	}
	if err != nil {
		return err
	}

	s.logger.Info("Catalog row toggled", map[string]any{
		"kind":   kind,
		"id":     id,
		"active": active,
	})
	return nil
}

// SeedDefaults writes the seed in one unit of work. Each kind is written
// only when the store holds no row of that kind.
func (s *Service) SeedDefaults(ctx context.Context, seed usecase.CatalogSeed) error {
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin seeding: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
				s.logger.Error("Failed to roll back catalog seeding", map[string]any{
					"error": rbErr.Error(),
				})
			}
		}
	}()

	seeded := map[string]int{}

	missions := s.uow.GetMissionRepository(txCtx)
	if n, err := s.seedDepositMissions(txCtx, missions, seed.DepositMissions); err != nil {
		return err
	} else if n > 0 {
		seeded[string(usecase.CatalogDepositMissions)] = n
	}
	if n, err := s.seedDailyLoginMissions(txCtx, missions, seed.DailyLoginMissions); err != nil {
		return err
	} else if n > 0 {
		seeded[string(usecase.CatalogDailyLoginMissions)] = n
	}
	if n, err := s.seedSlots(txCtx, seed.Slots); err != nil {
		return err
	} else if n > 0 {
		seeded[string(usecase.CatalogSlots)] = n
	}
	if n, err := s.seedWords(txCtx, seed.Words); err != nil {
		return err
	} else if n > 0 {
		seeded[string(usecase.CatalogWords)] = n
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return fmt.Errorf("failed to commit seeding: %w", err)
	}
	committed = true

	fields := make(map[string]any, len(seeded))
	for kind, n := range seeded {
		fields[kind] = n
	}
	s.logger.Info("Default catalog seeded", fields)
	return nil
}

func (s *Service) seedDepositMissions(ctx context.Context, repo persistence.MissionRepository, inputs []usecase.DepositMissionInput) (int, error) {
	existing, err := repo.ListDepositMissions(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 || len(inputs) == 0 {
		return 0, nil
	}
	for _, in := range inputs {
		mission, err := s.buildDepositMission(in)
		if err != nil {
			return 0, fmt.Errorf("seed deposit mission %q: %w", in.Name, err)
		}
		if err := repo.CreateDepositMission(ctx, mission); err != nil {
			return 0, err
		}
	}
	return len(inputs), nil
}

func (s *Service) seedDailyLoginMissions(ctx context.Context, repo persistence.MissionRepository, inputs []usecase.DailyLoginMissionInput) (int, error) {
	existing, err := repo.ListDailyLoginMissions(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 || len(inputs) == 0 {
		return 0, nil
	}
	for _, in := range inputs {
		mission, err := s.buildDailyLoginMission(in)
		if err != nil {
			return 0, fmt.Errorf("seed daily login mission %q: %w", in.Name, err)
		}
		if err := repo.CreateDailyLoginMission(ctx, mission); err != nil {
			return 0, err
		}
	}
	return len(inputs), nil
}

func (s *Service) seedSlots(ctx context.Context, inputs []usecase.SlotInput) (int, error) {
	repo := s.uow.GetSlotRepository(ctx)
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 || len(inputs) == 0 {
		return 0, nil
	}
	for _, in := range inputs {
		slot, err := s.buildSlot(in)
		if err != nil {
			return 0, fmt.Errorf("seed slot %s:%s: %w", in.Type, in.Value, err)
		}
		if err := repo.Create(ctx, slot); err != nil {
			return 0, err
		}
	}
	return len(inputs), nil
}

func (s *Service) seedWords(ctx context.Context, inputs []usecase.WordInput) (int, error) {
	repo := s.uow.GetLetterRepository(ctx)
	existing, err := repo.ListWords(ctx, false)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 || len(inputs) == 0 {
		return 0, nil
	}
	for _, in := range inputs {
		word, err := s.buildWord(in)
		if err != nil {
			return 0, fmt.Errorf("seed word %q: %w", in.Word, err)
		}
		if err := repo.CreateWord(ctx, word); err != nil {
			return 0, err
		}
	}
	return len(inputs), nil
}
