package account

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/usecase"
)

// Transaction listing bounds
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Service exposes read-only views of reward accounts
type Service struct {
	uow    persistence.UnitOfWork
	logger coreport.Logger
}

// NewService creates an account service
func NewService(uow persistence.UnitOfWork, logger coreport.Logger) usecase.AccountUseCase {
	return &Service{uow: uow, logger: logger}
}

// GetAccount returns the user's balances, provisioning a zero-balance user when absent
func (s *Service) GetAccount(ctx context.Context, userID uint64) (*entity.AccountSummary, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}

	user, err := s.uow.GetUserRepository(ctx).GetOrCreate(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load account", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	summary := entity.UserToAccountSummary(user)
	return &summary, nil
}

// ListTransactions returns the user's log rows newest first. limit falls back
// to DefaultListLimit when not positive and is capped at MaxListLimit.
func (s *Service) ListTransactions(ctx context.Context, userID uint64, limit, offset int) ([]*entity.TransactionLog, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset cannot be negative", errs.ErrInvalidRequest)
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	logs, err := s.uow.GetTransactionLogRepository(ctx).ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return logs, nil
}
