package persistence

import (
	"context"
)

// UnitOfWork defines an interface for coordinating transaction operations
// across multiple repositories to maintain data consistency
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// GetUserRepository returns a user repository bound to the current transaction
	GetUserRepository(ctx context.Context) UserRepository

	// GetMissionRepository returns a mission repository bound to the current transaction
	GetMissionRepository(ctx context.Context) MissionRepository

	// GetSlotRepository returns a slot repository bound to the current transaction
	GetSlotRepository(ctx context.Context) SlotRepository

	// GetLetterRepository returns a letter repository bound to the current transaction
	GetLetterRepository(ctx context.Context) LetterRepository

	// GetTransactionLogRepository returns a log repository bound to the current transaction
	GetTransactionLogRepository(ctx context.Context) TransactionLogRepository
}
