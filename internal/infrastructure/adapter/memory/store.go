// Package memory is an in-process Ledger Store. It gives the same atomicity
// guarantees as the SQL store: every mutation made inside a unit of work is
// journaled and undone on rollback, and user rows are locked exclusively
// until the unit ends.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/persistence"
)

type progressKey struct {
	userID    uint64
	missionID uint64
}

type letterKey struct {
	userID uint64
	letter string
}

// Store holds all ledger state in memory
type Store struct {
	mu sync.Mutex

	users           map[uint64]*entity.User
	depositMissions map[uint64]*entity.DepositMission
	dailyMissions   map[uint64]*entity.DailyLoginMission
	progress        map[progressKey]*entity.UserMissionProgress
	slots           map[uint64]*entity.RouletteSlot
	letters         map[letterKey]int64
	words           map[uint64]*entity.LetterWord
	logs            []*entity.TransactionLog
	sequences       map[string]uint64

	userLocks    *UserLock
	lockTimeout  time.Duration
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewStore creates an empty store. lockTimeout bounds how long a unit of work
// waits for another unit holding the same user.
func NewStore(timeProvider coreport.TimeProvider, logger coreport.Logger, lockTimeout time.Duration) *Store {
	return &Store{
		users:           make(map[uint64]*entity.User),
		depositMissions: make(map[uint64]*entity.DepositMission),
		dailyMissions:   make(map[uint64]*entity.DailyLoginMission),
		progress:        make(map[progressKey]*entity.UserMissionProgress),
		slots:           make(map[uint64]*entity.RouletteSlot),
		letters:         make(map[letterKey]int64),
		words:           make(map[uint64]*entity.LetterWord),
		sequences:       make(map[string]uint64),
		userLocks:       NewUserLock(),
		lockTimeout:     lockTimeout,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// nextID returns the next value of a named sequence. Sequences are not rolled back.
func (s *Store) nextID(name string) uint64 {
	s.sequences[name]++
	return s.sequences[name]
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const txKey contextKey = "memory_tx"

// tx is one open unit of work
type tx struct {
	undo   []func()
	locked map[uint64]bool
	closed bool
}

// journal registers an undo step. Must be called with s.mu held.
func (t *tx) journal(undo func()) {
	if t != nil {
		t.undo = append(t.undo, undo)
	}
}

func txFromContext(ctx context.Context) *tx {
	t, ok := ctx.Value(txKey).(*tx)
	if !ok || t == nil || t.closed {
		return nil
	}
	return t
}

// UnitOfWork implements persistence.UnitOfWork over a Store
type UnitOfWork struct {
	store *Store
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(store *Store) persistence.UnitOfWork {
	return &UnitOfWork{store: store}
}

// Begin opens a unit of work
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if err := ctx.Err(); err != nil {
		return ctx, err
	}
	return context.WithValue(ctx, txKey, &tx{locked: make(map[uint64]bool)}), nil
}

// Commit keeps the unit's changes and releases its user locks
func (u *UnitOfWork) Commit(ctx context.Context) error {
	t := txFromContext(ctx)
	if t == nil {
		return fmt.Errorf("no transaction found in context")
	}

	u.store.mu.Lock()
	t.closed = true
	t.undo = nil
	u.store.mu.Unlock()

	u.store.releaseLocks(t)
	return nil
}

// Rollback undoes the unit's changes in reverse order and releases its user locks
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	t, ok := ctx.Value(txKey).(*tx)
	if !ok || t == nil {
		return fmt.Errorf("no transaction found in context")
	}
	if t.closed {
		u.store.logger.Warn("Transaction has already been committed or rolled back", nil)
		return nil
	}

	u.store.mu.Lock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	t.closed = true
	u.store.mu.Unlock()

	u.store.releaseLocks(t)
	return nil
}

func (s *Store) releaseLocks(t *tx) {
	for userID := range t.locked {
		s.userLocks.Unlock(userID)
	}
	t.locked = nil
}

// GetUserRepository returns a user repository in the current unit of work
func (u *UnitOfWork) GetUserRepository(ctx context.Context) persistence.UserRepository {
	return &UserRepository{session{store: u.store}}
}

// GetMissionRepository returns a mission repository in the current unit of work
func (u *UnitOfWork) GetMissionRepository(ctx context.Context) persistence.MissionRepository {
	return &MissionRepository{session{store: u.store}}
}

// GetSlotRepository returns a slot repository in the current unit of work
func (u *UnitOfWork) GetSlotRepository(ctx context.Context) persistence.SlotRepository {
	return &SlotRepository{session{store: u.store}}
}

// GetLetterRepository returns a letter repository in the current unit of work
func (u *UnitOfWork) GetLetterRepository(ctx context.Context) persistence.LetterRepository {
	return &LetterRepository{session{store: u.store}}
}

// GetTransactionLogRepository returns a log repository in the current unit of work
func (u *UnitOfWork) GetTransactionLogRepository(ctx context.Context) persistence.TransactionLogRepository {
	return &TransactionLogRepository{session{store: u.store}}
}

// session is shared by the repositories. The unit of work is resolved from
// the context of each call, so a repository obtained outside a unit still
// joins one when called with a transactional context.
type session struct {
	store *Store
}

// mutate runs fn under the store lock with the context's unit of work, if any
func (s session) mutate(ctx context.Context, fn func(t *tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return fn(txFromContext(ctx))
}

// read runs fn under the store lock
func (s session) read(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return fn()
}

func sortedKeys[V any](m map[uint64]V) []uint64 {
	keys := make([]uint64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
