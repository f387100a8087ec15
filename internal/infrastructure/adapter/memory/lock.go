package memory

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLockTimeout is returned when a user lock cannot be acquired in time
var ErrLockTimeout = errors.New("lock acquisition timeout")

// userMutex is a context-aware mutex with a reference count for cleanup
type userMutex struct {
	ch       chan struct{}
	refCount int
}

// UserLock provides per-user exclusive locks. Different users never contend.
type UserLock struct {
	mu    sync.Mutex
	locks map[uint64]*userMutex
}

// NewUserLock creates a new UserLock instance
func NewUserLock() *UserLock {
	return &UserLock{locks: make(map[uint64]*userMutex)}
}

// acquireRef returns the user's mutex and registers interest in it
func (ul *UserLock) acquireRef(userID uint64) *userMutex {
	ul.mu.Lock()
	defer ul.mu.Unlock()

	lock, ok := ul.locks[userID]
	if !ok {
		lock = &userMutex{ch: make(chan struct{}, 1)}
		ul.locks[userID] = lock
	}
	lock.refCount++
	return lock
}

// releaseRef drops interest in the user's mutex and forgets it once unused
func (ul *UserLock) releaseRef(userID uint64) {
	ul.mu.Lock()
	defer ul.mu.Unlock()

	lock, ok := ul.locks[userID]
	if !ok {
		return
	}
	lock.refCount--
	if lock.refCount <= 0 {
		delete(ul.locks, userID)
	}
}

// Lock acquires the user's lock, blocking until it is free or ctx ends.
// A non-positive timeout waits for ctx only.
func (ul *UserLock) Lock(ctx context.Context, userID uint64, timeout time.Duration) error {
	lock := ul.acquireRef(userID)

	waitCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	select {
	case lock.ch <- struct{}{}:
		return nil
	case <-waitCtx.Done():
		ul.releaseRef(userID)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrLockTimeout
	}
}

// TryLock attempts to acquire the lock without blocking
func (ul *UserLock) TryLock(userID uint64) bool {
	lock := ul.acquireRef(userID)
	select {
	case lock.ch <- struct{}{}:
		return true
	default:
		ul.releaseRef(userID)
		return false
	}
}

// Unlock releases the user's lock
func (ul *UserLock) Unlock(userID uint64) {
	ul.mu.Lock()
	lock, ok := ul.locks[userID]
	ul.mu.Unlock()
	if !ok {
		return
	}

	select {
	case <-lock.ch:
	default:
	}
	ul.releaseRef(userID)
}

// IsLocked checks if a user currently holds a lock.
// This is a point-in-time check and may change immediately after.
func (ul *UserLock) IsLocked(userID uint64) bool {
	ul.mu.Lock()
	defer ul.mu.Unlock()

	lock, ok := ul.locks[userID]
	return ok && len(lock.ch) > 0
}
