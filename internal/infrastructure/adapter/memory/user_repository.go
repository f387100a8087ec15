package memory

import (
	"context"
	"errors"
	"time"

	"github.com/amirhossein-jamali/spin-rewards/internal/domain/entity"
	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	"github.com/shopspring/decimal"
)

// UserRepository implements persistence.UserRepository in memory
type UserRepository struct {
	session
}

// provision returns the stored user, creating a zero-balance row when absent.
// Must be called with the store lock held.
func (r *UserRepository) provision(t *tx, userID uint64) (*entity.User, error) {
	if user, ok := r.store.users[userID]; ok {
		return user, nil
	}

	user, err := entity.NewUser(userID, r.store.timeProvider)
	if err != nil {
		return nil, err
	}
	r.store.users[userID] = user
	t.journal(func() { delete(r.store.users, userID) })

	r.store.logger.Debug("Provisioned user", map[string]any{"user_id": userID})
	return user, nil
}

// LockForUpdate takes the user's exclusive lock for the rest of the unit of work
func (r *UserRepository) LockForUpdate(ctx context.Context, userID uint64) (*entity.User, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}

	t := txFromContext(ctx)
	if t != nil && !t.locked[userID] {
		if err := r.store.userLocks.Lock(ctx, userID, r.store.lockTimeout); err != nil {
			if errors.Is(err, ErrLockTimeout) {
				return nil, errs.NewConflictError(userID, "lock_user", err)
			}
			return nil, err
		}
		t.locked[userID] = true
	}

	var user *entity.User
	err := r.mutate(ctx, func(t *tx) error {
		stored, err := r.provision(t, userID)
		if err != nil {
			return err
		}
		user = stored.Clone()
		return nil
	})
	return user, err
}

// GetOrCreate loads the user without locking, provisioning it when absent
func (r *UserRepository) GetOrCreate(ctx context.Context, userID uint64) (*entity.User, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}

	var user *entity.User
	err := r.mutate(ctx, func(t *tx) error {
		stored, err := r.provision(t, userID)
		if err != nil {
			return err
		}
		user = stored.Clone()
		return nil
	})
	return user, err
}

// update applies fn to the stored user if pred holds, journaling the previous row
func (r *UserRepository) update(ctx context.Context, userID uint64, pred func(*entity.User) bool, fn func(*entity.User)) (bool, error) {
	applied := false
	err := r.mutate(ctx, func(t *tx) error {
		user, err := r.provision(t, userID)
		if err != nil {
			return err
		}
		if pred != nil && !pred(user) {
			return nil
		}

		previous := user.Clone()
		t.journal(func() { *user = *previous })

		fn(user)
		user.UpdatedAt = r.store.timeProvider.Now()
		applied = true
		return nil
	})
	return applied, err
}

// ConsumeSpin decrements available spins by one if at least one is available
func (r *UserRepository) ConsumeSpin(ctx context.Context, userID uint64) (bool, error) {
	return r.update(ctx, userID,
		func(u *entity.User) bool { return u.AvailableSpins >= 1 },
		func(u *entity.User) { u.AvailableSpins-- },
	)
}

// AddSpins credits spins unconditionally
func (r *UserRepository) AddSpins(ctx context.Context, userID uint64, spins int64) error {
	if spins <= 0 {
		return errs.ErrInvalidRequest
	}
	_, err := r.update(ctx, userID, nil, func(u *entity.User) { u.AvailableSpins += spins })
	return err
}

// CreditCash adds a positive amount to the cash balance
func (r *UserRepository) CreditCash(ctx context.Context, userID uint64, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.ErrInvalidAmount
	}
	_, err := r.update(ctx, userID, nil, func(u *entity.User) { u.CashBalance = u.CashBalance.Add(amount) })
	return err
}

// ClaimFirstDepositBonus sets the first-deposit flag and credits spins if the flag is still unset
func (r *UserRepository) ClaimFirstDepositBonus(ctx context.Context, userID uint64, spins int64) (bool, error) {
	return r.update(ctx, userID,
		func(u *entity.User) bool { return !u.FirstDepositBonusUsed },
		func(u *entity.User) {
			u.FirstDepositBonusUsed = true
			u.AvailableSpins += spins
		},
	)
}

// ClaimDailyLogin credits spins and stamps the login if the previous login is absent or not after notAfter
func (r *UserRepository) ClaimDailyLogin(ctx context.Context, userID uint64, spins int64, now, notAfter time.Time) (bool, error) {
	return r.update(ctx, userID,
		func(u *entity.User) bool { return u.LastDailyLogin == nil || !u.LastDailyLogin.After(notAfter) },
		func(u *entity.User) {
			stamp := now
			claim := now
			u.LastDailyLogin = &stamp
			u.LastDailyMissionClaim = &claim
			u.AvailableSpins += spins
		},
	)
}
