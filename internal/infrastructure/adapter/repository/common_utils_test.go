package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestErrorClassifier_Classify(t *testing.T) {
	c := NewErrorClassifier()

	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ""},
		{"record not found", gorm.ErrRecordNotFound, NotFoundError},
		{"unique violation", &pgconn.PgError{Code: "23505"}, DuplicateKeyError},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, LockError},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, LockError},
		{"lock timeout", &pgconn.PgError{Code: "55P03"}, LockError},
		{"check violation", &pgconn.PgError{Code: "23514"}, ConstraintError},
		{"connection failure", &pgconn.PgError{Code: "08006"}, ConnectionError},
		{"wrapped pg error", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), DuplicateKeyError},
		{"message deadlock", errors.New("deadlock detected"), LockError},
		{"message reset", errors.New("read: connection reset by peer"), TransientError},
		{"unknown", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
		})
	}
}

func TestErrorClassifier_Map(t *testing.T) {
	c := NewErrorClassifier()

	assert.NoError(t, c.Map(nil, 1, "noop"))
	assert.ErrorIs(t, c.Map(gorm.ErrRecordNotFound, 1, "get"), errs.ErrNotFound)
	assert.ErrorIs(t, c.Map(&pgconn.PgError{Code: "23505"}, 1, "append"), errs.ErrDuplicateKey)
	assert.ErrorIs(t, c.Map(&pgconn.PgError{Code: "23514"}, 1, "debit"), errs.ErrConstraintViolation)
	assert.ErrorIs(t, c.Map(errors.New("boom"), 1, "get"), errs.ErrDatabaseConnection)
	assert.ErrorIs(t, c.Map(context.Canceled, 1, "get"), context.Canceled)

	conflict := c.Map(&pgconn.PgError{Code: "55P03"}, 7, "lock_user")
	assert.ErrorIs(t, conflict, errs.ErrConcurrentUpdate)
	assert.True(t, errs.IsConcurrentUpdateError(conflict))
}
