package store

import (
	"context"
	"errors"
	"time"

	"github.com/rentflow/rentauth/internal/models"
)

var (
	// ErrNotFound means no record matched the lookup.
	ErrNotFound = errors.New("refresh token not found")
	// ErrDuplicateToken means the random token value collided with an
	// existing record. Callers retry once with a fresh value.
	ErrDuplicateToken = errors.New("duplicate refresh token value")
	// ErrConflict means a rotation lost the race against a concurrent
	// rotation of the same record.
	ErrConflict = errors.New("refresh token was concurrently modified")
)

// RefreshTokenStore persists refresh-token records. It is the only shared
// mutable state in the system; implementations must make Rotate atomic at the
// single-record level so that concurrent rotations of the same record cannot
// both succeed.
type RefreshTokenStore interface {
	Add(ctx context.Context, t *models.RefreshToken) error
	GetByToken(ctx context.Context, value string) (*models.RefreshToken, error)
	GetByID(ctx context.Context, id string) (*models.RefreshToken, error)
	ListByUser(ctx context.Context, userID string) ([]models.RefreshToken, error)

	// Rotate overwrites the record's token value and expiry in place,
	// guarded by the old value. Id, owner, creation time and revocation
	// state are untouched. Returns ErrConflict when the guard fails.
	Rotate(ctx context.Context, id, oldValue, newValue string, expiresAt time.Time) error

	Revoke(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
