package store

import (
	"context"
	"errors"
	"time"

	"github.com/cobaltworks/authd/internal/authd/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to do multi-step writes (e.g. password update plus
	// reset-token clear) atomically.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail returns a user by their case-normalized email, the
	// natural lookup key for login and forgot-password.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByResetDigest returns the user whose stored reset-token digest
	// matches AND whose reset expiry is after now. An expired or cleared
	// token never matches, which is what makes the reset single-use.
	GetUserByResetDigest(ctx context.Context, digest string, now time.Time) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// A duplicate email maps to ErrAlreadyExists; the schema enforces
	// uniqueness so concurrent registrations cannot both succeed.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// SetResetToken stores the reset-token digest and its absolute expiry,
	// superseding any previous pending reset.
	SetResetToken(ctx context.Context, userID string, digest string, expiresAt time.Time) error

	// ClearResetToken removes any pending reset state so no stored token can
	// ever match again.
	ClearResetToken(ctx context.Context, userID string) error

	// ClearExpiredResetTokens removes reset state whose expiry has passed.
	// Housekeeping only; correctness never depends on it because lookups
	// filter by expiry anyway.
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}
