package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cobaltworks/authd/internal/authd/domain"
	"github.com/cobaltworks/authd/internal/authd/store"
	"github.com/cobaltworks/authd/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestUser() domain.User {
	now := time.Now().UTC()
	return domain.User{
		ID:           idx.New().String(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUsersRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := newTestUser()
	require.NoError(t, s.Users().CreateUser(ctx, u))

	byID, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, byID.Email)
	require.Equal(t, u.PasswordHash, byID.PasswordHash)
	require.Nil(t, byID.ResetTokenDigest)
	require.Nil(t, byID.ResetTokenExpiresAt)

	byEmail, err := s.Users().GetUserByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)
}

func TestUsersRepo_GetMissing(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Users().GetUserByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersRepo_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := newTestUser()
	require.NoError(t, s.Users().CreateUser(ctx, u))

	dup := newTestUser()
	dup.Username = "bob" // same email, different everything else
	err := s.Users().CreateUser(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsersRepo_UpdatePasswordHash(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := newTestUser()
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "new-hash"))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)
}

func TestUsersRepo_ResetTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC()

	u := newTestUser()
	require.NoError(t, s.Users().CreateUser(ctx, u))

	digest := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	require.NoError(t, s.Users().SetResetToken(ctx, u.ID, digest, now.Add(10*time.Minute)))

	t.Run("live token matches", func(t *testing.T) {
		got, err := s.Users().GetUserByResetDigest(ctx, digest, now)
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.NotNil(t, got.ResetTokenDigest)
		require.True(t, got.HasPendingReset(now))
	})

	t.Run("wrong digest does not match", func(t *testing.T) {
		_, err := s.Users().GetUserByResetDigest(ctx, "bbbb", now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("expired token does not match", func(t *testing.T) {
		_, err := s.Users().GetUserByResetDigest(ctx, digest, now.Add(11*time.Minute))
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("clear removes the pending state", func(t *testing.T) {
		require.NoError(t, s.Users().ClearResetToken(ctx, u.ID))

		_, err := s.Users().GetUserByResetDigest(ctx, digest, now)
		require.ErrorIs(t, err, store.ErrNotFound)

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Nil(t, got.ResetTokenDigest)
		require.Nil(t, got.ResetTokenExpiresAt)
	})
}

func TestUsersRepo_SetResetTokenSupersedes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC()

	u := newTestUser()
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.NoError(t, s.Users().SetResetToken(ctx, u.ID, "digest-one", now.Add(10*time.Minute)))
	require.NoError(t, s.Users().SetResetToken(ctx, u.ID, "digest-two", now.Add(10*time.Minute)))

	// The first token must no longer match once superseded.
	_, err := s.Users().GetUserByResetDigest(ctx, "digest-one", now)
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.Users().GetUserByResetDigest(ctx, "digest-two", now)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
}

func TestUsersRepo_ClearExpiredResetTokens(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC()

	expired := newTestUser()
	require.NoError(t, s.Users().CreateUser(ctx, expired))
	require.NoError(t, s.Users().SetResetToken(ctx, expired.ID, "expired-digest", now.Add(-time.Minute)))

	live := newTestUser()
	live.Email = "bob@example.com"
	require.NoError(t, s.Users().CreateUser(ctx, live))
	require.NoError(t, s.Users().SetResetToken(ctx, live.ID, "live-digest", now.Add(10*time.Minute)))

	n, err := s.Users().ClearExpiredResetTokens(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	gotExpired, err := s.Users().GetUserByID(ctx, expired.ID)
	require.NoError(t, err)
	require.Nil(t, gotExpired.ResetTokenDigest)

	gotLive, err := s.Users().GetUserByResetDigest(ctx, "live-digest", now)
	require.NoError(t, err)
	require.Equal(t, live.ID, gotLive.ID)
}

func TestStore_WithTx(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := newTestUser()
	require.NoError(t, s.Users().CreateUser(ctx, u))
	require.NoError(t, s.Users().SetResetToken(ctx, u.ID, "digest", time.Now().UTC().Add(10*time.Minute)))

	t.Run("commit applies both writes", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().UpdatePasswordHash(ctx, u.ID, "tx-hash"); err != nil {
				return err
			}
			return tx.Users().ClearResetToken(ctx, u.ID)
		})
		require.NoError(t, err)

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "tx-hash", got.PasswordHash)
		require.Nil(t, got.ResetTokenDigest)
	})

	t.Run("error rolls back", func(t *testing.T) {
		sentinel := context.Canceled
		err := s.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().UpdatePasswordHash(ctx, u.ID, "rolled-back"); err != nil {
				return err
			}
			return sentinel
		})
		require.ErrorIs(t, err, sentinel)

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "tx-hash", got.PasswordHash)
	})
}
