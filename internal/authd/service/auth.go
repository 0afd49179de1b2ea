package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cobaltworks/authd/internal/authd/domain"
	"github.com/cobaltworks/authd/internal/authd/store"
	"github.com/cobaltworks/authd/pkg/cryptox"
	"github.com/cobaltworks/authd/pkg/idx"
	"github.com/cobaltworks/authd/pkg/jwtx"
	"github.com/cobaltworks/authd/pkg/slogx"
)

const (
	// DefaultResetTokenTTL is how long a password-reset token stays
	// redeemable. Short on purpose: the token travels over email.
	DefaultResetTokenTTL = 10 * time.Minute

	// DefaultNotifyTimeout bounds the outbound mail send so a slow SMTP
	// server can never stall a request goroutine indefinitely.
	DefaultNotifyTimeout = 5 * time.Second
)

// AuthService orchestrates the credential lifecycle: registration, login,
// profile lookup, password change, and the reset-token handshake. It owns
// every business rule and the whole error taxonomy; collaborators below it
// each touch exactly one concern.
type AuthService struct {
	Store    store.Store
	Signer   jwtx.Signer
	Notifier Notifier

	Issuer       string
	SessionTTL   time.Duration // 0 means jwtx.DefaultSessionTTL
	ResetTTL     time.Duration // 0 means DefaultResetTokenTTL
	NotifyWait   time.Duration // 0 means DefaultNotifyTimeout
	ResetBaseURL string        // prefix of the link mailed to the user
}

func (s *AuthService) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return jwtx.DefaultSessionTTL
}

func (s *AuthService) resetTTL() time.Duration {
	if s.ResetTTL > 0 {
		return s.ResetTTL
	}
	return DefaultResetTokenTTL
}

func (s *AuthService) notifyWait() time.Duration {
	if s.NotifyWait > 0 {
		return s.NotifyWait
	}
	return DefaultNotifyTimeout
}

// Register creates a new user with a hashed password and returns the public
// identity. The plaintext never reaches the store: hashing happens here,
// explicitly, before the record exists anywhere.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (domain.Identity, error) {
	if username == "" || email == "" || password == "" {
		return domain.Identity{}, E(KindValidation, "username, email and password are required")
	}

	email = domain.NormalizeEmail(email)

	// Pre-check for a friendlier conflict error. The unique index is what
	// actually guarantees uniqueness under concurrent registration.
	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		return domain.Identity{}, E(KindConflict, "email is already registered")
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, Ewrap(KindInternal, "failed to check existing user", err)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		// Hashing failure is fatal to the write. Nothing gets persisted.
		return domain.Identity{}, Ewrap(KindInternal, "failed to hash password", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Identity{}, E(KindConflict, "email is already registered")
		}
		return domain.Identity{}, Ewrap(KindInternal, "failed to create user", err)
	}

	slogx.FromContext(ctx).Info("user registered", slog.String("user_id", user.ID))
	return user.Identity(), nil
}

// Login verifies the credentials and mints a session token. Unknown email
// and wrong password produce the identical error so responses don't reveal
// which emails are registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.Identity, error) {
	if email == "" || password == "" {
		return "", domain.Identity{}, E(KindValidation, "email and password are required")
	}

	email = domain.NormalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domain.Identity{}, E(KindAuth, "invalid credentials")
		}
		return "", domain.Identity{}, Ewrap(KindInternal, "failed to load user", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return "", domain.Identity{}, E(KindAuth, "invalid credentials")
	}

	claims := jwtx.NewSessionClaims(user.ID, user.Email, s.Issuer, s.sessionTTL(), time.Now().UTC())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", domain.Identity{}, Ewrap(KindInternal, "failed to sign session token", err)
	}

	slogx.FromContext(ctx).Info("user logged in", slog.String("user_id", user.ID))
	return token, user.Identity(), nil
}

// GetProfile returns the public identity for a user id. The password hash
// never leaves the service layer.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (domain.Identity, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, E(KindNotFound, "user not found")
		}
		return domain.Identity{}, Ewrap(KindInternal, "failed to load user", err)
	}
	return user.Identity(), nil
}

// ChangePassword re-hashes and persists a new password after verifying the
// old one. Any pending reset token is cleared in the same transaction: a
// reset link issued before the change must not stay redeemable after it.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return E(KindValidation, "new password is required")
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return E(KindNotFound, "user not found")
		}
		return Ewrap(KindInternal, "failed to load user", err)
	}

	if err := cryptox.VerifyPassword(oldPassword, user.PasswordHash); err != nil {
		return E(KindAuth, "current password is incorrect")
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return Ewrap(KindInternal, "failed to hash password", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return err
		}
		return tx.Users().ClearResetToken(ctx, user.ID)
	})
	if err != nil {
		return Ewrap(KindInternal, "failed to update password", err)
	}

	slogx.FromContext(ctx).Info("password changed", slog.String("user_id", user.ID))
	return nil
}

// ForgotPassword begins the reset handshake: it persists the digest of a
// fresh reset token with a short expiry, then hands the plaintext to the
// Notifier. The send runs detached from the request with its own bounded
// timeout, and a delivery failure never rolls the token back; the user can
// request another link, and the token dies on its own at expiry.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return E(KindValidation, "email is required")
	}

	email = domain.NormalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return E(KindNotFound, "no account with that email")
		}
		return Ewrap(KindInternal, "failed to load user", err)
	}

	plaintext, digest, err := cryptox.GenerateResetToken()
	if err != nil {
		return Ewrap(KindInternal, "failed to generate reset token", err)
	}

	expiresAt := time.Now().UTC().Add(s.resetTTL())
	if err := s.Store.Users().SetResetToken(ctx, user.ID, digest, expiresAt); err != nil {
		return Ewrap(KindInternal, "failed to persist reset token", err)
	}

	log := slogx.FromContext(ctx)
	log.Info("reset token issued",
		slog.String("user_id", user.ID),
		slog.Time("expires_at", expiresAt),
	)

	body := fmt.Sprintf(
		"You requested a password reset.\n\nFollow this link to choose a new password:\n\n%s/%s\n\nThe link expires in %s. If you did not request this, ignore this email.",
		s.ResetBaseURL, plaintext, s.resetTTL(),
	)

	go func() {
		// Detach from the request context; the response does not wait for
		// the mail and a cancelled request must not cancel the send.
		sendCtx, cancel := context.WithTimeout(context.Background(), s.notifyWait())
		defer cancel()

		if err := s.Notifier.Send(sendCtx, user.Email, "Password recovery", body); err != nil {
			log.Warn("reset email delivery failed; token remains valid until expiry",
				slog.String("user_id", user.ID),
				slog.Any("err", err),
			)
		}
	}()

	return nil
}

// ResetPassword completes the handshake: the presented plaintext is digested
// and looked up with the expiry filter, the new password is hashed and
// stored, and the reset fields are cleared in the same transaction so the
// token can never be replayed. Invalid and expired tokens are one error.
func (s *AuthService) ResetPassword(ctx context.Context, plaintextToken, newPassword string) error {
	if plaintextToken == "" || newPassword == "" {
		return E(KindValidation, "reset token and new password are required")
	}

	digest := cryptox.ResetTokenDigest(plaintextToken)

	user, err := s.Store.Users().GetUserByResetDigest(ctx, digest, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return E(KindToken, "reset token is invalid or expired")
		}
		return Ewrap(KindInternal, "failed to look up reset token", err)
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return Ewrap(KindInternal, "failed to hash password", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return err
		}
		return tx.Users().ClearResetToken(ctx, user.ID)
	})
	if err != nil {
		return Ewrap(KindInternal, "failed to reset password", err)
	}

	slogx.FromContext(ctx).Info("password reset completed", slog.String("user_id", user.ID))
	return nil
}
