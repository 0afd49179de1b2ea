package domain

import (
	"strings"
	"time"
)

// User is the persisted credential record. PasswordHash always holds an
// argon2 PHC string, never a plaintext. The reset fields are both nil when no
// reset is pending; they are set together and cleared together.
type User struct {
	ID           string
	Username     string
	Email        string // stored case-normalized, unique
	PasswordHash string // argon2 encoded

	// Pending password-reset state. Only the digest of the reset token is
	// ever stored; the plaintext exists once, in the email.
	ResetTokenDigest    *string
	ResetTokenExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is the public projection of a User: everything a caller may see,
// nothing they may not.
type Identity struct {
	ID       string
	Username string
	Email    string
}

// Identity returns the public projection of u.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username, Email: u.Email}
}

// HasPendingReset reports whether a reset token is outstanding at the given
// instant.
func (u User) HasPendingReset(now time.Time) bool {
	return u.ResetTokenDigest != nil &&
		u.ResetTokenExpiresAt != nil &&
		now.Before(*u.ResetTokenExpiresAt)
}

// NormalizeEmail lowercases and trims an email address. Emails are the
// natural lookup key, so every path that touches one goes through here first.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
