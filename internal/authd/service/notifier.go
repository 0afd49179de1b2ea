package service

import "context"

// Notifier delivers the password-reset email. Implementations live in
// internal/authd/mail; the service only holds this narrow contract so tests
// can substitute a capture double.
//
// Send errors are non-fatal to every caller in this package: a reset token
// that was persisted stays persisted even if the mail bounces, so the user
// can retry the forgot-password flow until the token expires naturally.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}
