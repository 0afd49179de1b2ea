package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure. The HTTP boundary maps kinds to status
// codes and nothing else; the kind assigned here is the kind the caller sees.
type Kind int

const (
	KindUnknown Kind = iota

	// KindValidation: missing or malformed input.
	KindValidation

	// KindConflict: the write collides with existing state (duplicate email).
	KindConflict

	// KindAuth: bad credentials. Deliberately one kind and one message for
	// both "no such user" and "wrong password" so responses don't leak which
	// emails are registered.
	KindAuth

	// KindNotFound: the referenced user does not exist.
	KindNotFound

	// KindToken: a reset token that is invalid or expired. Reported as a
	// single case so callers can't probe which.
	KindToken

	// KindInternal: store or crypto failure. Never carries detail outward.
	KindInternal
)

// Error is the service's typed error. All domain failures are constructed
// here in the orchestrator and carried verbatim to the boundary.
type Error struct {
	Kind    Kind
	Message string
	err     error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.err }

// E constructs a service error of the given kind.
func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Ewrap constructs a service error wrapping an underlying cause.
func Ewrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, err: err}
}

// KindOf extracts the Kind from err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}
