package authapi

import (
	"fmt"
	"net/http"

	"github.com/cobaltworks/authd/pkg/httpx"
)

// Error codes carried in the "error" field of every failure response.
const (
	ErrorCodeValidation   = "validation_error"
	ErrorCodeConflict     = "conflict"
	ErrorCodeUnauthorized = "unauthorized"
	ErrorCodeNotFound     = "not_found"
	ErrorCodeInvalidToken = "invalid_token"
	ErrorCodeServerError  = "server_error"
)

// Error is the HTTP error envelope. It implements the error interface and is
// used both by the server (to write responses) and by API clients (to
// represent failures).
type Error struct {
	// StatusCode is the HTTP status code for this error.
	StatusCode int `json:"-"`

	// Code is the machine-readable error code.
	Code string `json:"error"`

	// Message is a human-readable description of the error.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WriteError writes this Error to an HTTP response writer.
func (e *Error) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, e)
}

// NewError creates an Error with the given status, code, and message. Used by
// handlers that need a message more specific than the predefined set below.
func NewError(statusCode int, code, message string) *Error {
	return &Error{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

var (
	// ErrInvalidBody is returned when the request body cannot be parsed.
	ErrInvalidBody = &Error{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeValidation,
		Message:    "invalid request body",
	}

	// ErrServerError is returned for any unexpected internal failure.
	ErrServerError = &Error{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrorCodeServerError,
		Message:    "internal server error",
	}
)
