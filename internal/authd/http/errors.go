package http

import (
	"errors"
	"net/http"

	"github.com/cobaltworks/authd/internal/authd/service"
	"github.com/cobaltworks/authd/pkg/authapi"
)

// writeServiceError translates a service error into the wire envelope. The
// mapping is by error kind only; the message is passed through because the
// service layer already writes messages safe to show a client.
func writeServiceError(w http.ResponseWriter, err error) {
	var status int
	var code string

	switch service.KindOf(err) {
	case service.KindValidation:
		status, code = http.StatusBadRequest, authapi.ErrorCodeValidation
	case service.KindConflict:
		status, code = http.StatusConflict, authapi.ErrorCodeConflict
	case service.KindAuth:
		status, code = http.StatusUnauthorized, authapi.ErrorCodeUnauthorized
	case service.KindNotFound:
		status, code = http.StatusNotFound, authapi.ErrorCodeNotFound
	case service.KindToken:
		status, code = http.StatusBadRequest, authapi.ErrorCodeInvalidToken
	default:
		// Internal details stay out of the response body.
		authapi.ErrServerError.WriteError(w)
		return
	}

	message := err.Error()
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}
	authapi.NewError(status, code, message).WriteError(w)
}
