package http

import (
	"net/http"

	"github.com/cobaltworks/authd/internal/authd/service"
	"github.com/cobaltworks/authd/pkg/authapi"
	"github.com/cobaltworks/authd/pkg/httpx"
	"github.com/cobaltworks/authd/pkg/slogx"
)

type ForgotPasswordHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP starts password recovery for the given email. The response only
// confirms the request was taken; delivery of the mail happens in the
// background and its outcome does not change the status code.
func (h *ForgotPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authapi.ForgotPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authapi.ErrInvalidBody.WriteError(w)
		return
	}

	if err := h.AuthService.ForgotPassword(ctx, req.Email); err != nil {
		if service.KindOf(err) == service.KindInternal {
			log.Error("forgot password failed", "err", err)
		}
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.MessageResponse{
		Message: "recovery email sent",
	})
}
