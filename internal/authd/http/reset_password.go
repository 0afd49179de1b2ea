package http

import (
	"net/http"

	"github.com/cobaltworks/authd/internal/authd/service"
	"github.com/cobaltworks/authd/pkg/authapi"
	"github.com/cobaltworks/authd/pkg/httpx"
	"github.com/cobaltworks/authd/pkg/slogx"
)

type ResetPasswordHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP completes password recovery. The plaintext token rides in the
// URL path, the new password in the body. Invalid and expired tokens get the
// same answer so the endpoint cannot be used to probe token state.
func (h *ResetPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := r.PathValue("token")

	var req authapi.ResetPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authapi.ErrInvalidBody.WriteError(w)
		return
	}

	if err := h.AuthService.ResetPassword(ctx, token, req.Password); err != nil {
		if service.KindOf(err) == service.KindInternal {
			log.Error("password reset failed", "err", err)
		}
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.MessageResponse{
		Message: "password reset successfully",
	})
}
