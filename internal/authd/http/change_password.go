package http

import (
	"net/http"

	"github.com/cobaltworks/authd/internal/authd/service"
	"github.com/cobaltworks/authd/pkg/authapi"
	"github.com/cobaltworks/authd/pkg/httpx"
	"github.com/cobaltworks/authd/pkg/slogx"
)

type ChangePasswordHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP changes the authenticated user's password after re-verifying the
// current one. Any pending reset token is invalidated as part of the change.
func (h *ChangePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		authapi.NewError(http.StatusUnauthorized, authapi.ErrorCodeUnauthorized, "missing subject").WriteError(w)
		return
	}

	var req authapi.ChangePasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authapi.ErrInvalidBody.WriteError(w)
		return
	}

	if err := h.AuthService.ChangePassword(ctx, userID, req.OldPassword, req.NewPassword); err != nil {
		if service.KindOf(err) == service.KindInternal {
			log.Error("password change failed", "user_id", userID, "err", err)
		}
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.MessageResponse{
		Message: "password updated successfully",
	})
}
