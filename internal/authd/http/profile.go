package http

import (
	"net/http"

	"github.com/cobaltworks/authd/internal/authd/service"
	"github.com/cobaltworks/authd/pkg/authapi"
	"github.com/cobaltworks/authd/pkg/httpx"
	"github.com/cobaltworks/authd/pkg/slogx"
)

type ProfileHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP returns the authenticated user's public identity. The user id
// comes from the verified token, never from the request.
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		authapi.NewError(http.StatusUnauthorized, authapi.ErrorCodeUnauthorized, "missing subject").WriteError(w)
		return
	}

	identity, err := h.AuthService.GetProfile(ctx, userID)
	if err != nil {
		if service.KindOf(err) == service.KindInternal {
			log.Error("profile lookup failed", "user_id", userID, "err", err)
		}
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authapi.User{
		ID:       identity.ID,
		Username: identity.Username,
		Email:    identity.Email,
	})
}
