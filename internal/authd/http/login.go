package http

import (
	"net/http"

	"github.com/cobaltworks/authd/internal/authd/service"
	"github.com/cobaltworks/authd/pkg/authapi"
	"github.com/cobaltworks/authd/pkg/httpx"
	"github.com/cobaltworks/authd/pkg/slogx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP authenticates email and password and returns a bearer token for
// subsequent requests. Unknown email and wrong password produce the same 401.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authapi.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authapi.ErrInvalidBody.WriteError(w)
		return
	}

	token, identity, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if service.KindOf(err) == service.KindInternal {
			log.Error("login failed", "err", err)
		}
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.LoginResponse{
		Message: "login successful",
		Token:   token,
		User: authapi.User{
			ID:       identity.ID,
			Username: identity.Username,
			Email:    identity.Email,
		},
	})
}
