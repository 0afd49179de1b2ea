package http

import (
	"net/http"

	"github.com/cobaltworks/authd/internal/authd/service"
	"github.com/cobaltworks/authd/pkg/authapi"
	"github.com/cobaltworks/authd/pkg/httpx"
	"github.com/cobaltworks/authd/pkg/slogx"
)

type RegisterHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP creates a new account from a JSON body of username, email and
// password. On success it returns 201 with the public identity; the password
// never appears in any response.
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authapi.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authapi.ErrInvalidBody.WriteError(w)
		return
	}

	identity, err := h.AuthService.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		if service.KindOf(err) == service.KindInternal {
			log.Error("register failed", "err", err)
		}
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authapi.RegisterResponse{
		Message: "user registered successfully",
		User: authapi.User{
			ID:       identity.ID,
			Username: identity.Username,
			Email:    identity.Email,
		},
	})
}
