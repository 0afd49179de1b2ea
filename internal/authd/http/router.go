// Package http wires the credential service into net/http handlers.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cobaltworks/authd/internal/authd/service"
	"github.com/cobaltworks/authd/internal/authd/store"
	"github.com/cobaltworks/authd/pkg/httpx"
	"github.com/cobaltworks/authd/pkg/jwtx"
	"github.com/cobaltworks/authd/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	AuthService *service.AuthService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerRecovery()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccounts() {
	r.Mux.Handle("POST /register", &RegisterHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /login", &LoginHandler{AuthService: r.AuthService})

	// Bearer-protected endpoints.
	profile := &ProfileHandler{AuthService: r.AuthService}
	r.Mux.Handle("GET /profile",
		httpx.Chain(profile,
			httpx.AuthnMiddleware(r.verifier),
		),
	)

	change := &ChangePasswordHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /change-password",
		httpx.Chain(change,
			httpx.AuthnMiddleware(r.verifier),
		),
	)
}

func (r *Router) registerRecovery() {
	r.Mux.Handle("POST /forgot-password", &ForgotPasswordHandler{AuthService: r.AuthService})
	r.Mux.Handle("PUT /reset-password/{token}", &ResetPasswordHandler{AuthService: r.AuthService})
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
