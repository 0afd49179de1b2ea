package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cobaltworks/authd/pkg/jwtx"
)

func newAuthedRequest(t *testing.T, h *jwtx.HS256, mintedAt time.Time) *http.Request {
	t.Helper()

	claims := jwtx.NewSessionClaims("user-1", "a@example.com", "authd-test", time.Hour, mintedAt)
	token, err := h.Sign(claims)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAuthnMiddleware(t *testing.T) {
	t.Parallel()

	h := jwtx.NewHS256([]byte("test-secret"), "authd-test")

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthnMiddleware(h)(next)

	t.Run("valid token reaches handler with identity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newAuthedRequest(t, h, time.Now().UTC()))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "user-1", gotUserID)
	})

	t.Run("missing header is 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("non-bearer scheme is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token is 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newAuthedRequest(t, h, time.Now().UTC().Add(-2*time.Hour)))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "token expired")
	})

	t.Run("token signed with another secret is 401", func(t *testing.T) {
		other := jwtx.NewHS256([]byte("other-secret"), "authd-test")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newAuthedRequest(t, other, time.Now().UTC()))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
