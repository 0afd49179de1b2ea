package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cobaltworks/authd/pkg/idx"
)

// HTTPMiddleware logs requests and attaches a contextual logger into request
// context. Paths carrying secrets (reset tokens) are logged by route pattern,
// not raw URL, once the request has been matched; here we only see the raw
// path so the reset token segment is redacted explicitly.
func HTTPMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			// Generate a request ID if not provided via X-Request-ID header
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = idx.New().String()
			}

			logger := base.With(
				"req_id", reqID,
				"method", r.Method,
				"path", redactPath(r.URL.Path),
				"remote_addr", r.RemoteAddr,
			)

			// Attach to context for downstream use
			ctx := WithContext(r.Context(), logger)
			r = r.WithContext(ctx)

			next.ServeHTTP(rw, r)

			logger.Info("http_request",
				"status", rw.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"user_agent", r.UserAgent(),
			)
		})
	}
}

// redactPath hides the trailing secret on the reset-password route so reset
// tokens never land in logs.
func redactPath(path string) string {
	const prefix = "/reset-password/"
	if len(path) > len(prefix) && path[:len(prefix)] == prefix {
		return prefix + "[redacted]"
	}
	return path
}

type responseWriter struct {
	http.ResponseWriter

	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
