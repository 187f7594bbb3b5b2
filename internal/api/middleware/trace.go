// Package middleware contains HTTP middleware for the ops API.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskplanner/internal/api/shared"
	"github.com/phrazzld/taskplanner/internal/platform/logger"
)

// NewTraceMiddleware adds a trace ID to the request context and stores a
// request scoped logger carrying it, so handlers can use logger.FromContext.
// It should be applied early in the middleware chain.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			log := base.With(slog.String("trace_id", shared.GetTraceID(ctx)))
			ctx = logger.WithLogger(ctx, log)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
