package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskplanner/internal/api"
	apiMiddleware "github.com/phrazzld/taskplanner/internal/api/middleware"
)

// setupRouter creates the ops router.
func setupRouter(ops *api.OpsHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(logger))

	r.Get("/healthz", ops.Healthz)
	r.Get("/readyz", ops.Readyz)
	r.Get("/status", ops.Status)

	return r
}
