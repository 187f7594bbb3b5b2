package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/phrazzld/taskplanner/internal/api/shared"
	"github.com/phrazzld/taskplanner/internal/scheduler"
	"github.com/phrazzld/taskplanner/internal/store"
)

// Pinger checks that the database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatsProvider reports scheduler activity.
type StatsProvider interface {
	Stats() scheduler.Stats
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Status    string          `json:"status"`
	Uptime    string          `json:"uptime"`
	Scheduler scheduler.Stats `json:"scheduler"`
}

// OpsHandler serves the health and status endpoints.
type OpsHandler struct {
	db          Pinger
	stats       StatsProvider
	pingTimeout time.Duration
	startedAt   time.Time
	now         func() time.Time
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(db Pinger, stats StatsProvider, pingTimeout time.Duration) *OpsHandler {
	if pingTimeout <= 0 {
		pingTimeout = 2 * time.Second
	}
	return &OpsHandler{
		db:          db,
		stats:       stats,
		pingTimeout: pingTimeout,
		startedAt:   time.Now(),
		now:         time.Now,
	}
}

// Healthz handles GET /healthz. It only proves the process is serving.
func (h *OpsHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz handles GET /readyz by pinging the database.
func (h *OpsHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.pingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrConnection) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		shared.RespondWithErrorAndLog(w, r, status, "database unavailable", err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

// Status handles GET /status.
func (h *OpsHandler) Status(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, StatusResponse{
		Status:    "ok",
		Uptime:    h.now().Sub(h.startedAt).Round(time.Second).String(),
		Scheduler: h.stats.Stats(),
	})
}
