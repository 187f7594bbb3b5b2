package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskplanner/internal/delivery"
	"github.com/phrazzld/taskplanner/internal/store"
)

// ErrCyclePanic wraps a panic recovered at the cycle boundary.
var ErrCyclePanic = errors.New("scheduler cycle panicked")

// Reconnector re-establishes the store connection after a connection fault.
type Reconnector interface {
	Reconnect(ctx context.Context) error
}

// Deps are the collaborators of a Scheduler.
type Deps struct {
	Tasks       store.TaskStore
	Sink        delivery.Sink
	Reconnector Reconnector
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// Scheduler runs reminder and overdue cycles until its context is cancelled.
type Scheduler struct {
	tasks       store.TaskStore
	sink        delivery.Sink
	reconnector Reconnector
	clock       func() time.Time
	cfg         Config
	logger      *slog.Logger
	stats       statsRecorder
}

// New creates a Scheduler. Tasks, Sink and Reconnector are required.
func New(deps Deps, cfg Config, logger *slog.Logger) (*Scheduler, error) {
	if deps.Tasks == nil {
		return nil, errors.New("scheduler requires a task store")
	}
	if deps.Sink == nil {
		return nil, errors.New("scheduler requires a delivery sink")
	}
	if deps.Reconnector == nil {
		return nil, errors.New("scheduler requires a reconnector")
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid scheduler configuration: %w", err)
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		tasks:       deps.Tasks,
		sink:        deps.Sink,
		reconnector: deps.Reconnector,
		clock:       deps.Clock,
		cfg:         cfg,
		logger:      logger.With("component", "scheduler"),
	}, nil
}

// Run executes cycles back to back, sleeping PollInterval after each one,
// until ctx is cancelled. Cycle failures are logged and never end the loop.
// Run returns nil on cancellation.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started",
		"poll_interval", s.cfg.PollInterval,
		"query_timeout", s.cfg.QueryTimeout,
		"timezone", s.cfg.Location.String(),
		"rules", len(s.cfg.Rules),
		"respect_notification_preference", s.cfg.RespectNotificationPreference)

	for {
		if ctx.Err() != nil {
			break
		}

		if err := s.RunCycle(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("scheduler cycle failed, backing off",
				"error", err,
				"backoff", s.cfg.PollInterval)
		}

		if !sleep(ctx, s.cfg.PollInterval) {
			break
		}
	}

	s.logger.Info("scheduler stopped")
	return nil
}

// Stats returns a snapshot of the scheduler counters.
func (s *Scheduler) Stats() Stats {
	return s.stats.snapshot()
}

// sleep waits for d or until ctx is done. It reports whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
