package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskplanner/internal/domain"
	"github.com/phrazzld/taskplanner/internal/platform/logger"
	"github.com/phrazzld/taskplanner/internal/store"
)

// RunCycle performs one reminder and overdue scan. It returns the error
// that aborted the cycle, if any; connection faults and delivery failures
// are handled inside the cycle and do not abort it. A panic is recovered
// and returned as ErrCyclePanic.
func (s *Scheduler) RunCycle(ctx context.Context) (err error) {
	cycleID := uuid.NewString()
	log := s.logger.With("cycle_id", cycleID)
	ctx = logger.WithLogger(ctx, log)

	started := time.Now()
	now := s.clock().In(s.cfg.Location)
	var res CycleResult

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic in scheduler cycle",
				"panic", r,
				"stack", string(debug.Stack()))
			err = fmt.Errorf("%w: %v", ErrCyclePanic, r)
		}
		took := time.Since(started)
		s.stats.record(cycleID, now, took, res, err)
		log.Debug("scheduler cycle finished",
			"duration", took,
			"reminders_sent", res.RemindersSent,
			"alerts_sent", res.AlertsSent,
			"marked_overdue", res.MarkedOverdue,
			"delivery_failures", res.DeliveryFailures,
			"skipped_steps", res.SkippedSteps)
	}()

	log.Debug("scheduler cycle started", "now", now)

	for _, rule := range s.cfg.Rules {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.remind(ctx, log, rule, now, &res); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return s.processOverdue(ctx, log, now, &res)
}

func (s *Scheduler) remind(ctx context.Context, log *slog.Logger, rule domain.ReminderRule, now time.Time, res *CycleResult) error {
	from, to := rule.Window(now, s.cfg.PollInterval)

	qctx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	due, err := s.tasks.DueBetween(qctx, from, to)
	cancel()
	if err != nil {
		if s.isConnectionFault(ctx, err) {
			s.reconnect(ctx, log, err, res, "reminder_query", "rule", rule.Label)
			return nil
		}
		return fmt.Errorf("reminder query for %q: %w", rule.Label, err)
	}

	for _, t := range due {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.shouldDeliver(t) {
			res.Suppressed++
			continue
		}
		text := ReminderText(t.Title, rule, t.DueDate.In(s.cfg.Location))
		if s.deliver(ctx, log, t, text, "reminder", res) {
			res.RemindersSent++
		}
	}
	return nil
}

func (s *Scheduler) processOverdue(ctx context.Context, log *slog.Logger, now time.Time, res *CycleResult) error {
	qctx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	overdue, err := s.tasks.Overdue(qctx, now)
	cancel()
	if err != nil {
		if s.isConnectionFault(ctx, err) {
			s.reconnect(ctx, log, err, res, "overdue_query")
			return nil
		}
		return fmt.Errorf("overdue query: %w", err)
	}

	for _, t := range overdue {
		if err := ctx.Err(); err != nil {
			return err
		}

		qctx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
		changed, err := s.tasks.MarkOverdue(qctx, t.TaskID)
		cancel()
		if err != nil {
			if s.isConnectionFault(ctx, err) {
				// The transition is unconfirmed, so no alert.
				s.reconnect(ctx, log, err, res, "mark_overdue", "task_id", t.TaskID)
				continue
			}
			return fmt.Errorf("mark task %d overdue: %w", t.TaskID, err)
		}
		if !changed {
			log.Debug("task no longer active, skipping alert", "task_id", t.TaskID)
			continue
		}

		res.MarkedOverdue++
		log.Info("task marked overdue", "task_id", t.TaskID)

		if !s.shouldDeliver(t) {
			res.Suppressed++
			continue
		}
		text := OverdueText(t.Title, t.DueDate.In(s.cfg.Location))
		if s.deliver(ctx, log, t, text, "overdue", res) {
			res.AlertsSent++
		}
	}
	return nil
}

// deliver sends text and reports success. Failures are logged and counted.
func (s *Scheduler) deliver(ctx context.Context, log *slog.Logger, t domain.DueTask, text, kind string, res *CycleResult) bool {
	dctx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	if err := s.sink.Notify(dctx, t.RecipientID, text); err != nil {
		res.DeliveryFailures++
		log.Error("failed to deliver notification",
			"kind", kind,
			"task_id", t.TaskID,
			"recipient_id", t.RecipientID,
			"error", err)
		return false
	}
	log.Debug("notification delivered",
		"kind", kind,
		"task_id", t.TaskID,
		"recipient_id", t.RecipientID)
	return true
}

func (s *Scheduler) shouldDeliver(t domain.DueTask) bool {
	return !s.cfg.RespectNotificationPreference || t.NotificationsEnabled
}

// isConnectionFault treats an expired per-call deadline like a lost
// connection, but not a cancelled parent context.
func (s *Scheduler) isConnectionFault(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return errors.Is(err, store.ErrConnection) || errors.Is(err, context.DeadlineExceeded)
}

// reconnect re-establishes the store connection after a connection fault.
// The failed step is skipped by the caller. A failed reconnect is only
// logged because the next store call reopens the connection lazily.
func (s *Scheduler) reconnect(ctx context.Context, log *slog.Logger, cause error, res *CycleResult, step string, attrs ...any) {
	res.SkippedSteps++
	log.Warn("store connection fault, reconnecting and skipping step",
		append([]any{"step", step, "error", cause}, attrs...)...)

	rctx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	res.Reconnects++
	if err := s.reconnector.Reconnect(rctx); err != nil {
		log.Error("reconnect failed", "step", step, "error", err)
	}
}
