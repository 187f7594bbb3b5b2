package scheduler

import (
	"sync"
	"time"

	"github.com/phrazzld/taskplanner/internal/redact"
)

// CycleResult counts what a single cycle did.
type CycleResult struct {
	RemindersSent    int `json:"reminders_sent"`
	AlertsSent       int `json:"alerts_sent"`
	MarkedOverdue    int `json:"marked_overdue"`
	DeliveryFailures int `json:"delivery_failures"`
	Suppressed       int `json:"suppressed"`
	SkippedSteps     int `json:"skipped_steps"`
	Reconnects       int `json:"reconnects"`
}

func (r *CycleResult) add(o CycleResult) {
	r.RemindersSent += o.RemindersSent
	r.AlertsSent += o.AlertsSent
	r.MarkedOverdue += o.MarkedOverdue
	r.DeliveryFailures += o.DeliveryFailures
	r.Suppressed += o.Suppressed
	r.SkippedSteps += o.SkippedSteps
	r.Reconnects += o.Reconnects
}

// Stats is a snapshot of the scheduler's activity since start.
type Stats struct {
	Cycles            int           `json:"cycles"`
	FailedCycles      int           `json:"failed_cycles"`
	LastCycleID       string        `json:"last_cycle_id,omitempty"`
	LastCycleAt       time.Time     `json:"last_cycle_at,omitempty"`
	LastCycleDuration time.Duration `json:"last_cycle_duration_ns"`
	LastError         string        `json:"last_error,omitempty"`
	LastCycle         CycleResult   `json:"last_cycle"`
	Totals            CycleResult   `json:"totals"`
}

type statsRecorder struct {
	mu    sync.RWMutex
	stats Stats
}

func (s *statsRecorder) record(id string, at time.Time, took time.Duration, res CycleResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Cycles++
	s.stats.LastCycleID = id
	s.stats.LastCycleAt = at
	s.stats.LastCycleDuration = took
	s.stats.LastCycle = res
	s.stats.Totals.add(res)
	s.stats.LastError = ""
	if err != nil {
		s.stats.FailedCycles++
		s.stats.LastError = redact.Error(err)
	}
}

func (s *statsRecorder) snapshot() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}
