package scheduler_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/taskplanner/internal/domain"
	"github.com/phrazzld/taskplanner/internal/mocks"
	"github.com/phrazzld/taskplanner/internal/platform/logger"
	"github.com/phrazzld/taskplanner/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	id        int64
	title     string
	due       time.Time
	status    domain.TaskStatus
	recipient string
	notify    bool
}

// memTasks is an in-memory task table that backs a MockTaskStore with the
// same predicates the SQL queries use.
type memTasks struct {
	mu   sync.Mutex
	rows map[int64]*row
}

func newMemTasks(rows ...row) *memTasks {
	m := &memTasks{rows: make(map[int64]*row)}
	for i := range rows {
		r := rows[i]
		if r.status == 0 {
			r.status = domain.StatusActive
		}
		if r.recipient == "" {
			r.recipient = "100"
		}
		m.rows[r.id] = &r
	}
	return m
}

func (m *memTasks) status(id int64) domain.TaskStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id].status
}

func (m *memTasks) selectRows(match func(r *row) bool) []domain.DueTask {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.DueTask
	for _, r := range m.rows {
		if r.status == domain.StatusActive && match(r) {
			out = append(out, domain.DueTask{
				TaskID:               r.id,
				Title:                r.title,
				DueDate:              r.due,
				RecipientID:          r.recipient,
				NotificationsEnabled: r.notify,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskID < out[j].TaskID })
	return out
}

func (m *memTasks) store() *mocks.MockTaskStore {
	return &mocks.MockTaskStore{
		DueBetweenFn: func(ctx context.Context, from, to time.Time) ([]domain.DueTask, error) {
			return m.selectRows(func(r *row) bool {
				return !r.due.Before(from) && !r.due.After(to)
			}), nil
		},
		OverdueFn: func(ctx context.Context, now time.Time) ([]domain.DueTask, error) {
			return m.selectRows(func(r *row) bool { return r.due.Before(now) }), nil
		},
		MarkOverdueFn: func(ctx context.Context, taskID int64) (bool, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			r, ok := m.rows[taskID]
			if !ok || r.status != domain.StatusActive {
				return false, nil
			}
			r.status = domain.StatusOverdue
			return true, nil
		},
	}
}

type harness struct {
	sched       *scheduler.Scheduler
	tasks       *mocks.MockTaskStore
	sink        *mocks.MockSink
	reconnector *mocks.MockReconnector
	logs        *logger.TestLogBuffer
}

func testConfig() scheduler.Config {
	cfg := scheduler.DefaultConfig()
	cfg.Location = time.UTC
	cfg.QueryTimeout = time.Second
	return cfg
}

func newHarness(t *testing.T, tasks *mocks.MockTaskStore, now time.Time, cfg scheduler.Config) *harness {
	t.Helper()

	log, buf := logger.NewTestLogger(t)
	h := &harness{
		tasks:       tasks,
		sink:        &mocks.MockSink{},
		reconnector: &mocks.MockReconnector{},
		logs:        buf,
	}

	s, err := scheduler.New(scheduler.Deps{
		Tasks:       tasks,
		Sink:        h.sink,
		Reconnector: h.reconnector,
		Clock:       func() time.Time { return now },
	}, cfg, log)
	require.NoError(t, err)
	h.sched = s
	return h
}

func utc(year int, month time.Month, day, hour, minute, sec int) time.Time {
	return time.Date(year, month, day, hour, minute, sec, 0, time.UTC)
}

func assertWindow(t *testing.T, got mocks.DueBetweenCall, from, to time.Time) {
	t.Helper()
	assert.True(t, got.From.Equal(from), "window start: got %s, want %s", got.From, from)
	assert.True(t, got.To.Equal(to), "window end: got %s, want %s", got.To, to)
}
