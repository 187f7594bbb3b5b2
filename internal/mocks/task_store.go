package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/phrazzld/taskplanner/internal/domain"
	"github.com/phrazzld/taskplanner/internal/store"
)

// DueBetweenCall records one DueBetween invocation.
type DueBetweenCall struct {
	From, To time.Time
}

// UpdateFieldCall records one UpdateField invocation.
type UpdateFieldCall struct {
	TaskID int64
	Field  domain.TaskField
	Value  any
}

// MockTaskStore implements store.TaskStore for testing.
type MockTaskStore struct {
	DueBetweenFn  func(ctx context.Context, from, to time.Time) ([]domain.DueTask, error)
	OverdueFn     func(ctx context.Context, now time.Time) ([]domain.DueTask, error)
	MarkOverdueFn func(ctx context.Context, taskID int64) (bool, error)
	CreateFn      func(ctx context.Context, task *domain.Task, userID int64) error
	GetForUserFn  func(ctx context.Context, taskID, userID int64) (*domain.Task, error)
	UpdateFieldFn func(ctx context.Context, taskID int64, field domain.TaskField, value any) error
	DeleteFn      func(ctx context.Context, taskID int64) error
	ListByUserFn  func(ctx context.Context, userID int64) ([]domain.Task, error)

	mu               sync.Mutex
	DueBetweenCalls  []DueBetweenCall
	OverdueCalls     []time.Time
	MarkOverdueCalls []int64
	CreateCalls      []domain.Task
	UpdateFieldCalls []UpdateFieldCall
	DeleteCalls      []int64
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// DueBetween implements store.TaskStore.
func (m *MockTaskStore) DueBetween(ctx context.Context, from, to time.Time) ([]domain.DueTask, error) {
	m.mu.Lock()
	m.DueBetweenCalls = append(m.DueBetweenCalls, DueBetweenCall{From: from, To: to})
	m.mu.Unlock()

	if m.DueBetweenFn != nil {
		return m.DueBetweenFn(ctx, from, to)
	}
	return nil, nil
}

// Overdue implements store.TaskStore.
func (m *MockTaskStore) Overdue(ctx context.Context, now time.Time) ([]domain.DueTask, error) {
	m.mu.Lock()
	m.OverdueCalls = append(m.OverdueCalls, now)
	m.mu.Unlock()

	if m.OverdueFn != nil {
		return m.OverdueFn(ctx, now)
	}
	return nil, nil
}

// MarkOverdue implements store.TaskStore.
func (m *MockTaskStore) MarkOverdue(ctx context.Context, taskID int64) (bool, error) {
	m.mu.Lock()
	m.MarkOverdueCalls = append(m.MarkOverdueCalls, taskID)
	m.mu.Unlock()

	if m.MarkOverdueFn != nil {
		return m.MarkOverdueFn(ctx, taskID)
	}
	return true, nil
}

// Create implements store.TaskStore.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task, userID int64) error {
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, *task)
	m.mu.Unlock()

	if m.CreateFn != nil {
		return m.CreateFn(ctx, task, userID)
	}
	return nil
}

// GetForUser implements store.TaskStore.
func (m *MockTaskStore) GetForUser(ctx context.Context, taskID, userID int64) (*domain.Task, error) {
	if m.GetForUserFn != nil {
		return m.GetForUserFn(ctx, taskID, userID)
	}
	return nil, store.ErrTaskNotFound
}

// UpdateField implements store.TaskStore.
func (m *MockTaskStore) UpdateField(ctx context.Context, taskID int64, field domain.TaskField, value any) error {
	m.mu.Lock()
	m.UpdateFieldCalls = append(m.UpdateFieldCalls, UpdateFieldCall{TaskID: taskID, Field: field, Value: value})
	m.mu.Unlock()

	if m.UpdateFieldFn != nil {
		return m.UpdateFieldFn(ctx, taskID, field, value)
	}
	return nil
}

// Delete implements store.TaskStore.
func (m *MockTaskStore) Delete(ctx context.Context, taskID int64) error {
	m.mu.Lock()
	m.DeleteCalls = append(m.DeleteCalls, taskID)
	m.mu.Unlock()

	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, taskID)
	}
	return nil
}

// ListByUser implements store.TaskStore.
func (m *MockTaskStore) ListByUser(ctx context.Context, userID int64) ([]domain.Task, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

// WithTx returns the mock itself; transactions are not modelled.
func (m *MockTaskStore) WithTx(*sql.Tx) store.TaskStore {
	return m
}

// MarkOverdueCount returns the number of MarkOverdue calls so far.
func (m *MockTaskStore) MarkOverdueCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.MarkOverdueCalls)
}
