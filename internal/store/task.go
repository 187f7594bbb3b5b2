package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/taskplanner/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// DueBetween returns Active tasks whose due date lies in the closed
	// interval [from, to], joined with their assignee.
	DueBetween(ctx context.Context, from, to time.Time) ([]domain.DueTask, error)

	// Overdue returns Active tasks whose due date is strictly before now.
	Overdue(ctx context.Context, now time.Time) ([]domain.DueTask, error)

	// MarkOverdue moves an Active task to Overdue. It reports false, without
	// error, when the task was no longer Active (or no longer exists).
	MarkOverdue(ctx context.Context, taskID int64) (bool, error)

	// Create saves a new task and assigns it to userID.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task, userID int64) error

	// GetForUser retrieves a task assigned to userID.
	// Returns ErrTaskNotFound if the task does not exist or belongs to someone else.
	GetForUser(ctx context.Context, taskID, userID int64) (*domain.Task, error)

	// UpdateField sets a single editable field. value must already be of
	// the field's Go type (string, domain.Priority, domain.TaskStatus or time.Time).
	// Returns ErrTaskNotFound if the task does not exist.
	UpdateField(ctx context.Context, taskID int64, field domain.TaskField, value any) error

	// Delete removes a task and its assignment.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, taskID int64) error

	// ListByUser returns the user's tasks ordered by due date.
	ListByUser(ctx context.Context, userID int64) ([]domain.Task, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
