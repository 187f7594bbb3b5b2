package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskplanner/internal/domain"
	"github.com/phrazzld/taskplanner/internal/store"
)

// NewTaskInput carries the already parsed fields of a new task.
type NewTaskInput struct {
	Title       string
	Description string
	Priority    domain.Priority
	DueDate     time.Time
}

// TaskService provides the task and user operations behind the chat commands.
// Users are identified by their chat identity (telegram id).
type TaskService interface {
	// Register creates the user if missing. created reports whether a new
	// user row was inserted.
	Register(ctx context.Context, telegramID string) (user *domain.User, created bool, err error)

	// AddTask creates an Active task assigned to the user.
	// Returns ErrUserNotRegistered if the user never registered.
	AddTask(ctx context.Context, telegramID string, in NewTaskInput) (*domain.Task, error)

	// EditTask parses raw for field and updates the task.
	// Returns ErrTaskNotOwned if the task is missing or belongs to someone else.
	EditTask(ctx context.Context, telegramID string, taskID int64, field domain.TaskField, raw string) error

	// DeleteTask removes a task owned by the user.
	DeleteTask(ctx context.Context, telegramID string, taskID int64) error

	// ListTasks returns the user's tasks ordered by due date. An unknown
	// user simply has no tasks.
	ListTasks(ctx context.Context, telegramID string) ([]domain.Task, error)

	// SetNotifications toggles whether reminders are wanted. The user is
	// registered on the fly so the preference is never lost.
	SetNotifications(ctx context.Context, telegramID string, enabled bool) error
}

// TaskServiceError wraps errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "add_task", "edit_task")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
// Known sentinel errors are returned directly without wrapping.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrUserNotRegistered), errors.Is(err, store.ErrUserNotFound):
		return ErrUserNotRegistered
	case errors.Is(err, ErrTaskNotOwned), errors.Is(err, store.ErrTaskNotFound):
		return ErrTaskNotOwned
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

type taskServiceImpl struct {
	tasks  store.TaskStore
	users  store.UserStore
	db     store.TxBeginner
	loc    *time.Location
	logger *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
// loc is the zone user supplied due dates are interpreted in; nil means Local.
func NewTaskService(
	tasks store.TaskStore,
	users store.UserStore,
	db store.TxBeginner,
	loc *time.Location,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "tasks store cannot be nil"}
	}
	if users == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "users store cannot be nil"}
	}
	if db == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:  tasks,
		users:  users,
		db:     db,
		loc:    loc,
		logger: logger.With("component", "task_service"),
	}, nil
}

// Register creates the user with notifications enabled when missing.
func (s *taskServiceImpl) Register(ctx context.Context, telegramID string) (*domain.User, bool, error) {
	user, created, err := s.users.GetOrCreate(ctx, telegramID)
	if err != nil {
		s.logger.Error("failed to register user",
			"error", err,
			"telegram_id", telegramID)
		return nil, false, NewTaskServiceError("register", "failed to register user", err)
	}
	if created {
		s.logger.Info("user registered",
			"user_id", user.ID,
			"telegram_id", telegramID)
	}
	return user, created, nil
}

// AddTask saves the task and its assignment in one transaction.
func (s *taskServiceImpl) AddTask(ctx context.Context, telegramID string, in NewTaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(in.Title, in.Description, in.Priority, in.DueDate)
	if err != nil {
		return nil, err
	}

	user, err := s.owner(ctx, "add_task", telegramID)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.tasks.WithTx(tx).Create(ctx, task, user.ID); err != nil {
			s.logger.Error("failed to create task in transaction",
				"error", err,
				"user_id", user.ID)
			return NewTaskServiceError("add_task", "failed to save task", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"user_id", user.ID,
		"due_date", task.DueDate)
	return task, nil
}

// EditTask checks ownership before validating the new value.
func (s *taskServiceImpl) EditTask(
	ctx context.Context,
	telegramID string,
	taskID int64,
	field domain.TaskField,
	raw string,
) error {
	if _, err := s.ownedTask(ctx, "edit_task", telegramID, taskID); err != nil {
		return err
	}

	value, err := domain.ParseFieldValue(field, raw, s.loc)
	if err != nil {
		return err
	}

	if err := s.tasks.UpdateField(ctx, taskID, field, value); err != nil {
		s.logger.Error("failed to update task",
			"error", err,
			"task_id", taskID,
			"field", string(field))
		return NewTaskServiceError("edit_task", "failed to update task", err)
	}

	s.logger.Info("task updated",
		"task_id", taskID,
		"field", string(field))
	return nil
}

// DeleteTask removes the task; the assignment row goes with it.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, telegramID string, taskID int64) error {
	if _, err := s.ownedTask(ctx, "delete_task", telegramID, taskID); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		s.logger.Error("failed to delete task",
			"error", err,
			"task_id", taskID)
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	s.logger.Info("task deleted", "task_id", taskID)
	return nil
}

// ListTasks returns an empty list for users that never registered.
func (s *taskServiceImpl) ListTasks(ctx context.Context, telegramID string) ([]domain.Task, error) {
	user, err := s.owner(ctx, "list_tasks", telegramID)
	if errors.Is(err, ErrUserNotRegistered) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByUser(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to list tasks",
			"error", err,
			"user_id", user.ID)
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// SetNotifications registers the user if needed and stores the preference.
func (s *taskServiceImpl) SetNotifications(ctx context.Context, telegramID string, enabled bool) error {
	user, _, err := s.Register(ctx, telegramID)
	if err != nil {
		return err
	}

	if err := s.users.SetNotifications(ctx, user.ID, enabled); err != nil {
		s.logger.Error("failed to update notification preference",
			"error", err,
			"user_id", user.ID,
			"enabled", enabled)
		return NewTaskServiceError("set_notifications", "failed to update preference", err)
	}

	s.logger.Info("notification preference updated",
		"user_id", user.ID,
		"enabled", enabled)
	return nil
}

func (s *taskServiceImpl) owner(ctx context.Context, op, telegramID string) (*domain.User, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to look up user",
				"error", err,
				"telegram_id", telegramID)
		}
		return nil, NewTaskServiceError(op, "failed to look up user", err)
	}
	return user, nil
}

// ownedTask resolves the task through the user's assignment, so foreign and
// missing tasks both surface as ErrTaskNotOwned.
func (s *taskServiceImpl) ownedTask(ctx context.Context, op, telegramID string, taskID int64) (*domain.Task, error) {
	user, err := s.owner(ctx, op, telegramID)
	if errors.Is(err, ErrUserNotRegistered) {
		return nil, ErrTaskNotOwned
	}
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.GetForUser(ctx, taskID, user.ID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to look up task",
				"error", err,
				"task_id", taskID,
				"user_id", user.ID)
		}
		return nil, NewTaskServiceError(op, "failed to look up task", err)
	}
	return task, nil
}
