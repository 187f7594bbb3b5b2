package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskplanner/internal/domain"
	"github.com/phrazzld/taskplanner/internal/platform/logger"
	"github.com/phrazzld/taskplanner/internal/store"
)

const dueTaskColumns = `t.id, t.title, t.duedate, u.telegramid, u.notifications_enabled`

const dueTaskJoin = `
	FROM tasks t
	JOIN tasksassignments ta ON ta.taskid = t.id
	JOIN users u ON u.id = ta.userid`

const taskColumns = `t.id, t.title, COALESCE(t.description, ''), t.duedate, t.statusid, t.priorityid, t.createdat, t.updatedat`

// updateFieldQueries holds one fixed statement per editable field. Column
// names are never built from user input.
var updateFieldQueries = map[domain.TaskField]string{
	domain.FieldTitle:       `UPDATE tasks SET title = $1, updatedat = NOW() WHERE id = $2`,
	domain.FieldDescription: `UPDATE tasks SET description = $1, updatedat = NOW() WHERE id = $2`,
	domain.FieldPriority:    `UPDATE tasks SET priorityid = $1, updatedat = NOW() WHERE id = $2`,
	domain.FieldStatus:      `UPDATE tasks SET statusid = $1, updatedat = NOW() WHERE id = $2`,
	domain.FieldDueDate:     `UPDATE tasks SET duedate = $1, updatedat = NOW() WHERE id = $2`,
}

// PostgresTaskStore implements the store.TaskStore interface using PostgreSQL.
type PostgresTaskStore struct {
	db  store.DBTX
	loc *time.Location
}

// NewPostgresTaskStore creates a new PostgresTaskStore. loc is the zone in
// which stored due dates are interpreted; nil means time.Local.
func NewPostgresTaskStore(db store.DBTX, loc *time.Location) *PostgresTaskStore {
	if loc == nil {
		loc = time.Local
	}
	return &PostgresTaskStore{db: db, loc: loc}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, loc: s.loc}
}

// DueBetween implements store.TaskStore.DueBetween
func (s *PostgresTaskStore) DueBetween(ctx context.Context, from, to time.Time) ([]domain.DueTask, error) {
	query := `SELECT ` + dueTaskColumns + dueTaskJoin + `
		WHERE t.statusid = $1 AND t.duedate BETWEEN $2 AND $3
		ORDER BY t.duedate, t.id`

	tasks, err := s.queryDue(ctx, query, domain.StatusActive, toWall(from, s.loc), toWall(to, s.loc))
	if err != nil {
		logger.FromContext(ctx).Error("failed to query due tasks",
			slog.Time("from", from),
			slog.Time("to", to),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query due tasks: %w", err)
	}
	return tasks, nil
}

// Overdue implements store.TaskStore.Overdue
func (s *PostgresTaskStore) Overdue(ctx context.Context, now time.Time) ([]domain.DueTask, error) {
	query := `SELECT ` + dueTaskColumns + dueTaskJoin + `
		WHERE t.statusid = $1 AND t.duedate < $2
		ORDER BY t.duedate, t.id`

	tasks, err := s.queryDue(ctx, query, domain.StatusActive, toWall(now, s.loc))
	if err != nil {
		logger.FromContext(ctx).Error("failed to query overdue tasks",
			slog.Time("now", now),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query overdue tasks: %w", err)
	}
	return tasks, nil
}

func (s *PostgresTaskStore) queryDue(ctx context.Context, query string, args ...any) ([]domain.DueTask, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []domain.DueTask
	for rows.Next() {
		var t domain.DueTask
		if err := rows.Scan(&t.TaskID, &t.Title, &t.DueDate, &t.RecipientID, &t.NotificationsEnabled); err != nil {
			return nil, MapError(err)
		}
		t.DueDate = fromWall(t.DueDate, s.loc)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return tasks, nil
}

// MarkOverdue implements store.TaskStore.MarkOverdue
func (s *PostgresTaskStore) MarkOverdue(ctx context.Context, taskID int64) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET statusid = $1, updatedat = NOW() WHERE id = $2 AND statusid = $3`,
		domain.StatusOverdue, taskID, domain.StatusActive)
	if err != nil {
		logger.FromContext(ctx).Error("failed to mark task overdue",
			slog.Int64("task_id", taskID),
			slog.String("error", err.Error()))
		return false, fmt.Errorf("failed to mark task overdue: %w", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return false, nil
		}
		return false, MapError(err)
	}
	return true, nil
}

// Create implements store.TaskStore.Create. The task row and its assignment
// are written with two statements; callers wanting atomicity run Create on
// a store obtained from WithTx.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task, userID int64) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	var createdAt, updatedAt time.Time
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO tasks (title, description, duedate, statusid, priorityid)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, createdat, updatedat`,
		task.Title, task.Description, toWall(task.DueDate, s.loc), task.Status, task.Priority,
	).Scan(&task.ID, &createdAt, &updatedAt)
	if err != nil {
		log.Error("failed to insert task",
			slog.String("title", task.Title),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to insert task: %w", MapError(err))
	}
	task.CreatedAt = fromWall(createdAt, s.loc)
	task.UpdatedAt = fromWall(updatedAt, s.loc)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tasksassignments (taskid, userid) VALUES ($1, $2)`,
		task.ID, userID)
	if err != nil {
		log.Error("failed to assign task",
			slog.Int64("task_id", task.ID),
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to assign task: %w", MapError(err))
	}

	log.Debug("task created", slog.Int64("task_id", task.ID), slog.Int64("user_id", userID))
	return nil
}

// GetForUser implements store.TaskStore.GetForUser
func (s *PostgresTaskStore) GetForUser(ctx context.Context, taskID, userID int64) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+`
		FROM tasks t
		JOIN tasksassignments ta ON ta.taskid = t.id
		WHERE t.id = $1 AND ta.userid = $2`, taskID, userID)

	task, err := s.scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", MapError(err))
	}
	return task, nil
}

// UpdateField implements store.TaskStore.UpdateField
func (s *PostgresTaskStore) UpdateField(ctx context.Context, taskID int64, field domain.TaskField, value any) error {
	query, ok := updateFieldQueries[field]
	if !ok {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidField)
	}

	arg, err := s.fieldArg(field, value)
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx, query, arg, taskID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to update task",
			slog.Int64("task_id", taskID),
			slog.String("field", string(field)),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to update task: %w", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

func (s *PostgresTaskStore) fieldArg(field domain.TaskField, value any) (any, error) {
	switch field {
	case domain.FieldTitle, domain.FieldDescription:
		v, ok := value.(string)
		if !ok {
			break
		}
		if field == domain.FieldTitle && v == "" {
			return nil, domain.ErrEmptyTitle
		}
		return v, nil
	case domain.FieldPriority:
		if v, ok := value.(domain.Priority); ok && v.Valid() {
			return int(v), nil
		}
		return nil, domain.ErrInvalidPriority
	case domain.FieldStatus:
		if v, ok := value.(domain.TaskStatus); ok && v.Valid() {
			return int(v), nil
		}
		return nil, domain.ErrInvalidStatus
	case domain.FieldDueDate:
		if v, ok := value.(time.Time); ok && !v.IsZero() {
			return toWall(v, s.loc), nil
		}
		return nil, domain.ErrInvalidDueDate
	}
	return nil, fmt.Errorf("%w: unexpected value %T for %s", domain.ErrValidation, value, field)
}

// Delete implements store.TaskStore.Delete. The assignment row goes with
// the task through ON DELETE CASCADE.
func (s *PostgresTaskStore) Delete(ctx context.Context, taskID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to delete task",
			slog.Int64("task_id", taskID),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete task: %w", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// ListByUser implements store.TaskStore.ListByUser
func (s *PostgresTaskStore) ListByUser(ctx context.Context, userID int64) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+`
		FROM tasks t
		JOIN tasksassignments ta ON ta.taskid = t.id
		WHERE ta.userid = $1
		ORDER BY t.duedate, t.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var tasks []domain.Task
	for rows.Next() {
		task, err := s.scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", MapError(err))
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", MapError(err))
	}
	return tasks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresTaskStore) scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.DueDate,
		&t.Status, &t.Priority, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.DueDate = fromWall(t.DueDate, s.loc)
	t.CreatedAt = fromWall(t.CreatedAt, s.loc)
	t.UpdatedAt = fromWall(t.UpdatedAt, s.loc)
	return &t, nil
}
