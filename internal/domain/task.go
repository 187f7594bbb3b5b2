package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTitleLength is the longest accepted task title, in runes.
const MaxTitleLength = 255

// TaskStatus mirrors the statuses lookup table.
type TaskStatus int

// Possible task status values. The numeric values are the primary keys of
// the statuses table and must not change.
const (
	StatusActive    TaskStatus = 1
	StatusCompleted TaskStatus = 2
	StatusOverdue   TaskStatus = 3
)

var statusNames = map[TaskStatus]string{
	StatusActive:    "в работе",
	StatusCompleted: "завершена",
	StatusOverdue:   "просрочена",
}

// String returns the user facing status name.
func (s TaskStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// ParseStatus resolves a user supplied status name, case-insensitively.
func ParseStatus(name string) (TaskStatus, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, name)
}

// Priority mirrors the priorities lookup table.
type Priority int

// Possible priority values, matching the priorities table keys.
const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

var priorityNames = map[Priority]string{
	PriorityLow:    "низкий",
	PriorityMedium: "средний",
	PriorityHigh:   "высокий",
}

// String returns the user facing priority name.
func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

// ParsePriority resolves a user supplied priority name, case-insensitively.
func ParsePriority(name string) (Priority, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for p, n := range priorityNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPriority, name)
}

// Task is a user-created unit of work with a deadline.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     time.Time  `json:"due_date"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates an Active task. The ID is assigned by the store.
// Returns an error if validation fails.
func NewTask(title, description string, priority Priority, due time.Time) (*Task, error) {
	now := time.Now()
	task := &Task{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		DueDate:     due,
		Status:      StatusActive,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if t.DueDate.IsZero() {
		return ErrInvalidDueDate
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}
