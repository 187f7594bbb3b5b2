package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// DueDateLayout is the layout used both to parse user input and to render
// due dates in messages.
const DueDateLayout = "2006-01-02 15:04"

// TaskField enumerates the task attributes that may be edited by a user.
type TaskField string

const (
	FieldTitle       TaskField = "title"
	FieldDescription TaskField = "description"
	FieldPriority    TaskField = "priority"
	FieldStatus      TaskField = "status"
	FieldDueDate     TaskField = "duedate"
)

// ParseTaskField resolves a field name typed by the user.
func ParseTaskField(name string) (TaskField, error) {
	f := TaskField(strings.ToLower(strings.TrimSpace(name)))
	switch f {
	case FieldTitle, FieldDescription, FieldPriority, FieldStatus, FieldDueDate:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidField, name)
}

// ParseDueDate parses a DueDateLayout value in loc.
func ParseDueDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DueDateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDueDate, s)
	}
	return t, nil
}

// FormatDueDate renders t with DueDateLayout.
func FormatDueDate(t time.Time) string {
	return t.Format(DueDateLayout)
}

// ParseFieldValue converts raw user input into the Go type stored for field:
// string for title and description, Priority, TaskStatus or time.Time.
// Due dates are interpreted in loc.
func ParseFieldValue(field TaskField, raw string, loc *time.Location) (any, error) {
	switch field {
	case FieldTitle:
		title := strings.TrimSpace(raw)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		if utf8.RuneCountInString(title) > MaxTitleLength {
			return nil, ErrTitleTooLong
		}
		return title, nil
	case FieldDescription:
		return strings.TrimSpace(raw), nil
	case FieldPriority:
		return ParsePriority(raw)
	case FieldStatus:
		return ParseStatus(raw)
	case FieldDueDate:
		return ParseDueDate(raw, loc)
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidField, field)
}
