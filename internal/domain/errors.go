package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyTitle is returned when a task has no title.
	ErrEmptyTitle = errors.New("task title cannot be empty")

	// ErrTitleTooLong is returned when a task title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("task title is too long")

	// ErrInvalidPriority is returned for an unknown priority.
	ErrInvalidPriority = errors.New("invalid task priority")

	// ErrInvalidStatus is returned for an unknown status.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrInvalidDueDate is returned when a due date cannot be parsed or is zero.
	ErrInvalidDueDate = errors.New("invalid due date")

	// ErrInvalidField is returned when an edit targets an unknown task field.
	ErrInvalidField = errors.New("invalid task field")

	// ErrEmptyRecipient is returned when a user has no external chat identity.
	ErrEmptyRecipient = errors.New("telegram id cannot be empty")
)
