package service

import "errors"

// Sentinel errors returned by service implementations. Callers check them
// with errors.Is and translate them into user facing replies.
var (
	// ErrUserNotRegistered indicates the chat user has no users row yet.
	// The user has to send /start first.
	ErrUserNotRegistered = errors.New("user is not registered")

	// ErrTaskNotOwned indicates the task does not exist or is assigned to
	// another user. Missing and foreign tasks are not distinguished.
	ErrTaskNotOwned = errors.New("task not found or owned by another user")
)
