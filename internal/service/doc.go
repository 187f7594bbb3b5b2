// Package service contains the application use cases behind the chat
// commands. It orchestrates the domain model and the store interfaces
// (defined in internal/store) and never depends on a concrete database.
//
// Key components:
//
// 1. TaskService:
//   - registers chat users and toggles their notification preference
//   - creates, edits, deletes and lists tasks on behalf of their owner
//   - applies a transaction when a task and its assignment are saved together
//
// 2. Error Handling:
//   - expected conditions are returned as sentinel errors (ErrUserNotRegistered,
//     ErrTaskNotOwned) so callers can test them with errors.Is
//   - domain validation errors pass through unchanged
//   - everything else is wrapped in a TaskServiceError that records the operation
package service
