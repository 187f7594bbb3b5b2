// Package domain defines the core business entities of the planner: tasks,
// their owners, the statuses and priorities a task moves through, and the
// fixed set of reminder rules that decide when a due task triggers a message.
//
// It contains no persistence or transport code.
package domain
