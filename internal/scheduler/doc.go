// Package scheduler implements the notification loop.
//
// Every poll interval the scheduler scans the task store once per reminder
// rule for Active tasks whose due date falls in the window
// [now+lead-interval, now+lead], sends one reminder per matching row, then
// moves every Active task whose due date has passed to Overdue and sends an
// alert for each transition it performed.
//
// The scheduler keeps no state between cycles other than counters for
// reporting. A store connection fault makes it reconnect and skip only the
// step that failed; any other fault or panic aborts the cycle, which is
// retried after the poll interval. Only context cancellation ends Run.
package scheduler
