// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the scheduler and the command layer, so neither depends on PostgreSQL
// directly.
//
// Implementations map driver errors onto the sentinels in errors.go. In
// particular every transient connectivity problem surfaces as ErrConnection,
// which the scheduler treats as a signal to reconnect rather than to abort.
package store
