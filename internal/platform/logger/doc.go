// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels, and carries scoped loggers through context.Context so a
// poll cycle or an inbound command can be traced across packages.
package logger
