// Package delivery defines where reminder and overdue messages go.
//
// The scheduler depends only on Sink. The production implementation lives
// in internal/platform/telegram; LogSink is used for dry runs.
package delivery

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// ErrEmptyRecipient is returned when a message has no recipient.
var ErrEmptyRecipient = errors.New("recipient id is empty")

// Sink sends a text message to a recipient identified by its external chat
// id. Implementations must be safe for concurrent use and must not retry;
// a failed message is reported to the caller and is not re-queued.
type Sink interface {
	Notify(ctx context.Context, recipientID, text string) error
}

// SinkFunc adapts an ordinary function to the Sink interface.
type SinkFunc func(ctx context.Context, recipientID, text string) error

// Notify calls f.
func (f SinkFunc) Notify(ctx context.Context, recipientID, text string) error {
	return f(ctx, recipientID, text)
}

// LogSink writes messages to the log instead of sending them.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink. A nil logger means slog.Default().
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger.With(slog.String("component", "delivery"))}
}

// Notify implements Sink.
func (s *LogSink) Notify(ctx context.Context, recipientID, text string) error {
	if strings.TrimSpace(recipientID) == "" {
		return ErrEmptyRecipient
	}
	s.logger.InfoContext(ctx, "dry run: message not sent",
		slog.String("recipient_id", recipientID),
		slog.String("text", text))
	return nil
}
