package mocks

import (
	"context"
	"sync"
)

// Message is one delivery recorded by MockSink.
type Message struct {
	RecipientID string
	Text        string
}

// MockSink implements delivery.Sink and records every attempt, including
// the ones NotifyFn fails.
type MockSink struct {
	NotifyFn func(ctx context.Context, recipientID, text string) error

	mu       sync.Mutex
	attempts []Message
}

// Notify implements delivery.Sink.
func (m *MockSink) Notify(ctx context.Context, recipientID, text string) error {
	m.mu.Lock()
	m.attempts = append(m.attempts, Message{RecipientID: recipientID, Text: text})
	m.mu.Unlock()

	if m.NotifyFn != nil {
		return m.NotifyFn(ctx, recipientID, text)
	}
	return nil
}

// Attempts returns a copy of all recorded deliveries.
func (m *MockSink) Attempts() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.attempts...)
}

// Reset forgets recorded deliveries.
func (m *MockSink) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = nil
}
