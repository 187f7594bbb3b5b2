package mocks

import (
	"context"
	"sync/atomic"
)

// MockReconnector counts reconnect requests.
type MockReconnector struct {
	ReconnectFn func(ctx context.Context) error

	calls atomic.Int32
}

// Reconnect records the call and delegates to ReconnectFn when set.
func (m *MockReconnector) Reconnect(ctx context.Context) error {
	m.calls.Add(1)
	if m.ReconnectFn != nil {
		return m.ReconnectFn(ctx)
	}
	return nil
}

// Calls returns how many times Reconnect was invoked.
func (m *MockReconnector) Calls() int {
	return int(m.calls.Load())
}
