package mocks

import (
	"context"
	"database/sql"

	"github.com/phrazzld/taskplanner/internal/domain"
	"github.com/phrazzld/taskplanner/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockUserStore is a mock of store.UserStore interface for use with testify/mock
type TestifyMockUserStore struct {
	mock.Mock
}

var _ store.UserStore = (*TestifyMockUserStore)(nil)

// GetOrCreate is a mock implementation of store.UserStore.GetOrCreate
func (m *TestifyMockUserStore) GetOrCreate(ctx context.Context, telegramID string) (*domain.User, bool, error) {
	args := m.Called(ctx, telegramID)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

// GetByTelegramID is a mock implementation of store.UserStore.GetByTelegramID
func (m *TestifyMockUserStore) GetByTelegramID(ctx context.Context, telegramID string) (*domain.User, error) {
	args := m.Called(ctx, telegramID)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// SetNotifications is a mock implementation of store.UserStore.SetNotifications
func (m *TestifyMockUserStore) SetNotifications(ctx context.Context, userID int64, enabled bool) error {
	args := m.Called(ctx, userID, enabled)
	return args.Error(0)
}

// WithTx is a mock implementation of store.UserStore.WithTx
func (m *TestifyMockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	args := m.Called(tx)
	if ret, ok := args.Get(0).(store.UserStore); ok {
		return ret
	}
	return m
}
