package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/taskplanner/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// GetOrCreate returns the user with the given telegram id, creating it
	// with notifications enabled when missing. created reports whether a
	// new row was inserted.
	GetOrCreate(ctx context.Context, telegramID string) (user *domain.User, created bool, err error)

	// GetByTelegramID retrieves a user by their chat identity.
	// Returns ErrUserNotFound if the user does not exist.
	GetByTelegramID(ctx context.Context, telegramID string) (*domain.User, error)

	// SetNotifications toggles the user's notification preference.
	// Returns ErrUserNotFound if the user does not exist.
	SetNotifications(ctx context.Context, userID int64, enabled bool) error

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
