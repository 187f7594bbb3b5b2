package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskplanner/internal/domain"
	"github.com/phrazzld/taskplanner/internal/platform/logger"
	"github.com/phrazzld/taskplanner/internal/store"
)

const userColumns = `id, telegramid, notifications_enabled, createdat`

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db store.DBTX
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database handle that should be initialized and managed by the caller.
func NewPostgresUserStore(db store.DBTX) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx}
}

// GetOrCreate implements store.UserStore.GetOrCreate
func (s *PostgresUserStore) GetOrCreate(ctx context.Context, telegramID string) (*domain.User, bool, error) {
	log := logger.FromContext(ctx)

	candidate, err := domain.NewUser(telegramID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	user, err := s.scanUser(s.db.QueryRowContext(ctx, `
		INSERT INTO users (telegramid, notifications_enabled)
		VALUES ($1, $2)
		ON CONFLICT (telegramid) DO NOTHING
		RETURNING `+userColumns,
		candidate.TelegramID, candidate.NotificationsEnabled))
	switch {
	case err == nil:
		log.Info("registered new user",
			slog.Int64("user_id", user.ID),
			slog.String("telegram_id", user.TelegramID))
		return user, true, nil
	case errors.Is(err, sql.ErrNoRows):
		// Already registered.
	default:
		log.Error("failed to register user",
			slog.String("telegram_id", candidate.TelegramID),
			slog.String("error", err.Error()))
		return nil, false, fmt.Errorf("failed to register user: %w", MapError(err))
	}

	user, err = s.GetByTelegramID(ctx, candidate.TelegramID)
	if err != nil {
		return nil, false, err
	}
	return user, false, nil
}

// GetByTelegramID implements store.UserStore.GetByTelegramID
func (s *PostgresUserStore) GetByTelegramID(ctx context.Context, telegramID string) (*domain.User, error) {
	user, err := s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE telegramid = $1`, telegramID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", MapError(err))
	}
	return user, nil
}

// SetNotifications implements store.UserStore.SetNotifications
func (s *PostgresUserStore) SetNotifications(ctx context.Context, userID int64, enabled bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET notifications_enabled = $1 WHERE id = $2`, enabled, userID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to update notification preference",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to update notification preference: %w", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

func (s *PostgresUserStore) scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.TelegramID, &u.NotificationsEnabled, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
