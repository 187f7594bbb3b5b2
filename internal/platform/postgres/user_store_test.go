package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/taskplanner/internal/platform/postgres"
	"github.com/phrazzld/taskplanner/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{"id", "telegramid", "notifications_enabled", "createdat"}

func TestPostgresUserStore_GetOrCreate(t *testing.T) {
	t.Parallel()

	t.Run("registers new user", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db)

		mock.ExpectQuery(q("ON CONFLICT (telegramid) DO NOTHING")).
			WithArgs("12345", true).
			WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(int64(1), "12345", true, time.Now()))

		user, created, err := s.GetOrCreate(context.Background(), "12345")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, int64(1), user.ID)
		assert.True(t, user.NotificationsEnabled)
	})

	t.Run("returns existing user", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db)

		mock.ExpectQuery(q("ON CONFLICT (telegramid) DO NOTHING")).
			WillReturnRows(sqlmock.NewRows(userRowColumns))
		mock.ExpectQuery(q("FROM users WHERE telegramid = $1")).
			WithArgs("12345").
			WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(int64(9), "12345", false, time.Now()))

		user, created, err := s.GetOrCreate(context.Background(), "12345")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, int64(9), user.ID)
		assert.False(t, user.NotificationsEnabled)
	})

	t.Run("empty id", func(t *testing.T) {
		db, _ := newMockDB(t)
		s := postgres.NewPostgresUserStore(db)

		_, _, err := s.GetOrCreate(context.Background(), " ")
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestPostgresUserStore_GetByTelegramID_NotFound(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := postgres.NewPostgresUserStore(db)

	mock.ExpectQuery(q("FROM users WHERE telegramid = $1")).
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := s.GetByTelegramID(context.Background(), "1")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestPostgresUserStore_SetNotifications(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := postgres.NewPostgresUserStore(db)

	mock.ExpectExec(q("UPDATE users SET notifications_enabled = $1 WHERE id = $2")).
		WithArgs(false, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("UPDATE users SET notifications_enabled = $1 WHERE id = $2")).
		WithArgs(true, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.SetNotifications(context.Background(), 1, false))
	assert.ErrorIs(t, s.SetNotifications(context.Background(), 2, true), store.ErrUserNotFound)
}
