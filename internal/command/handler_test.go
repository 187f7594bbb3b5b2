package command

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/taskplanner/internal/domain"
	"github.com/phrazzld/taskplanner/internal/platform/logger"
	"github.com/phrazzld/taskplanner/internal/service"
	"github.com/phrazzld/taskplanner/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTasks implements service.TaskService with optional function fields.
type fakeTasks struct {
	RegisterFn         func(ctx context.Context, telegramID string) (*domain.User, bool, error)
	AddTaskFn          func(ctx context.Context, telegramID string, in service.NewTaskInput) (*domain.Task, error)
	EditTaskFn         func(ctx context.Context, telegramID string, taskID int64, field domain.TaskField, raw string) error
	DeleteTaskFn       func(ctx context.Context, telegramID string, taskID int64) error
	ListTasksFn        func(ctx context.Context, telegramID string) ([]domain.Task, error)
	SetNotificationsFn func(ctx context.Context, telegramID string, enabled bool) error

	added []service.NewTaskInput
}

func (f *fakeTasks) Register(ctx context.Context, telegramID string) (*domain.User, bool, error) {
	if f.RegisterFn != nil {
		return f.RegisterFn(ctx, telegramID)
	}
	return &domain.User{ID: 1, TelegramID: telegramID}, true, nil
}

func (f *fakeTasks) AddTask(ctx context.Context, telegramID string, in service.NewTaskInput) (*domain.Task, error) {
	f.added = append(f.added, in)
	if f.AddTaskFn != nil {
		return f.AddTaskFn(ctx, telegramID, in)
	}
	return &domain.Task{ID: 1}, nil
}

func (f *fakeTasks) EditTask(ctx context.Context, telegramID string, taskID int64, field domain.TaskField, raw string) error {
	if f.EditTaskFn != nil {
		return f.EditTaskFn(ctx, telegramID, taskID, field, raw)
	}
	return nil
}

func (f *fakeTasks) DeleteTask(ctx context.Context, telegramID string, taskID int64) error {
	if f.DeleteTaskFn != nil {
		return f.DeleteTaskFn(ctx, telegramID, taskID)
	}
	return nil
}

func (f *fakeTasks) ListTasks(ctx context.Context, telegramID string) ([]domain.Task, error) {
	if f.ListTasksFn != nil {
		return f.ListTasksFn(ctx, telegramID)
	}
	return nil, nil
}

func (f *fakeTasks) SetNotifications(ctx context.Context, telegramID string, enabled bool) error {
	if f.SetNotificationsFn != nil {
		return f.SetNotificationsFn(ctx, telegramID, enabled)
	}
	return nil
}

func newTestHandler(t *testing.T, tasks *fakeTasks) *Handler {
	t.Helper()
	log, _ := logger.NewTestLogger(t)
	h, err := NewHandler(tasks, time.UTC, log)
	require.NoError(t, err)
	return h
}

func handle(t *testing.T, tasks *fakeTasks, command, args string) string {
	t.Helper()
	return newTestHandler(t, tasks).Handle(context.Background(), Request{UserID: "42", Command: command, Args: args})
}

func TestNewHandler_RequiresService(t *testing.T) {
	_, err := NewHandler(nil, nil, nil)
	assert.Error(t, err)
}

func TestHandle_StartAndHelp(t *testing.T) {
	t.Parallel()

	var registered string
	tasks := &fakeTasks{RegisterFn: func(_ context.Context, id string) (*domain.User, bool, error) {
		registered = id
		return &domain.User{ID: 1, TelegramID: id}, true, nil
	}}

	assert.Equal(t, replyStart, handle(t, tasks, "start", ""))
	assert.Equal(t, "42", registered)
	assert.Contains(t, handle(t, tasks, "help", ""), "/enable - Включить уведомления")

	failing := &fakeTasks{RegisterFn: func(context.Context, string) (*domain.User, bool, error) {
		return nil, false, store.ErrConnection
	}}
	assert.Equal(t, replyInternal, handle(t, failing, "start", ""))
}

func TestHandle_UnknownCommandIsIgnored(t *testing.T) {
	t.Parallel()
	assert.Empty(t, handle(t, &fakeTasks{}, "stats", ""))
}

func TestHandle_Add(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		tasks := &fakeTasks{}
		reply := handle(t, tasks, "add", "Отчёт; квартальный; Высокий; 2024-03-02 12:00")
		assert.Equal(t, replyTaskAdded, reply)
		require.Len(t, tasks.added, 1)
		assert.Equal(t, service.NewTaskInput{
			Title:       "Отчёт",
			Description: "квартальный",
			Priority:    domain.PriorityHigh,
			DueDate:     time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC),
		}, tasks.added[0])
	})

	tests := []struct {
		name string
		args string
		want string
	}{
		{"missing parts", "Отчёт; квартальный", msgAddFormat},
		{"no args", "", msgAddFormat},
		{"bad priority", "Отчёт; ; срочный; 2024-03-02 12:00", msgPriority},
		{"bad date", "Отчёт; ; низкий; 02.03.2024", msgDueDate},
		{"empty title", " ; ; низкий; 2024-03-02 12:00", msgEmptyTitle},
		{"long title", strings.Repeat("я", 256) + "; ; низкий; 2024-03-02 12:00", msgTitleTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := &fakeTasks{}
			reply := handle(t, tasks, "add", tt.args)
			assert.Equal(t, addError(tt.want), reply)
			assert.Empty(t, tasks.added)
		})
	}

	t.Run("unregistered user", func(t *testing.T) {
		tasks := &fakeTasks{AddTaskFn: func(context.Context, string, service.NewTaskInput) (*domain.Task, error) {
			return nil, service.ErrUserNotRegistered
		}}
		reply := handle(t, tasks, "add", "Отчёт; ; низкий; 2024-03-02 12:00")
		assert.Equal(t, addError(msgUserNotFound), reply)
	})

	t.Run("unexpected error is redacted", func(t *testing.T) {
		tasks := &fakeTasks{AddTaskFn: func(context.Context, string, service.NewTaskInput) (*domain.Task, error) {
			return nil, errors.New("dial postgres://bot:hunter2@db:5432/tasks failed")
		}}
		reply := handle(t, tasks, "add", "Отчёт; ; низкий; 2024-03-02 12:00")
		assert.Equal(t, replyUnknownError, reply)
		assert.NotContains(t, reply, "postgres")
	})
}

func TestHandle_Edit(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		var gotID int64
		var gotField domain.TaskField
		var gotRaw string
		tasks := &fakeTasks{EditTaskFn: func(_ context.Context, _ string, id int64, f domain.TaskField, raw string) error {
			gotID, gotField, gotRaw = id, f, raw
			return nil
		}}
		assert.Equal(t, replyTaskUpdated, handle(t, tasks, "edit", "12; Status; завершена"))
		assert.Equal(t, int64(12), gotID)
		assert.Equal(t, domain.FieldStatus, gotField)
		assert.Equal(t, "завершена", gotRaw)
	})

	tests := []struct {
		name string
		args string
		err  error
		want string
	}{
		{"missing parts", "12; title", nil, msgEditFormat},
		{"bad id", "abc; title; x", nil, msgEditFormat},
		{"non positive id", "0; title; x", nil, msgEditFormat},
		{"unknown field", "12; owner; x", nil, msgInvalidField},
		{"not owned", "12; title; x", service.ErrTaskNotOwned, msgNotOwnedEdit},
		{"bad status", "12; status; готово", domain.ErrInvalidStatus, msgStatus},
		{"bad date", "12; duedate; завтра", domain.ErrInvalidDueDate, msgDueDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := &fakeTasks{EditTaskFn: func(context.Context, string, int64, domain.TaskField, string) error {
				return tt.err
			}}
			assert.Equal(t, editError(tt.want), handle(t, tasks, "edit", tt.args))
		})
	}
}

func TestHandle_Delete(t *testing.T) {
	t.Parallel()

	var deleted int64
	tasks := &fakeTasks{DeleteTaskFn: func(_ context.Context, _ string, id int64) error {
		deleted = id
		return nil
	}}
	assert.Equal(t, replyTaskDeleted, handle(t, tasks, "delete", " 9 "))
	assert.Equal(t, int64(9), deleted)

	assert.Equal(t, usageDelete, handle(t, tasks, "delete", ""))
	assert.Equal(t, usageDelete, handle(t, tasks, "delete", "nine"))
	assert.Equal(t, usageDelete, handle(t, tasks, "delete", "-1"))

	notOwned := &fakeTasks{DeleteTaskFn: func(context.Context, string, int64) error {
		return service.ErrTaskNotOwned
	}}
	assert.Equal(t, "❌ Ошибка: "+msgNotOwnedDelete, handle(t, notOwned, "delete", "9"))

	failing := &fakeTasks{DeleteTaskFn: func(context.Context, string, int64) error {
		return store.ErrConnection
	}}
	reply := handle(t, failing, "delete", "9")
	assert.Equal(t, replyDeleteFailed, reply)
	assert.NotContains(t, reply, store.ErrConnection.Error())
}

func TestHandle_List(t *testing.T) {
	t.Parallel()

	assert.Equal(t, replyNoTasks, handle(t, &fakeTasks{}, "list", ""))

	due := time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)
	tasks := &fakeTasks{ListTasksFn: func(context.Context, string) ([]domain.Task, error) {
		return []domain.Task{{
			ID: 3, Title: "Отчёт", Description: "квартальный",
			Status: domain.StatusActive, Priority: domain.PriorityMedium, DueDate: due,
		}}, nil
	}}
	want := "Ваши задачи:\n\n" +
		"id: 3\n" +
		"Заголовок(title): Отчёт\n" +
		"Описание(description): квартальный\n" +
		"Статус(status): в работе\n" +
		"Приоритет(priority): средний\n" +
		"Срок(duedate): 2024-03-02 12:00\n" +
		"────────────"
	assert.Equal(t, want, handle(t, tasks, "list", ""))

	failing := &fakeTasks{ListTasksFn: func(context.Context, string) ([]domain.Task, error) {
		return nil, store.ErrConnection
	}}
	assert.Equal(t, replyListFailed, handle(t, failing, "list", ""))
}

func TestHandle_Notifications(t *testing.T) {
	t.Parallel()

	var got []bool
	tasks := &fakeTasks{SetNotificationsFn: func(_ context.Context, _ string, enabled bool) error {
		got = append(got, enabled)
		return nil
	}}
	assert.Equal(t, replyEnabled, handle(t, tasks, "enable", ""))
	assert.Equal(t, replyDisabled, handle(t, tasks, "disable", ""))
	assert.Equal(t, []bool{true, false}, got)

	failing := &fakeTasks{SetNotificationsFn: func(context.Context, string, bool) error {
		return store.ErrConnection
	}}
	assert.Equal(t, replyEnableFailed, handle(t, failing, "enable", ""))
	assert.Equal(t, replyDisableFailed, handle(t, failing, "disable", ""))
}

func TestHandle_RecoversFromPanic(t *testing.T) {
	t.Parallel()

	tasks := &fakeTasks{ListTasksFn: func(context.Context, string) ([]domain.Task, error) {
		panic("boom")
	}}
	assert.Equal(t, replyInternal, handle(t, tasks, "list", ""))
}
