package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskplanner/internal/domain"
	"github.com/phrazzld/taskplanner/internal/platform/logger"
	"github.com/phrazzld/taskplanner/internal/redact"
	"github.com/phrazzld/taskplanner/internal/service"
)

// Request is one chat command. UserID is the sender's chat identity.
type Request struct {
	UserID  string
	Command string
	Args    string
}

// Handler dispatches commands to the task service.
type Handler struct {
	tasks     service.TaskService
	validator *validator.Validate
	loc       *time.Location
	logger    *slog.Logger
}

// NewHandler creates a new Handler. loc is the zone due dates are read and
// rendered in; nil means Local.
func NewHandler(tasks service.TaskService, loc *time.Location, logger *slog.Logger) (*Handler, error) {
	if tasks == nil {
		return nil, errors.New("command handler: task service cannot be nil")
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		tasks:     tasks,
		validator: validator.New(),
		loc:       loc,
		logger:    logger.With("component", "command"),
	}, nil
}

// Handle executes req and returns the reply text. An empty reply means the
// command is not ours and nothing should be sent.
func (h *Handler) Handle(ctx context.Context, req Request) (reply string) {
	log := h.logger.With("command", req.Command, "user_id", req.UserID)
	ctx = logger.WithLogger(ctx, log)

	defer func() {
		if p := recover(); p != nil {
			log.Error("panic in command handler",
				"panic", p,
				"stack", string(debug.Stack()))
			reply = replyInternal
		}
	}()

	switch strings.ToLower(req.Command) {
	case "start":
		return h.start(ctx, req)
	case "help":
		return replyHelp
	case "add":
		return h.add(ctx, req)
	case "edit":
		return h.edit(ctx, req)
	case "delete":
		return h.deleteTask(ctx, req)
	case "list":
		return h.list(ctx, req)
	case "enable":
		return h.notifications(ctx, req, true)
	case "disable":
		return h.notifications(ctx, req, false)
	}
	return ""
}

func (h *Handler) start(ctx context.Context, req Request) string {
	if _, _, err := h.tasks.Register(ctx, req.UserID); err != nil {
		logger.FromContext(ctx).Error("failed to register user", "error", redact.Error(err))
		return replyInternal
	}
	return replyStart
}

func (h *Handler) add(ctx context.Context, req Request) string {
	in, err := ParseAdd(req.Args)
	if err != nil {
		return addError(msgAddFormat)
	}
	if err := h.validator.Struct(in); err != nil {
		return addError(validationMessage(err, msgAddFormat))
	}

	priority, err := domain.ParsePriority(in.Priority)
	if err != nil {
		return addError(msgPriority)
	}
	due, err := domain.ParseDueDate(in.DueDate, h.loc)
	if err != nil {
		return addError(msgDueDate)
	}

	_, err = h.tasks.AddTask(ctx, req.UserID, service.NewTaskInput{
		Title:       in.Title,
		Description: in.Description,
		Priority:    priority,
		DueDate:     due,
	})
	switch {
	case err == nil:
		return replyTaskAdded
	case errors.Is(err, service.ErrUserNotRegistered):
		return addError(msgUserNotFound)
	}
	if msg, ok := domainMessage(err); ok {
		return addError(msg)
	}
	return h.unknown(ctx, "failed to add task", err)
}

func (h *Handler) edit(ctx context.Context, req Request) string {
	in, err := ParseEdit(req.Args)
	if err != nil {
		return editError(msgEditFormat)
	}
	if err := h.validator.Struct(in); err != nil {
		return editError(validationMessage(err, msgEditFormat))
	}

	field, err := domain.ParseTaskField(in.Field)
	if err != nil {
		return editError(msgInvalidField)
	}

	err = h.tasks.EditTask(ctx, req.UserID, in.TaskID, field, in.Value)
	switch {
	case err == nil:
		return replyTaskUpdated
	case errors.Is(err, service.ErrTaskNotOwned):
		return editError(msgNotOwnedEdit)
	}
	if msg, ok := domainMessage(err); ok {
		return editError(msg)
	}
	return h.unknown(ctx, "failed to edit task", err)
}

func (h *Handler) deleteTask(ctx context.Context, req Request) string {
	in, err := ParseDelete(req.Args)
	if err != nil {
		return usageDelete
	}
	if err := h.validator.Struct(in); err != nil {
		return usageDelete
	}

	err = h.tasks.DeleteTask(ctx, req.UserID, in.TaskID)
	switch {
	case err == nil:
		return replyTaskDeleted
	case errors.Is(err, service.ErrTaskNotOwned):
		return "❌ Ошибка: " + msgNotOwnedDelete
	}
	logger.FromContext(ctx).Error("failed to delete task",
		"error", redact.Error(err),
		"task_id", in.TaskID)
	return replyDeleteFailed
}

func (h *Handler) list(ctx context.Context, req Request) string {
	tasks, err := h.tasks.ListTasks(ctx, req.UserID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list tasks", "error", redact.Error(err))
		return replyListFailed
	}
	if len(tasks) == 0 {
		return replyNoTasks
	}
	return FormatTaskList(tasks, h.loc)
}

func (h *Handler) notifications(ctx context.Context, req Request, enabled bool) string {
	if err := h.tasks.SetNotifications(ctx, req.UserID, enabled); err != nil {
		logger.FromContext(ctx).Error("failed to update notification preference",
			"error", redact.Error(err),
			"enabled", enabled)
		if enabled {
			return replyEnableFailed
		}
		return replyDisableFailed
	}
	if enabled {
		return replyEnabled
	}
	return replyDisabled
}

func (h *Handler) unknown(ctx context.Context, msg string, err error) string {
	logger.FromContext(ctx).Error(msg, "error", redact.Error(err))
	return replyUnknownError
}

func addError(msg string) string {
	return fmt.Sprintf("❌ Ошибка: %s\nИспользуйте: %s", msg, usageAdd)
}

func editError(msg string) string {
	return fmt.Sprintf("❌ Ошибка: %s\nИспользуйте: %s", msg, usageEdit)
}

// FormatTaskList renders tasks the way /list shows them, due dates in loc.
// The result may exceed a single chat message; transports split it.
func FormatTaskList(tasks []domain.Task, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	lines := make([]string, 0, len(tasks)+1)
	lines = append(lines, listHeader)
	for _, t := range tasks {
		var b strings.Builder
		b.WriteString("id: " + strconv.FormatInt(t.ID, 10) + "\n")
		b.WriteString("Заголовок(title): " + t.Title + "\n")
		b.WriteString("Описание(description): " + t.Description + "\n")
		b.WriteString("Статус(status): " + t.Status.String() + "\n")
		b.WriteString("Приоритет(priority): " + t.Priority.String() + "\n")
		b.WriteString("Срок(duedate): " + domain.FormatDueDate(t.DueDate.In(loc)) + "\n")
		b.WriteString(listSeparator)
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}
