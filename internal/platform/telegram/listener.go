package telegram

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/phrazzld/taskplanner/internal/command"
	"github.com/phrazzld/taskplanner/internal/redact"
)

// Updater is the part of tgbotapi.BotAPI that yields inbound updates.
type Updater interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// CommandHandler answers one chat command. An empty reply sends nothing.
type CommandHandler interface {
	Handle(ctx context.Context, req command.Request) string
}

// Listener receives chat commands by long polling.
type Listener struct {
	updates     Updater
	handler     CommandHandler
	sender      *Sender
	pollTimeout time.Duration
	logger      *slog.Logger
}

// NewListener creates a Listener. pollTimeout is the getUpdates long-poll
// timeout and is rounded down to whole seconds.
func NewListener(
	updates Updater,
	handler CommandHandler,
	sender *Sender,
	pollTimeout time.Duration,
	logger *slog.Logger,
) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		updates:     updates,
		handler:     handler,
		sender:      sender,
		pollTimeout: pollTimeout,
		logger:      logger.With(slog.String("component", "telegram_listener")),
	}
}

// Run dispatches updates until ctx is cancelled or the update channel
// closes. Commands are handled one at a time.
func (l *Listener) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = int(l.pollTimeout / time.Second)

	updates := l.updates.GetUpdatesChan(cfg)
	defer l.updates.StopReceivingUpdates()

	l.logger.Info("listening for chat commands")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopped listening for chat commands")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			l.dispatch(ctx, update)
		}
	}
}

func (l *Listener) dispatch(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil || !msg.IsCommand() {
		return
	}

	req := command.Request{
		UserID:  strconv.FormatInt(msg.From.ID, 10),
		Command: msg.Command(),
		Args:    msg.CommandArguments(),
	}
	reply := l.handler.Handle(ctx, req)
	if reply == "" {
		return
	}

	if err := l.sender.Send(ctx, msg.Chat.ID, reply); err != nil {
		l.logger.Error("failed to send reply",
			slog.String("command", req.Command),
			slog.Int64("chat_id", msg.Chat.ID),
			slog.String("error", redact.Error(err)))
	}
}
