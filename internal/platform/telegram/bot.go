package telegram

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/phrazzld/taskplanner/internal/config"
	"github.com/phrazzld/taskplanner/internal/redact"
)

// botLogger routes the library's debug output through slog. The token is
// part of every request URL, so everything is redacted.
type botLogger struct {
	logger *slog.Logger
	token  string
}

// Println implements tgbotapi.BotLogger.
func (l botLogger) Println(v ...any) {
	l.logger.Debug(redact.Values(fmt.Sprint(v...), l.token))
}

// Printf implements tgbotapi.BotLogger.
func (l botLogger) Printf(format string, v ...any) {
	l.logger.Debug(redact.Values(fmt.Sprintf(format, v...), l.token))
}

// NewBot authenticates against the public Bot API (getMe).
func NewBot(cfg config.TelegramConfig, logger *slog.Logger) (*tgbotapi.BotAPI, error) {
	return NewBotWithEndpoint(cfg, tgbotapi.APIEndpoint, newHTTPClient(cfg), logger)
}

// newHTTPClient bounds every Bot API request, getUpdates long polls included.
func newHTTPClient(cfg config.TelegramConfig) *http.Client {
	return &http.Client{Timeout: cfg.RequestTimeout}
}

// NewBotWithEndpoint is NewBot against a custom endpoint, such as a local
// Bot API server. endpoint has the form "https://host/bot%s/%s".
func NewBotWithEndpoint(
	cfg config.TelegramConfig,
	endpoint string,
	client tgbotapi.HTTPClient,
	logger *slog.Logger,
) (*tgbotapi.BotAPI, error) {
	if cfg.Token == "" {
		return nil, errors.New("telegram token is empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "telegram"))
	if err := tgbotapi.SetLogger(botLogger{logger: log, token: cfg.Token}); err != nil {
		return nil, fmt.Errorf("failed to set telegram logger: %w", err)
	}

	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate telegram bot: %s", redact.Values(err.Error(), cfg.Token))
	}
	bot.Debug = cfg.Debug

	log.Info("authenticated telegram bot", slog.String("username", bot.Self.UserName))
	return bot, nil
}
