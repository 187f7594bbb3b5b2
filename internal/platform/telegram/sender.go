package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/phrazzld/taskplanner/internal/delivery"
	"github.com/phrazzld/taskplanner/internal/redact"
)

// MaxMessageLength is the Bot API text limit, in UTF-16 code units.
const MaxMessageLength = 4096

var (
	// ErrInvalidRecipient is returned when a recipient id is not a chat id.
	ErrInvalidRecipient = errors.New("recipient is not a telegram chat id")

	// ErrForbidden is returned when the user blocked the bot or never
	// started a chat with it.
	ErrForbidden = errors.New("telegram refused to deliver the message")
)

// Client is the part of tgbotapi.BotAPI the sender needs.
type Client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Sender delivers text messages through the Bot API.
type Sender struct {
	client Client
	logger *slog.Logger
}

var _ delivery.Sink = (*Sender)(nil)

// NewSender creates a Sender. A nil logger means slog.Default().
func NewSender(client Client, logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{
		client: client,
		logger: logger.With(slog.String("component", "telegram")),
	}
}

// Notify implements delivery.Sink. recipientID is the decimal chat id.
func (s *Sender) Notify(ctx context.Context, recipientID, text string) error {
	recipientID = strings.TrimSpace(recipientID)
	if recipientID == "" {
		return delivery.ErrEmptyRecipient
	}
	chatID, err := strconv.ParseInt(recipientID, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, recipientID)
	}
	return s.Send(ctx, chatID, text)
}

// Send posts text to chatID, split into as many messages as needed.
// It stops at the first failed part and returns ctx.Err() once ctx is done,
// even if a request is still in flight.
func (s *Sender) Send(ctx context.Context, chatID int64, text string) error {
	for i, part := range SplitMessage(text, MaxMessageLength) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.sendPart(ctx, tgbotapi.NewMessage(chatID, part)); err != nil {
			s.logger.Debug("sendMessage failed",
				slog.Int64("chat_id", chatID),
				slog.Int("part", i),
				slog.String("error", redact.Error(err)))
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return mapSendError(err)
		}
	}
	return nil
}

// sendPart runs one Bot API call. tgbotapi has no context support, so an
// abandoned request keeps running until the HTTP client timeout ends it.
func (s *Sender) sendPart(ctx context.Context, msg tgbotapi.Chattable) error {
	done := make(chan error, 1)
	go func() {
		_, err := s.client.Send(msg)
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func mapSendError(err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 403 {
		return fmt.Errorf("%w: %s", ErrForbidden, apiErr.Message)
	}
	return fmt.Errorf("telegram send failed: %s", redact.Error(err))
}

// SplitMessage cuts text into parts of at most limit UTF-16 code units
// without breaking a rune. Empty text yields a single empty part.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 {
		return []string{text}
	}

	var parts []string
	start, units := 0, 0
	for i, r := range text {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if units > 0 && units+n > limit {
			parts = append(parts, text[start:i])
			start, units = i, 0
		}
		units += n
	}
	return append(parts, text[start:])
}
