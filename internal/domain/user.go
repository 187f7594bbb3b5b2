package domain

import (
	"strings"
	"time"
)

// User is a chat participant that owns tasks. TelegramID is the external
// chat identity used as the delivery recipient.
type User struct {
	ID                   int64     `json:"id"`
	TelegramID           string    `json:"telegram_id"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	CreatedAt            time.Time `json:"created_at"`
}

// NewUser creates a user with notifications enabled.
func NewUser(telegramID string) (*User, error) {
	u := &User{
		TelegramID:           strings.TrimSpace(telegramID),
		NotificationsEnabled: true,
		CreatedAt:            time.Now(),
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.TelegramID == "" {
		return ErrEmptyRecipient
	}
	return nil
}
