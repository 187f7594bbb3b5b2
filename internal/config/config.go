package config

import (
	"net"
	"net/url"
	"strconv"
	"time"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Telegram  TelegramConfig  `mapstructure:"telegram" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
}

// ServerConfig contains settings for the operational HTTP surface and logging.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// ShutdownTimeout bounds the whole graceful shutdown sequence.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
// Either URL or the discrete Host/User/Name fields must be provided;
// URL takes precedence when both are set.
type DatabaseConfig struct {
	URL      string `mapstructure:"url" validate:"omitempty,url"`
	Host     string `mapstructure:"host" validate:"required_without=URL"`
	Port     int    `mapstructure:"port" validate:"omitempty,gt=0,lt=65536"`
	User     string `mapstructure:"user" validate:"required_without=URL"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name" validate:"required_without=URL"`
	SSLMode  string `mapstructure:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`

	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout" validate:"gt=0"`
	// ConnectRetries is the number of extra attempts made while waiting
	// for the database at startup.
	ConnectRetries uint64 `mapstructure:"connect_retries"`
	AutoMigrate    bool   `mapstructure:"auto_migrate"`
}

// TelegramConfig contains the messaging platform settings.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required_unless=DryRun true"`
	// DryRun logs outgoing messages instead of sending them and disables
	// the inbound command listener.
	DryRun bool `mapstructure:"dry_run"`
	// PollTimeout is the long-polling timeout for inbound updates.
	PollTimeout time.Duration `mapstructure:"poll_timeout" validate:"gte=0"`
	// RequestTimeout bounds every Bot API HTTP request. The same client
	// long-polls getUpdates, so it must exceed PollTimeout.
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gtfield=PollTimeout"`
	Debug       bool          `mapstructure:"debug"`
}

// SchedulerConfig controls the notification scheduling loop.
type SchedulerConfig struct {
	// PollInterval is both the sleep between cycles and the width of the
	// reminder window, so the two can never drift apart.
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"required,gte=1s"`
	QueryTimeout time.Duration `mapstructure:"query_timeout" validate:"required,gt=0"`
	Timezone     string        `mapstructure:"timezone" validate:"required"`
	// RespectNotificationPreference suppresses deliveries to users that
	// disabled notifications. Off by default.
	RespectNotificationPreference bool `mapstructure:"respect_notification_preference"`
}

// DSN returns the connection string for the configured database.
// An explicit URL wins over the discrete connection fields.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
	}
	return u.String()
}

// Location resolves the configured time zone. "Local" and "" map to the
// process local zone.
func (c SchedulerConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
