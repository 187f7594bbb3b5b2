package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for every application specific environment variable.
const EnvPrefix = "TASKBOT"

// envBindings lists the config keys together with the environment variables
// that may populate them, in order of precedence. The short DB_* and
// BOT_TOKEN names are kept for compatibility with existing deployments.
var envBindings = []struct {
	key  string
	envs []string
}{
	{"server.port", []string{"TASKBOT_SERVER_PORT"}},
	{"server.log_level", []string{"TASKBOT_SERVER_LOG_LEVEL", "LOG_LEVEL"}},
	{"server.shutdown_timeout", []string{"TASKBOT_SERVER_SHUTDOWN_TIMEOUT"}},
	{"database.url", []string{"TASKBOT_DATABASE_URL", "DATABASE_URL"}},
	{"database.host", []string{"TASKBOT_DATABASE_HOST", "DB_HOST"}},
	{"database.port", []string{"TASKBOT_DATABASE_PORT", "DB_PORT"}},
	{"database.user", []string{"TASKBOT_DATABASE_USER", "DB_USER"}},
	{"database.password", []string{"TASKBOT_DATABASE_PASSWORD", "DB_PASSWORD"}},
	{"database.name", []string{"TASKBOT_DATABASE_NAME", "DB_NAME"}},
	{"database.sslmode", []string{"TASKBOT_DATABASE_SSLMODE"}},
	{"database.max_open_conns", []string{"TASKBOT_DATABASE_MAX_OPEN_CONNS"}},
	{"database.max_idle_conns", []string{"TASKBOT_DATABASE_MAX_IDLE_CONNS"}},
	{"database.conn_max_lifetime", []string{"TASKBOT_DATABASE_CONN_MAX_LIFETIME"}},
	{"database.connect_timeout", []string{"TASKBOT_DATABASE_CONNECT_TIMEOUT"}},
	{"database.connect_retries", []string{"TASKBOT_DATABASE_CONNECT_RETRIES"}},
	{"database.auto_migrate", []string{"TASKBOT_DATABASE_AUTO_MIGRATE"}},
	{"telegram.token", []string{"TASKBOT_TELEGRAM_TOKEN", "BOT_TOKEN"}},
	{"telegram.dry_run", []string{"TASKBOT_TELEGRAM_DRY_RUN"}},
	{"telegram.poll_timeout", []string{"TASKBOT_TELEGRAM_POLL_TIMEOUT"}},
	{"telegram.request_timeout", []string{"TASKBOT_TELEGRAM_REQUEST_TIMEOUT"}},
	{"telegram.debug", []string{"TASKBOT_TELEGRAM_DEBUG"}},
	{"scheduler.poll_interval", []string{"TASKBOT_SCHEDULER_POLL_INTERVAL"}},
	{"scheduler.query_timeout", []string{"TASKBOT_SCHEDULER_QUERY_TIMEOUT"}},
	{"scheduler.timezone", []string{"TASKBOT_SCHEDULER_TIMEZONE", "TZ"}},
	{
		"scheduler.respect_notification_preference",
		[]string{"TASKBOT_SCHEDULER_RESPECT_NOTIFICATION_PREFERENCE"},
	},
}

// setDefaults registers the default value of every optional setting.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.connect_timeout", 10*time.Second)
	v.SetDefault("database.connect_retries", 5)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("telegram.poll_timeout", 60*time.Second)
	v.SetDefault("telegram.request_timeout", 90*time.Second)

	v.SetDefault("scheduler.poll_interval", time.Minute)
	v.SetDefault("scheduler.query_timeout", 10*time.Second)
	v.SetDefault("scheduler.timezone", "Local")
	v.SetDefault("scheduler.respect_notification_preference", false)
}

// Load reads configuration from environment variables and, when present,
// a config.yaml in the working directory.
// Environment variables take precedence over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return load("")
}

// LoadFile behaves like Load but reads the given config file, which must exist.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config file path is empty")
	}
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, b := range envBindings {
		args := append([]string{b.key}, b.envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("error binding environment variables for %s: %w", b.key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the struct tags of cfg and the settings that cannot be
// expressed as tags.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if _, err := cfg.Scheduler.Location(); err != nil {
		return fmt.Errorf("configuration validation failed: unknown timezone %q: %w",
			cfg.Scheduler.Timezone, err)
	}

	return nil
}
