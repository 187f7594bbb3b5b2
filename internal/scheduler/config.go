package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/taskplanner/internal/config"
	"github.com/phrazzld/taskplanner/internal/domain"
)

// Config controls a Scheduler.
type Config struct {
	// PollInterval is the pause between cycles and the reminder window width.
	PollInterval time.Duration

	// QueryTimeout bounds every store call and every delivery. An expired
	// store call is handled as a connection fault.
	QueryTimeout time.Duration

	// Location is the zone in which now is captured and due dates are rendered.
	Location *time.Location

	// RespectNotificationPreference skips deliveries to users that disabled
	// notifications. Overdue transitions still happen.
	RespectNotificationPreference bool

	// Rules are evaluated in order each cycle.
	Rules []domain.ReminderRule
}

// DefaultConfig returns the one-minute cadence with the standard rules.
func DefaultConfig() Config {
	return Config{
		PollInterval: time.Minute,
		QueryTimeout: 10 * time.Second,
		Location:     time.Local,
		Rules:        domain.DefaultReminderRules(),
	}
}

// ConfigFromApp builds a Config from the application settings.
func ConfigFromApp(cfg config.SchedulerConfig) (Config, error) {
	loc, err := cfg.Location()
	if err != nil {
		return Config{}, fmt.Errorf("invalid scheduler timezone: %w", err)
	}
	return Config{
		PollInterval:                  cfg.PollInterval,
		QueryTimeout:                  cfg.QueryTimeout,
		Location:                      loc,
		RespectNotificationPreference: cfg.RespectNotificationPreference,
		Rules:                         domain.DefaultReminderRules(),
	}, nil
}

func (c Config) validate() error {
	if c.PollInterval <= 0 {
		return errors.New("poll interval must be positive")
	}
	if c.QueryTimeout <= 0 {
		return errors.New("query timeout must be positive")
	}
	for _, r := range c.Rules {
		if r.Lead <= 0 {
			return fmt.Errorf("reminder rule %q has non-positive lead", r.Label)
		}
	}
	return nil
}
