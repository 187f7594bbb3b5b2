// Package main is the entry point of the task planner bot. It wires the
// database, the notification scheduler, the Telegram command listener and
// the ops HTTP server together and runs them until SIGINT or SIGTERM.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/phrazzld/taskplanner/internal/config"
	"github.com/phrazzld/taskplanner/internal/platform/logger"
)

func main() {
	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app, err := newApplication(context.Background(), cfg, appLogger)
	if err != nil {
		appLogger.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()

	done := make(chan struct{})
	var runErr error
	go func() {
		runErr = app.Run(runCtx)
		close(done)
	}()

	wait := gfshutdown.GracefulShutdown(context.Background(), cfg.Server.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"taskbot": func(ctx context.Context) error {
				appLogger.Info("graceful shutdown initiated")
				stop()
				select {
				case <-done:
				case <-ctx.Done():
					return ctx.Err()
				}
				return app.cleanup()
			},
		})

	select {
	case <-done:
		if runErr != nil {
			appLogger.Error("application stopped unexpectedly", "error", runErr)
			_ = app.cleanup()
			os.Exit(1)
		}
	case code := <-wait:
		os.Exit(code)
	}
	os.Exit(<-wait)
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"poll_interval", cfg.Scheduler.PollInterval,
		"timezone", cfg.Scheduler.Timezone,
		"dry_run", cfg.Telegram.DryRun)
	if cfg.Database.URL != "" {
		l.Debug("database configuration", "url_present", true)
	}

	return cfg, l, nil
}
