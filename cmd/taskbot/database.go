package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskplanner/internal/config"
	"github.com/phrazzld/taskplanner/internal/platform/postgres"
)

// setupAppDatabase creates the adapter and waits for the database to accept
// connections, retrying with backoff.
func setupAppDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*postgres.Adapter, error) {
	adapter, err := postgres.NewAdapter(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	if err := adapter.ConnectWithRetry(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("database connection established",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns)
	return adapter, nil
}
