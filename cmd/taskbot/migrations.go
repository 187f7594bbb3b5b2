package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskplanner/internal/platform/postgres"
)

// applyMigrations brings the schema up to date when auto migration is on.
func applyMigrations(ctx context.Context, adapter *postgres.Adapter, enabled bool, logger *slog.Logger) error {
	if !enabled {
		logger.Info("automatic migrations disabled")
		return nil
	}

	if err := postgres.Migrate(ctx, adapter.DB(), logger); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := postgres.MigrationVersion(ctx, adapter.DB(), logger)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	logger.Info("database schema up to date", "version", version)
	return nil
}
