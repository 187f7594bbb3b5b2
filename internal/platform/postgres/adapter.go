package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/taskplanner/internal/config"
	"github.com/phrazzld/taskplanner/internal/redact"
	"github.com/phrazzld/taskplanner/internal/store"
	"github.com/sethvargo/go-retry"
)

// Adapter is a reconnect-capable handle to the task database. It owns a
// database/sql pool backed by the pgx driver and may be disconnected and
// reconnected while the stores built on top of it stay in place.
//
// All methods are safe for concurrent use. After Disconnect the next query
// transparently opens a new pool.
type Adapter struct {
	connConfig *pgx.ConnConfig
	cfg        config.DatabaseConfig
	logger     *slog.Logger

	mu sync.RWMutex
	db *sql.DB
}

var (
	_ store.DBTX       = (*Adapter)(nil)
	_ store.TxBeginner = (*Adapter)(nil)
)

// NewAdapter parses the connection settings. It performs no I/O.
func NewAdapter(cfg config.DatabaseConfig, logger *slog.Logger) (*Adapter, error) {
	if logger == nil {
		logger = slog.Default()
	}

	connConfig, err := pgx.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("invalid database configuration: %s", redact.Error(err))
	}
	if cfg.ConnectTimeout > 0 {
		connConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	return &Adapter{
		connConfig: connConfig,
		cfg:        cfg,
		logger:     logger.With(slog.String("component", "postgres")),
	}, nil
}

// handle returns the live pool, opening one if the adapter is disconnected.
func (a *Adapter) handle() *sql.DB {
	a.mu.RLock()
	db := a.db
	a.mu.RUnlock()
	if db != nil {
		return db
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.db == nil {
		a.db = a.open()
	}
	return a.db
}

// open must be called with mu held.
func (a *Adapter) open() *sql.DB {
	db := stdlib.OpenDB(*a.connConfig)
	db.SetMaxOpenConns(a.cfg.MaxOpenConns)
	db.SetMaxIdleConns(a.cfg.MaxIdleConns)
	db.SetConnMaxLifetime(a.cfg.ConnMaxLifetime)
	a.logger.Debug("opened connection pool",
		slog.String("host", a.connConfig.Host),
		slog.String("database", a.connConfig.Database))
	return db
}

// Connect opens the pool if needed and verifies the server is reachable.
func (a *Adapter) Connect(ctx context.Context) error {
	if a.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.ConnectTimeout)
		defer cancel()
	}

	if err := a.handle().PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping failed: %s", store.ErrConnection, redact.Error(err))
	}
	return nil
}

// ConnectWithRetry calls Connect with exponential backoff, giving up after
// the configured number of retries. It is meant for startup, when the
// database container may still be booting.
func (a *Adapter) ConnectWithRetry(ctx context.Context) error {
	backoff := retry.WithMaxRetries(a.cfg.ConnectRetries, retry.NewExponential(500*time.Millisecond))
	backoff = retry.WithCappedDuration(10*time.Second, backoff)

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := a.Connect(ctx); err != nil {
			a.logger.Warn("database not reachable yet",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			return retry.RetryableError(err)
		}
		a.logger.Info("connected to database", slog.Int("attempt", attempt))
		return nil
	})
}

// Disconnect closes the pool. It is safe to call on a disconnected adapter.
func (a *Adapter) Disconnect() error {
	a.mu.Lock()
	db := a.db
	a.db = nil
	a.mu.Unlock()

	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close connection pool: %w", err)
	}
	return nil
}

// Reconnect drops the current pool and establishes a fresh one.
func (a *Adapter) Reconnect(ctx context.Context) error {
	if err := a.Disconnect(); err != nil {
		a.logger.Warn("error closing stale pool", slog.String("error", err.Error()))
	}
	if err := a.Connect(ctx); err != nil {
		return err
	}
	a.logger.Info("reconnected to database")
	return nil
}

// Connected reports whether a pool is currently open. It does not ping.
func (a *Adapter) Connected() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.db != nil
}

// Ping checks the server with the current pool.
func (a *Adapter) Ping(ctx context.Context) error {
	return MapError(a.handle().PingContext(ctx))
}

// DB exposes the current pool, opening one if needed. It is used by the
// migration runner, which requires a *sql.DB.
func (a *Adapter) DB() *sql.DB {
	return a.handle()
}

// ExecContext implements store.DBTX.
func (a *Adapter) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return a.handle().ExecContext(ctx, query, args...)
}

// QueryContext implements store.DBTX.
func (a *Adapter) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return a.handle().QueryContext(ctx, query, args...)
}

// QueryRowContext implements store.DBTX.
func (a *Adapter) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return a.handle().QueryRowContext(ctx, query, args...)
}

// PrepareContext implements store.DBTX.
func (a *Adapter) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return a.handle().PrepareContext(ctx, query)
}

// BeginTx implements store.TxBeginner.
func (a *Adapter) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return a.handle().BeginTx(ctx, opts)
}

// FetchScalar runs a single-value query and scans the result into dest.
// It returns store.ErrNotFound when the query yields no row.
func (a *Adapter) FetchScalar(ctx context.Context, dest any, query string, args ...any) error {
	err := a.QueryRowContext(ctx, query, args...).Scan(dest)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return MapError(err)
}
