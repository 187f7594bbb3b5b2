package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/taskplanner/internal/api"
	"github.com/phrazzld/taskplanner/internal/command"
	"github.com/phrazzld/taskplanner/internal/config"
	"github.com/phrazzld/taskplanner/internal/delivery"
	"github.com/phrazzld/taskplanner/internal/platform/postgres"
	"github.com/phrazzld/taskplanner/internal/platform/telegram"
	"github.com/phrazzld/taskplanner/internal/scheduler"
	"github.com/phrazzld/taskplanner/internal/service"
	"github.com/phrazzld/taskplanner/internal/store"
	"golang.org/x/sync/errgroup"
)

// database is what the components need from the postgres adapter.
type database interface {
	store.DBTX
	store.TxBeginner
	scheduler.Reconnector
	api.Pinger
}

// botAPI is what the components need from the Telegram client.
type botAPI interface {
	telegram.Client
	telegram.Updater
}

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	adapter *postgres.Adapter

	taskStore store.TaskStore
	userStore store.UserStore

	sink        delivery.Sink
	taskService service.TaskService
	scheduler   *scheduler.Scheduler
	listener    *telegram.Listener
	server      *http.Server
}

// newApplication connects to the database and the Bot API and wires every
// component. In dry run mode no Telegram connection is made at all.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	adapter, err := setupAppDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if err := applyMigrations(ctx, adapter, cfg.Database.AutoMigrate, logger); err != nil {
		_ = adapter.Disconnect()
		return nil, err
	}

	var bot botAPI
	if !cfg.Telegram.DryRun {
		b, err := telegram.NewBot(cfg.Telegram, logger)
		if err != nil {
			_ = adapter.Disconnect()
			return nil, err
		}
		bot = b
	}

	app := &application{config: cfg, logger: logger, adapter: adapter}
	if err := app.wire(adapter, bot); err != nil {
		_ = adapter.Disconnect()
		return nil, err
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// wire builds stores, services and runners on top of db. A nil bot selects
// the dry run sink and disables the command listener.
func (app *application) wire(db database, bot botAPI) error {
	cfg := app.config
	logger := app.logger

	loc, err := cfg.Scheduler.Location()
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}

	app.taskStore = postgres.NewPostgresTaskStore(db, loc)
	app.userStore = postgres.NewPostgresUserStore(db)

	app.taskService, err = service.NewTaskService(app.taskStore, app.userStore, db, loc, logger)
	if err != nil {
		return fmt.Errorf("failed to create task service: %w", err)
	}

	if bot == nil {
		logger.Warn("telegram dry run enabled: messages are logged, commands are not received")
		app.sink = delivery.NewLogSink(logger)
	} else {
		sender := telegram.NewSender(bot, logger)
		app.sink = sender

		handler, err := command.NewHandler(app.taskService, loc, logger)
		if err != nil {
			return fmt.Errorf("failed to create command handler: %w", err)
		}
		app.listener = telegram.NewListener(bot, handler, sender, cfg.Telegram.PollTimeout, logger)
	}

	schedCfg, err := scheduler.ConfigFromApp(cfg.Scheduler)
	if err != nil {
		return err
	}
	app.scheduler, err = scheduler.New(scheduler.Deps{
		Tasks:       app.taskStore,
		Sink:        app.sink,
		Reconnector: db,
	}, schedCfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	ops := api.NewOpsHandler(db, app.scheduler, cfg.Database.ConnectTimeout)
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           setupRouter(ops, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run starts the scheduler, the command listener and the ops server and
// blocks until ctx is cancelled or one of them fails.
func (app *application) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.scheduler.Run(ctx)
	})

	if app.listener != nil {
		g.Go(func() error {
			return app.listener.Run(ctx)
		})
	}

	g.Go(func() error {
		return serveHTTP(ctx, app.server, nil, app.config.Server.ShutdownTimeout, app.logger)
	})

	return g.Wait()
}

// cleanup releases the database pool.
func (app *application) cleanup() error {
	if app.adapter != nil {
		if err := app.adapter.Disconnect(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
			return err
		}
	}
	app.logger.Info("application shutdown completed")
	return nil
}
