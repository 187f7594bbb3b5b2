package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/phrazzld/taskplanner/internal/api"
	"github.com/phrazzld/taskplanner/internal/config"
	"github.com/phrazzld/taskplanner/internal/delivery"
	"github.com/phrazzld/taskplanner/internal/platform/logger"
	"github.com/phrazzld/taskplanner/internal/platform/telegram"
	"github.com/phrazzld/taskplanner/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDatabase adds the adapter-only methods to a sqlmock pool.
type fakeDatabase struct {
	*sql.DB
	mu         sync.Mutex
	reconnects int
	pingErr    error
}

func (f *fakeDatabase) Reconnect(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reconnects++
	return nil
}

func (f *fakeDatabase) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeDatabase) setPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

type fakeBot struct {
	updates chan tgbotapi.Update
}

func (b *fakeBot) Send(tgbotapi.Chattable) (tgbotapi.Message, error) { return tgbotapi.Message{}, nil }

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel { return b.updates }

func (b *fakeBot) StopReceivingUpdates() {}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 0, LogLevel: "debug", ShutdownTimeout: time.Second},
		Database: config.DatabaseConfig{
			URL:            "postgres://taskbot@localhost:5432/taskbot",
			MaxOpenConns:   1,
			ConnectTimeout: time.Second,
		},
		Telegram: config.TelegramConfig{DryRun: true},
		Scheduler: config.SchedulerConfig{
			PollInterval: time.Hour,
			QueryTimeout: time.Second,
			Timezone:     "UTC",
		},
	}
}

func newFakeDatabase(t *testing.T) *fakeDatabase {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &fakeDatabase{DB: db}
}

func newTestApp(t *testing.T, cfg *config.Config, db database, bot botAPI) *application {
	t.Helper()
	log, _ := logger.NewTestLogger(t)
	app := &application{config: cfg, logger: log}
	require.NoError(t, app.wire(db, bot))
	return app
}

func TestWire_DryRun(t *testing.T) {
	app := newTestApp(t, testConfig(), newFakeDatabase(t), nil)

	assert.IsType(t, &delivery.LogSink{}, app.sink)
	assert.Nil(t, app.listener)
	assert.NotNil(t, app.scheduler)
	assert.NotNil(t, app.taskService)
}

func TestWire_WithBot(t *testing.T) {
	cfg := testConfig()
	cfg.Telegram = config.TelegramConfig{Token: "123456:token", PollTimeout: time.Second}

	app := newTestApp(t, cfg, newFakeDatabase(t), &fakeBot{updates: make(chan tgbotapi.Update)})

	assert.IsType(t, &telegram.Sender{}, app.sink)
	assert.NotNil(t, app.listener)
}

func TestWire_InvalidTimezone(t *testing.T) {
	cfg := testConfig()
	cfg.Scheduler.Timezone = "Mars/Olympus"
	log, _ := logger.NewTestLogger(t)
	app := &application{config: cfg, logger: log}
	assert.Error(t, app.wire(newFakeDatabase(t), nil))
}

func TestRouter(t *testing.T) {
	db := newFakeDatabase(t)
	app := newTestApp(t, testConfig(), db, nil)
	srv := httptest.NewServer(app.server.Handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	db.setPingErr(store.ErrConnection)
	resp, err = http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body api.StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)

	resp, err = http.Get(srv.URL + "/missing")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRun_StopsOnCancel(t *testing.T) {
	app := newTestApp(t, testConfig(), newFakeDatabase(t), &fakeBot{updates: make(chan tgbotapi.Update)})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("application did not stop")
	}
	assert.GreaterOrEqual(t, app.scheduler.Stats().Cycles, 1)
}

func TestServeHTTP(t *testing.T) {
	log, _ := logger.NewTestLogger(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serveHTTP(ctx, srv, ln, time.Second, log) }()

	resp, err := http.Get("http://" + ln.Addr().String())
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServeHTTP_ListenFailure(t *testing.T) {
	log, _ := logger.NewTestLogger(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	srv := &http.Server{Addr: ln.Addr().String(), Handler: http.NotFoundHandler()}
	err = serveHTTP(context.Background(), srv, nil, time.Second, log)
	assert.ErrorContains(t, err, "ops server failed")
}
