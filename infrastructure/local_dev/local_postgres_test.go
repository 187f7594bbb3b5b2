package local_dev

import (
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/phrazzld/taskplanner/internal/config"
	"github.com/phrazzld/taskplanner/internal/platform/logger"
	"github.com/phrazzld/taskplanner/internal/platform/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLocalPostgresSetup verifies the Docker-based local PostgreSQL setup:
// the container comes up, the adapter connects with retry and the embedded
// migrations create the schema.
func TestLocalPostgresSetup(t *testing.T) {
	if os.Getenv("DOCKER_TEST") != "1" {
		t.Skip("Skipping Docker-based PostgreSQL test. Set DOCKER_TEST=1 to run")
	}

	compose := func(args ...string) *exec.Cmd {
		cmd := exec.Command("docker", append([]string{"compose"}, args...)...)
		cmd.Dir = "."
		return cmd
	}

	if out, err := compose("down", "-v").CombinedOutput(); err != nil {
		t.Logf("Warning during cleanup: %v\nOutput: %s", err, out)
	}
	out, err := compose("up", "-d").CombinedOutput()
	require.NoError(t, err, "failed to start container: %s", out)
	defer func() {
		if err := compose("down", "-v").Run(); err != nil {
			t.Logf("Warning: failed to clean up container: %v", err)
		}
	}()

	log, _ := logger.NewTestLogger(t)
	adapter, err := postgres.NewAdapter(config.DatabaseConfig{
		Host:           "localhost",
		Port:           5432,
		User:           "taskbot",
		Password:       "local_development_password",
		Name:           "taskplanner",
		SSLMode:        "disable",
		MaxOpenConns:   2,
		ConnectTimeout: 5 * time.Second,
		ConnectRetries: 10,
	}, log)
	require.NoError(t, err)
	defer func() { _ = adapter.Disconnect() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	require.NoError(t, adapter.ConnectWithRetry(ctx))
	require.NoError(t, postgres.Migrate(ctx, adapter.DB(), log))

	for _, table := range []string{"statuses", "priorities", "users", "tasks", "tasksassignments"} {
		var exists bool
		err := adapter.FetchScalar(ctx, &exists,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)", table)
		require.NoError(t, err)
		assert.True(t, exists, "table %s should exist", table)
	}

	t.Log("Local PostgreSQL setup verified successfully")
}
