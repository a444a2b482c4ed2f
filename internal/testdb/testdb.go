//go:build integration

package testdb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/phrazzld/taskflow-api/internal/config"
	"github.com/phrazzld/taskflow-api/internal/platform/postgres"
	"github.com/phrazzld/taskflow-api/internal/redact"
	"github.com/stretchr/testify/require"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 5 * time.Second

// DatabaseURL returns the connection string for integration tests.
// TASKFLOW_TEST_DATABASE_URL takes precedence over DATABASE_URL.
func DatabaseURL() string {
	if url := os.Getenv("TASKFLOW_TEST_DATABASE_URL"); url != "" {
		return url
	}
	return os.Getenv("DATABASE_URL")
}

// ShouldSkip reports whether no test database is configured.
func ShouldSkip() bool {
	return DatabaseURL() == ""
}

// OpenResolver connects to the test database and provisions a users and a
// tasks collection with names unique to this test. The tables are dropped
// and the pool closed during cleanup.
func OpenResolver(t *testing.T) *postgres.CollectionResolver {
	t.Helper()
	if ShouldSkip() {
		t.Skip("TASKFLOW_TEST_DATABASE_URL not set - skipping integration test")
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	names := map[string]string{
		config.UsersCollection: "users_" + suffix,
		config.TasksCollection: "tasks_" + suffix,
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	resolver, err := postgres.Open(ctx, config.DatabaseConfig{
		URL:                   DatabaseURL(),
		Collections:           names,
		MaxOpenConns:          8,
		ConnectTimeoutSeconds: int(TestTimeout / time.Second),
	}, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	require.NoError(t, err, "failed to open %s", redact.String(DatabaseURL()))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
		defer cancel()
		for _, table := range names {
			stmt := fmt.Sprintf("DROP TABLE IF EXISTS %s", pgx.Identifier{table}.Sanitize())
			if _, err := resolver.DB().ExecContext(ctx, stmt); err != nil {
				t.Logf("failed to drop %s: %v", table, err)
			}
		}
		if err := resolver.Close(); err != nil {
			t.Logf("failed to close resolver: %v", err)
		}
	})

	return resolver
}
