// Package dbtest starts a migrated PostgreSQL container for repository tests.
// Tests are skipped when Docker is not available.
package dbtest

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/casinohub/backend/pkg/database"
)

func dockerAvailable() bool {
	return exec.Command("docker", "info").Run() == nil
}

// DSN starts an empty PostgreSQL container and returns its connection string.
func DSN(t *testing.T) string {
	t.Helper()
	if testing.Short() || !dockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("casinohub_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

// Pool starts a container, applies the migrations and returns a pool on it.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := DSN(t)
	require.NoError(t, database.Migrate(dsn, zap.NewNop()))

	pool, err := database.NewPostgresPool(context.Background(), dsn, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}
