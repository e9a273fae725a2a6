package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres runs a throwaway PostgreSQL container and returns its
// connection string. Tests are skipped in -short mode or when Docker is
// unavailable.
func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() || os.Getenv("SKIP_DOCKER_TESTS") != "" {
		t.Skip("skipping container test")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("verse_companion"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestHealth(t *testing.T) {
	dsn := startPostgres(t)

	srv, err := Connect(context.Background(), dsn, "verse_companion", nil)
	require.NoError(t, err)

	stats := srv.Health()
	assert.Equal(t, "up", stats["status"])
	assert.Equal(t, "It's healthy", stats["message"])
	assert.NotContains(t, stats, "error")

	require.NoError(t, srv.Close())
}

func TestConnect_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := Connect(ctx, "postgres://user:pw@127.0.0.1:1/none?sslmode=disable", "none", nil)
	assert.Error(t, err)
}

func TestOptions_DSN(t *testing.T) {
	opts := Options{Host: "db", Port: "5432", Database: "verses", Username: "u", Password: "p", Schema: "public"}
	assert.Equal(t, "postgres://u:p@db:5432/verses?sslmode=disable&search_path=public", opts.DSN())
}
