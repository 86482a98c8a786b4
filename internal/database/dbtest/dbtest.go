// Package dbtest opens a throwaway pool against the database named by
// TEST_DATABASE_URL for integration tests. Tests that call it are skipped
// when the variable is unset, so the default `go test ./...` run stays
// hermetic.
package dbtest

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jdmurray/portfolio-backend/internal/config"
	"github.com/jdmurray/portfolio-backend/internal/database"
)

// NewPool connects to TEST_DATABASE_URL, applies the repo's migrations,
// and returns a pool closed at test cleanup.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, config.DatabaseConfig{URL: url})
	if err != nil {
		t.Fatalf("connect test database: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.RunMigrations(ctx, pool, migrationsDir()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return pool
}

func migrationsDir() string {
	_, self, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(self), "..", "..", "..", "migrations")
}
