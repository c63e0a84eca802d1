// Package testutil provides database fixtures shared by package tests.
package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"code-redeem/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresDB is a migrated PostgreSQL test container.
type PostgresDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupPostgres starts a PostgreSQL container, applies migrations and
// registers cleanup. Skipped in -short mode.
func SetupPostgres(t *testing.T) *PostgresDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.MigratePostgres(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &PostgresDB{
		Container: container,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// TruncatePostgres removes all rows from the code tables.
func TruncatePostgres(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`TRUNCATE single_use_codes, timed_codes, redemptions`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// SetupSQLite opens a migrated in-memory SQLite database closed on cleanup.
func SetupSQLite(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	logger := zerolog.Nop()

	db, err := database.OpenSQLite(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	if err := database.MigrateSQLite(ctx, db, logger); err != nil {
		db.Close()
		t.Fatalf("failed to migrate sqlite: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}
