package database_test

import (
	"context"
	"testing"

	"code-redeem/internal/config"
	"code-redeem/internal/database"
	"code-redeem/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenPostgres(t *testing.T) {
	pg := testutil.SetupPostgres(t)
	ctx := context.Background()

	host, err := pg.Container.Host(ctx)
	require.NoError(t, err)
	port, err := pg.Container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		Driver:          "postgres",
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Database:        "testdb",
		MaxConnections:  4,
		MinConnections:  1,
		MaxConnLifetime: 60,
	}

	pool, err := database.OpenPostgres(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer pool.Close()

	var tz string
	require.NoError(t, pool.QueryRow(ctx, "SHOW timezone").Scan(&tz))
	assert.Equal(t, "UTC", tz)

	var app string
	require.NoError(t, pool.QueryRow(ctx, "SHOW application_name").Scan(&app))
	assert.Equal(t, "code-redeem", app)

	version, err := database.PostgresVersion(ctx, pool)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestOpenPostgres_Unreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network test in short mode")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := config.DatabaseConfig{
		Host:           "127.0.0.1",
		Port:           1,
		User:           "nobody",
		Database:       "none",
		MaxConnections: 1,
	}

	pool, err := database.OpenPostgres(ctx, cfg, zerolog.Nop())
	assert.Error(t, err)
	assert.Nil(t, pool)
}
