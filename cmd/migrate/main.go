// Command migrate applies the embedded schema migrations to the configured
// database and reports the resulting version.
//
// Usage:
//
//	migrate [up|version]
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"code-redeem/internal/config"
	"code-redeem/internal/database"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	command := "up"
	if len(args) > 0 {
		command = args[0]
	}
	if command != "up" && command != "version" {
		return fmt.Errorf("unknown command %q (want up or version)", command)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var version int64

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := database.OpenPostgres(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer pool.Close()

		if command == "up" {
			if err := database.MigratePostgres(ctx, pool, logger); err != nil {
				return err
			}
		}
		if version, err = database.PostgresVersion(ctx, pool); err != nil {
			return err
		}

	default:
		db, err := database.OpenSQLite(ctx, cfg.Database.SQLitePath, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		if command == "up" {
			if err := database.MigrateSQLite(ctx, db, logger); err != nil {
				return err
			}
		}
		if version, err = database.Version(ctx, db, "sqlite3"); err != nil {
			return err
		}
	}

	logger.Info().
		Str("driver", cfg.Database.Driver).
		Int64("version", version).
		Msg("schema version")
	return nil
}
