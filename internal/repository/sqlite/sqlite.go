// Package sqlite implements the code repositories on an embedded SQLite
// database via database/sql and mattn/go-sqlite3.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"code-redeem/internal/repository"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// timeLayout is fixed width so stored values order lexically.
const timeLayout = "2006-01-02 15:04:05.000000000"

// NewStores builds all repositories on a shared SQLite handle.
func NewStores(db *sql.DB, logger zerolog.Logger) repository.Stores {
	return repository.Stores{
		Codes:       NewCodeRepository(db, logger),
		TimedCodes:  NewTimedCodeRepository(db, logger),
		Redemptions: NewRedemptionRepository(db, logger),
		Ping:        db.PingContext,
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.ParseInLocation(timeLayout, s, time.UTC)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// replaceAll clears table and runs insert once per argument set in a single
// transaction. Returns the number of inserted rows.
func replaceAll(ctx context.Context, db *sql.DB, table, insert string, argSets [][]any) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return 0, err
	}

	inserted := 0
	if len(argSets) > 0 {
		stmt, err := tx.PrepareContext(ctx, insert)
		if err != nil {
			return 0, err
		}
		defer stmt.Close()

		for _, args := range argSets {
			res, err := stmt.ExecContext(ctx, args...)
			if err != nil {
				return 0, err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return 0, err
			}
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// countRows returns the row count of table. table is always a package constant.
func countRows(ctx context.Context, db *sql.DB, table string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
	return n, err
}
