package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// NewPostgresStores builds all repositories on a shared pool.
func NewPostgresStores(pool *pgxpool.Pool, logger zerolog.Logger) Stores {
	return Stores{
		Codes:       NewCodeRepository(pool, logger),
		TimedCodes:  NewTimedCodeRepository(pool, logger),
		Redemptions: NewRedemptionRepository(pool, logger),
		Ping:        pool.Ping,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// execBatch queues one statement per argument set inside tx and returns the
// total number of affected rows.
func execBatch(ctx context.Context, tx pgx.Tx, query string, argSets [][]any) (int, error) {
	if len(argSets) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, args := range argSets {
		batch.Queue(query, args...)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	affected := 0
	for range argSets {
		tag, err := results.Exec()
		if err != nil {
			return affected, err
		}
		affected += int(tag.RowsAffected())
	}

	return affected, results.Close()
}

// countRows returns the row count of table. table is always a package constant.
func countRows(ctx context.Context, pool *pgxpool.Pool, table string) (int, error) {
	var n int
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+pgx.Identifier{table}.Sanitize()).Scan(&n)
	return n, err
}
