package repository

import (
	"context"
	"errors"
	"time"

	"code-redeem/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// timedCodeRepository implements TimedCodeRepository using PostgreSQL.
type timedCodeRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewTimedCodeRepository creates a new PostgreSQL-backed timed code repository.
func NewTimedCodeRepository(pool *pgxpool.Pool, logger zerolog.Logger) TimedCodeRepository {
	return &timedCodeRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "timed_code").Logger(),
	}
}

// Activate inserts a timed code.
func (r *timedCodeRepository) Activate(ctx context.Context, code string, activatedAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO timed_codes (code, activated_at) VALUES ($1, $2)`, code, activatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrCodeExists
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to activate code")
		return model.NewStorageError("activate timed code", err)
	}

	r.logger.Debug().
		Str("code", code).
		Time("activated_at", activatedAt).
		Msg("timed code activated")
	return nil
}

// LookupActivation returns the activation time of code, or nil if unknown.
func (r *timedCodeRepository) LookupActivation(ctx context.Context, code string) (*time.Time, error) {
	var activatedAt time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT activated_at FROM timed_codes WHERE code = $1`, code,
	).Scan(&activatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to look up activation")
		return nil, model.NewStorageError("lookup timed code", err)
	}
	return &activatedAt, nil
}

// ReplaceAll clears the table and inserts codes in one transaction.
func (r *timedCodeRepository) ReplaceAll(ctx context.Context, codes []model.TimedCode) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return 0, model.NewStorageError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM timed_codes`); err != nil {
		r.logger.Error().Err(err).Msg("failed to clear timed codes")
		return 0, model.NewStorageError("clear timed codes", err)
	}

	argSets := make([][]any, len(codes))
	for i, c := range codes {
		argSets[i] = []any{c.Code, c.ActivatedAt}
	}

	inserted, err := execBatch(ctx, tx,
		`INSERT INTO timed_codes (code, activated_at) VALUES ($1, $2) ON CONFLICT (code) DO NOTHING`, argSets)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(codes)).Msg("failed to insert timed codes")
		return 0, model.NewStorageError("insert timed codes", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit transaction")
		return 0, model.NewStorageError("commit timed codes", err)
	}

	r.logger.Info().
		Int("received", len(codes)).
		Int("inserted", inserted).
		Msg("timed codes replaced")

	return inserted, nil
}

// Count returns the number of stored timed codes.
func (r *timedCodeRepository) Count(ctx context.Context) (int, error) {
	n, err := countRows(ctx, r.pool, "timed_codes")
	if err != nil {
		return 0, model.NewStorageError("count timed codes", err)
	}
	return n, nil
}
