package repository

import (
	"context"

	"code-redeem/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// codeRepository implements CodeRepository using PostgreSQL.
type codeRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCodeRepository creates a new PostgreSQL-backed single-use code repository.
func NewCodeRepository(pool *pgxpool.Pool, logger zerolog.Logger) CodeRepository {
	return &codeRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "single_use_code").Logger(),
	}
}

// Exists reports whether the code is present.
func (r *codeRepository) Exists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM single_use_codes WHERE code = $1)`, code,
	).Scan(&exists)
	if err != nil {
		r.logger.Error().Err(err).Str("code", code).Msg("failed to check code")
		return false, model.NewStorageError("check single-use code", err)
	}
	return exists, nil
}

// Add inserts a single code.
func (r *codeRepository) Add(ctx context.Context, code string) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO single_use_codes (code) VALUES ($1)`, code)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrCodeExists
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to insert code")
		return model.NewStorageError("insert single-use code", err)
	}

	r.logger.Debug().Str("code", code).Msg("code inserted")
	return nil
}

// Consume deletes the code and reports whether it was present.
func (r *codeRepository) Consume(ctx context.Context, code string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM single_use_codes WHERE code = $1`, code)
	if err != nil {
		r.logger.Error().Err(err).Str("code", code).Msg("failed to consume code")
		return false, model.NewStorageError("consume single-use code", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ReplaceAll clears the table and inserts codes in one transaction.
func (r *codeRepository) ReplaceAll(ctx context.Context, codes []string) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return 0, model.NewStorageError("begin transaction", err)
	}
	// No-op once committed.
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM single_use_codes`); err != nil {
		r.logger.Error().Err(err).Msg("failed to clear codes")
		return 0, model.NewStorageError("clear single-use codes", err)
	}

	argSets := make([][]any, len(codes))
	for i, code := range codes {
		argSets[i] = []any{code}
	}

	inserted, err := execBatch(ctx, tx,
		`INSERT INTO single_use_codes (code) VALUES ($1) ON CONFLICT (code) DO NOTHING`, argSets)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(codes)).Msg("failed to insert codes")
		return 0, model.NewStorageError("insert single-use codes", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit transaction")
		return 0, model.NewStorageError("commit single-use codes", err)
	}

	r.logger.Info().
		Int("received", len(codes)).
		Int("inserted", inserted).
		Msg("single-use codes replaced")

	return inserted, nil
}

// Count returns the number of stored codes.
func (r *codeRepository) Count(ctx context.Context) (int, error) {
	n, err := countRows(ctx, r.pool, "single_use_codes")
	if err != nil {
		return 0, model.NewStorageError("count single-use codes", err)
	}
	return n, nil
}
