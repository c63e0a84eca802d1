package sqlite

import (
	"context"
	"database/sql"

	"code-redeem/internal/model"
	"code-redeem/internal/repository"

	"github.com/rs/zerolog"
)

type codeRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewCodeRepository creates a SQLite-backed single-use code repository.
func NewCodeRepository(db *sql.DB, logger zerolog.Logger) repository.CodeRepository {
	return &codeRepository{
		db:     db,
		logger: logger.With().Str("repository", "single_use_code").Str("driver", "sqlite").Logger(),
	}
}

func (r *codeRepository) Exists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM single_use_codes WHERE code = ?)`, code,
	).Scan(&exists)
	if err != nil {
		r.logger.Error().Err(err).Str("code", code).Msg("failed to check code")
		return false, model.NewStorageError("check single-use code", err)
	}
	return exists, nil
}

func (r *codeRepository) Add(ctx context.Context, code string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO single_use_codes (code) VALUES (?)`, code)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrCodeExists
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to insert code")
		return model.NewStorageError("insert single-use code", err)
	}
	return nil
}

func (r *codeRepository) Consume(ctx context.Context, code string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM single_use_codes WHERE code = ?`, code)
	if err != nil {
		r.logger.Error().Err(err).Str("code", code).Msg("failed to consume code")
		return false, model.NewStorageError("consume single-use code", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, model.NewStorageError("consume single-use code", err)
	}
	return n == 1, nil
}

func (r *codeRepository) ReplaceAll(ctx context.Context, codes []string) (int, error) {
	argSets := make([][]any, len(codes))
	for i, code := range codes {
		argSets[i] = []any{code}
	}

	inserted, err := replaceAll(ctx, r.db, "single_use_codes",
		`INSERT OR IGNORE INTO single_use_codes (code) VALUES (?)`, argSets)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(codes)).Msg("failed to replace codes")
		return 0, model.NewStorageError("replace single-use codes", err)
	}

	r.logger.Info().
		Int("received", len(codes)).
		Int("inserted", inserted).
		Msg("single-use codes replaced")
	return inserted, nil
}

func (r *codeRepository) Count(ctx context.Context) (int, error) {
	n, err := countRows(ctx, r.db, "single_use_codes")
	if err != nil {
		return 0, model.NewStorageError("count single-use codes", err)
	}
	return n, nil
}
