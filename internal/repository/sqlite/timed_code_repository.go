package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"code-redeem/internal/model"
	"code-redeem/internal/repository"

	"github.com/rs/zerolog"
)

type timedCodeRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewTimedCodeRepository creates a SQLite-backed timed code repository.
func NewTimedCodeRepository(db *sql.DB, logger zerolog.Logger) repository.TimedCodeRepository {
	return &timedCodeRepository{
		db:     db,
		logger: logger.With().Str("repository", "timed_code").Str("driver", "sqlite").Logger(),
	}
}

func (r *timedCodeRepository) Activate(ctx context.Context, code string, activatedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO timed_codes (code, activated_at) VALUES (?, ?)`, code, formatTime(activatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrCodeExists
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to activate code")
		return model.NewStorageError("activate timed code", err)
	}
	return nil
}

func (r *timedCodeRepository) LookupActivation(ctx context.Context, code string) (*time.Time, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT activated_at FROM timed_codes WHERE code = ?`, code,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to look up activation")
		return nil, model.NewStorageError("lookup timed code", err)
	}

	activatedAt, err := parseTime(raw)
	if err != nil {
		r.logger.Error().Err(err).Str("code", code).Str("value", raw).Msg("corrupt activation time")
		return nil, model.NewStorageError("parse activation time", err)
	}
	return &activatedAt, nil
}

func (r *timedCodeRepository) ReplaceAll(ctx context.Context, codes []model.TimedCode) (int, error) {
	argSets := make([][]any, len(codes))
	for i, c := range codes {
		argSets[i] = []any{c.Code, formatTime(c.ActivatedAt)}
	}

	inserted, err := replaceAll(ctx, r.db, "timed_codes",
		`INSERT OR IGNORE INTO timed_codes (code, activated_at) VALUES (?, ?)`, argSets)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(codes)).Msg("failed to replace timed codes")
		return 0, model.NewStorageError("replace timed codes", err)
	}

	r.logger.Info().
		Int("received", len(codes)).
		Int("inserted", inserted).
		Msg("timed codes replaced")
	return inserted, nil
}

func (r *timedCodeRepository) Count(ctx context.Context) (int, error) {
	n, err := countRows(ctx, r.db, "timed_codes")
	if err != nil {
		return 0, model.NewStorageError("count timed codes", err)
	}
	return n, nil
}
