package sqlite

import (
	"context"
	"database/sql"
	"time"

	"code-redeem/internal/model"
	"code-redeem/internal/repository"

	"github.com/rs/zerolog"
)

type redemptionRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewRedemptionRepository creates a SQLite-backed redemption ledger.
func NewRedemptionRepository(db *sql.DB, logger zerolog.Logger) repository.RedemptionRepository {
	return &redemptionRepository{
		db:     db,
		logger: logger.With().Str("repository", "redemption").Str("driver", "sqlite").Logger(),
	}
}

func (r *redemptionRepository) HasRedeemed(ctx context.Context, userID int64, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM redemptions WHERE user_id = ? AND code = ?)`, userID, code,
	).Scan(&exists)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Str("code", code).Msg("failed to check redemption")
		return false, model.NewStorageError("check redemption", err)
	}
	return exists, nil
}

func (r *redemptionRepository) Record(ctx context.Context, userID int64, code string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO redemptions (user_id, code, redeemed_at) VALUES (?, ?, ?)`,
		userID, code, formatTime(at))
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Str("code", code).Msg("failed to record redemption")
		return false, model.NewStorageError("record redemption", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, model.NewStorageError("record redemption", err)
	}
	return n == 1, nil
}

func (r *redemptionRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM redemptions WHERE redeemed_at < ?`, formatTime(cutoff))
	if err != nil {
		r.logger.Error().Err(err).Time("cutoff", cutoff).Msg("failed to purge redemptions")
		return 0, model.NewStorageError("purge redemptions", err)
	}
	return res.RowsAffected()
}

func (r *redemptionRepository) Count(ctx context.Context) (int, error) {
	n, err := countRows(ctx, r.db, "redemptions")
	if err != nil {
		return 0, model.NewStorageError("count redemptions", err)
	}
	return n, nil
}
