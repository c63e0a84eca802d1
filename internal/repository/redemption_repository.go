package repository

import (
	"context"
	"time"

	"code-redeem/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// redemptionRepository implements RedemptionRepository using PostgreSQL.
type redemptionRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewRedemptionRepository creates a new PostgreSQL-backed redemption ledger.
func NewRedemptionRepository(pool *pgxpool.Pool, logger zerolog.Logger) RedemptionRepository {
	return &redemptionRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "redemption").Logger(),
	}
}

// HasRedeemed reports whether the user already redeemed the code.
func (r *redemptionRepository) HasRedeemed(ctx context.Context, userID int64, code string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM redemptions WHERE user_id = $1 AND code = $2)`, userID, code,
	).Scan(&exists)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Str("code", code).Msg("failed to check redemption")
		return false, model.NewStorageError("check redemption", err)
	}
	return exists, nil
}

// Record inserts the redemption unless the pair already exists.
func (r *redemptionRepository) Record(ctx context.Context, userID int64, code string, at time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO redemptions (user_id, code, redeemed_at) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, code) DO NOTHING`,
		userID, code, at,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Str("code", code).Msg("failed to record redemption")
		return false, model.NewStorageError("record redemption", err)
	}
	return tag.RowsAffected() == 1, nil
}

// PurgeBefore deletes redemptions older than cutoff.
func (r *redemptionRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM redemptions WHERE redeemed_at < $1`, cutoff)
	if err != nil {
		r.logger.Error().Err(err).Time("cutoff", cutoff).Msg("failed to purge redemptions")
		return 0, model.NewStorageError("purge redemptions", err)
	}
	return tag.RowsAffected(), nil
}

// Count returns the number of ledger rows.
func (r *redemptionRepository) Count(ctx context.Context) (int, error) {
	n, err := countRows(ctx, r.pool, "redemptions")
	if err != nil {
		return 0, model.NewStorageError("count redemptions", err)
	}
	return n, nil
}
