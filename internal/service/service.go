package service

import (
	"context"
	"time"

	"code-redeem/internal/model"
)

// RedemptionService validates and redeems codes.
type RedemptionService interface {
	// RedeemSingleUse consumes the code and reports whether it was present.
	RedeemSingleUse(ctx context.Context, code string) (bool, error)

	// RedeemTimed redeems a timed code for a user and returns the tri-state outcome.
	RedeemTimed(ctx context.Context, code string, userID int64) (model.RedemptionStatus, error)

	// AddSingleUse inserts a single-use code.
	AddSingleUse(ctx context.Context, code string) error

	// ActivateTimed inserts a timed code. A zero activatedAt means now.
	ActivateTimed(ctx context.Context, code string, activatedAt time.Time) error

	// Stats returns row counts of the stores.
	Stats(ctx context.Context) (*model.Stats, error)
}

// ImportService bulk loads code files into the stores.
type ImportService interface {
	// LoadSingleUse replaces the single-use store with the codes in rows.
	LoadSingleUse(ctx context.Context, rows [][]string) (loaded, skipped int, err error)

	// LoadTimed replaces the timed store with the codes in rows.
	LoadTimed(ctx context.Context, rows [][]string) (loaded, skipped int, err error)

	// Rewrite reloads both configured sources and replaces the stores.
	Rewrite(ctx context.Context) (*model.ImportReport, error)
}
