package repository

import (
	"context"
	"time"

	"code-redeem/internal/model"
)

// CodeRepository stores single-use codes.
type CodeRepository interface {
	// Exists reports whether the code is present.
	Exists(ctx context.Context, code string) (bool, error)

	// Add inserts a single code. Returns model.ErrCodeExists on a duplicate.
	Add(ctx context.Context, code string) error

	// Consume deletes the code if present and reports whether a row was removed.
	// Deleting an absent code is not an error.
	Consume(ctx context.Context, code string) (bool, error)

	// ReplaceAll atomically clears the store and inserts codes, ignoring duplicates.
	// Returns the number of rows inserted.
	ReplaceAll(ctx context.Context, codes []string) (int, error)

	// Count returns the number of stored codes.
	Count(ctx context.Context) (int, error)
}

// TimedCodeRepository stores multi-use codes with their activation time.
type TimedCodeRepository interface {
	// Activate inserts a timed code. Returns model.ErrCodeExists on a duplicate.
	Activate(ctx context.Context, code string, activatedAt time.Time) error

	// LookupActivation returns the activation time, or nil when the code is unknown.
	LookupActivation(ctx context.Context, code string) (*time.Time, error)

	// ReplaceAll atomically clears the store and inserts codes, ignoring duplicates.
	ReplaceAll(ctx context.Context, codes []model.TimedCode) (int, error)

	// Count returns the number of stored timed codes.
	Count(ctx context.Context) (int, error)
}

// RedemptionRepository is the ledger of (user, code) redemptions.
type RedemptionRepository interface {
	// HasRedeemed reports whether the user already redeemed the code.
	HasRedeemed(ctx context.Context, userID int64, code string) (bool, error)

	// Record inserts the pair if absent and reports whether this call inserted it.
	Record(ctx context.Context, userID int64, code string, at time.Time) (bool, error)

	// PurgeBefore deletes records redeemed strictly before cutoff.
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Count returns the number of ledger rows.
	Count(ctx context.Context) (int, error)
}

// Stores bundles the three repositories backed by one store handle.
type Stores struct {
	Codes       CodeRepository
	TimedCodes  TimedCodeRepository
	Redemptions RedemptionRepository

	// Ping checks the underlying store handle.
	Ping func(ctx context.Context) error
}
