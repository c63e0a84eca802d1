// Package worker runs background maintenance jobs.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"code-redeem/internal/metrics"
	"code-redeem/internal/repository"

	"github.com/rs/zerolog"
)

// RetentionWorker periodically purges ledger rows older than the retention period.
type RetentionWorker struct {
	ledger    repository.RedemptionRepository
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	logger    zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRetentionWorker creates a worker that purges every interval.
func NewRetentionWorker(ledger repository.RedemptionRepository, retention, interval time.Duration, logger zerolog.Logger) *RetentionWorker {
	return &RetentionWorker{
		ledger:    ledger,
		retention: retention,
		interval:  interval,
		now:       time.Now,
		logger:    logger.With().Str("component", "retention-worker").Logger(),
	}
}

// PurgeOnce deletes ledger rows redeemed before now minus retention.
func (w *RetentionWorker) PurgeOnce(ctx context.Context) (int64, error) {
	cutoff := w.now().Add(-w.retention)

	n, err := w.ledger.PurgeBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if n > 0 {
		metrics.LedgerPurgedTotal.Add(float64(n))
		w.logger.Info().Int64("count", n).Time("cutoff", cutoff).Msg("ledger rows purged")
	}
	return n, nil
}

// Run purges once immediately, then on every tick until ctx is done.
func (w *RetentionWorker) Run(ctx context.Context) error {
	w.logger.Info().
		Dur("retention", w.retention).
		Dur("interval", w.interval).
		Msg("starting retention worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.PurgeOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error().Err(err).Msg("retention purge failed")
		}

		select {
		case <-ctx.Done():
			w.logger.Info().Msg("stopping retention worker")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Start runs the worker in a goroutine. Calling Start twice is a no-op.
func (w *RetentionWorker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		return
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})

	go func() {
		defer close(w.done)
		_ = w.Run(ctx)
	}()
}

// Stop cancels the worker and waits for it to exit.
func (w *RetentionWorker) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
