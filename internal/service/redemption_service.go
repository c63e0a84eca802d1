package service

import (
	"context"
	"strings"
	"time"

	"code-redeem/internal/metrics"
	"code-redeem/internal/model"
	"code-redeem/internal/repository"

	"github.com/rs/zerolog"
)

// Outcome reasons recorded in logs and metrics.
const (
	reasonRedeemed        = "redeemed"
	reasonNotFound        = "not_found"
	reasonNotYetActive    = "not_yet_active"
	reasonExpired         = "expired"
	reasonAlreadyRedeemed = "already_redeemed"
)

// Option configures a redemptionService.
type Option func(*redemptionService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *redemptionService) {
		s.now = now
	}
}

// redemptionService implements RedemptionService.
type redemptionService struct {
	codes       repository.CodeRepository
	timedCodes  repository.TimedCodeRepository
	redemptions repository.RedemptionRepository
	now         func() time.Time
	logger      zerolog.Logger
}

// NewRedemptionService creates a new redemption service.
func NewRedemptionService(stores repository.Stores, logger zerolog.Logger, opts ...Option) RedemptionService {
	s := &redemptionService{
		codes:       stores.Codes,
		timedCodes:  stores.TimedCodes,
		redemptions: stores.Redemptions,
		now:         time.Now,
		logger:      logger.With().Str("service", "redemption").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RedeemSingleUse deletes the code in a single conditional statement so that
// concurrent callers cannot both succeed.
func (s *redemptionService) RedeemSingleUse(ctx context.Context, code string) (bool, error) {
	if strings.TrimSpace(code) == "" {
		metrics.Redemption(metrics.KindSingleUse, "false", reasonNotFound)
		return false, nil
	}

	consumed, err := s.codes.Consume(ctx, code)
	if err != nil {
		return false, err
	}

	if !consumed {
		s.logger.Debug().Str("code", code).Msg("single-use code not found")
		metrics.Redemption(metrics.KindSingleUse, "false", reasonNotFound)
		return false, nil
	}

	s.logger.Info().Str("code", code).Msg("single-use code redeemed")
	metrics.Redemption(metrics.KindSingleUse, "true", reasonRedeemed)
	return true, nil
}

// RedeemTimed checks the activation window and records the redemption.
// The window is closed: a call exactly at the deadline is still valid.
func (s *redemptionService) RedeemTimed(ctx context.Context, code string, userID int64) (model.RedemptionStatus, error) {
	if strings.TrimSpace(code) == "" {
		return s.timedResult(code, userID, model.StatusInvalid, reasonNotFound), nil
	}

	activatedAt, err := s.timedCodes.LookupActivation(ctx, code)
	if err != nil {
		return "", err
	}
	if activatedAt == nil {
		return s.timedResult(code, userID, model.StatusInvalid, reasonNotFound), nil
	}

	now := s.now()
	timed := model.TimedCode{Code: code, ActivatedAt: *activatedAt}

	if now.After(timed.Deadline()) {
		return s.timedResult(code, userID, model.StatusExpired, reasonExpired), nil
	}
	if now.Before(timed.ActivatedAt) {
		return s.timedResult(code, userID, model.StatusInvalid, reasonNotYetActive), nil
	}

	inserted, err := s.redemptions.Record(ctx, userID, code, now)
	if err != nil {
		return "", err
	}
	if !inserted {
		return s.timedResult(code, userID, model.StatusInvalid, reasonAlreadyRedeemed), nil
	}

	return s.timedResult(code, userID, model.StatusValid, reasonRedeemed), nil
}

func (s *redemptionService) timedResult(code string, userID int64, status model.RedemptionStatus, reason string) model.RedemptionStatus {
	s.logger.Info().
		Str("code", code).
		Int64("user_id", userID).
		Str("status", status.String()).
		Str("reason", reason).
		Msg("timed code redemption")
	metrics.Redemption(metrics.KindTimed, strings.ToLower(status.String()), reason)
	return status
}

// AddSingleUse inserts a single-use code.
func (s *redemptionService) AddSingleUse(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return model.ErrInvalidCode
	}

	if err := s.codes.Add(ctx, code); err != nil {
		return err
	}

	s.logger.Info().Str("code", code).Msg("single-use code added")
	return nil
}

// ActivateTimed inserts a timed code activated at activatedAt, or now.
func (s *redemptionService) ActivateTimed(ctx context.Context, code string, activatedAt time.Time) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return model.ErrInvalidCode
	}
	if activatedAt.IsZero() {
		activatedAt = s.now()
	}

	if err := s.timedCodes.Activate(ctx, code, activatedAt); err != nil {
		return err
	}

	s.logger.Info().
		Str("code", code).
		Time("activated_at", activatedAt).
		Msg("timed code activated")
	return nil
}

// Stats returns row counts of the three stores.
func (s *redemptionService) Stats(ctx context.Context) (*model.Stats, error) {
	codes, err := s.codes.Count(ctx)
	if err != nil {
		return nil, err
	}
	timed, err := s.timedCodes.Count(ctx)
	if err != nil {
		return nil, err
	}
	redemptions, err := s.redemptions.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &model.Stats{
		SingleUseCodes: codes,
		TimedCodes:     timed,
		Redemptions:    redemptions,
	}, nil
}
