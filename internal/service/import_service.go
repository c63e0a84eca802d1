package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"code-redeem/internal/codefile"
	"code-redeem/internal/metrics"
	"code-redeem/internal/model"
	"code-redeem/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ImportSources names the files read by Rewrite.
type ImportSources struct {
	SingleUseFile string
	// TimedFile may be empty, in which case the timed store is left as is.
	TimedFile string
	// Location is the zone of timestamps in the timed file. Nil means UTC.
	Location *time.Location
}

// importService implements ImportService.
type importService struct {
	codes      repository.CodeRepository
	timedCodes repository.TimedCodeRepository
	loader     codefile.Loader
	sources    ImportSources
	logger     zerolog.Logger
}

// NewImportService creates a new bulk import service.
func NewImportService(
	stores repository.Stores,
	loader codefile.Loader,
	sources ImportSources,
	logger zerolog.Logger,
) ImportService {
	if sources.Location == nil {
		sources.Location = time.UTC
	}
	return &importService{
		codes:      stores.Codes,
		timedCodes: stores.TimedCodes,
		loader:     loader,
		sources:    sources,
		logger:     logger.With().Str("service", "import").Logger(),
	}
}

// LoadSingleUse parses rows and replaces the single-use store.
func (s *importService) LoadSingleUse(ctx context.Context, rows [][]string) (int, int, error) {
	codes, skipped := codefile.ParseSingleUseRows(rows)

	loaded, err := s.codes.ReplaceAll(ctx, codes)
	if err != nil {
		return 0, skipped, err
	}

	metrics.ImportRows(metrics.KindSingleUse, loaded, skipped)
	s.logger.Info().
		Int("loaded", loaded).
		Int("skipped", skipped).
		Msg("single-use codes loaded")
	return loaded, skipped, nil
}

// LoadTimed parses rows and replaces the timed store.
func (s *importService) LoadTimed(ctx context.Context, rows [][]string) (int, int, error) {
	codes, skipped := codefile.ParseTimedRows(rows, s.sources.Location)

	loaded, err := s.timedCodes.ReplaceAll(ctx, codes)
	if err != nil {
		return 0, skipped, err
	}

	metrics.ImportRows(metrics.KindTimed, loaded, skipped)
	s.logger.Info().
		Int("loaded", loaded).
		Int("skipped", skipped).
		Msg("timed codes loaded")
	return loaded, skipped, nil
}

// Rewrite reads both sources concurrently, then replaces the stores. Nothing
// is written unless the single-use source could be read.
func (s *importService) Rewrite(ctx context.Context) (report *model.ImportReport, err error) {
	defer func() { metrics.ImportFinished(err) }()

	start := time.Now()
	var singleRows, timedRows [][]string
	timedMissing := s.sources.TimedFile == ""

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.loader.Load(gctx, s.sources.SingleUseFile)
		if err != nil {
			return fmt.Errorf("failed to load single-use codes: %w", err)
		}
		singleRows = rows
		return nil
	})
	if !timedMissing {
		g.Go(func() error {
			rows, err := s.loader.Load(gctx, s.sources.TimedFile)
			if errors.Is(err, codefile.ErrNotFound) {
				s.logger.Warn().Str("file", s.sources.TimedFile).Msg("timed code file not found, keeping timed codes")
				timedMissing = true
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to load timed codes: %w", err)
			}
			timedRows = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("bulk import aborted")
		return nil, err
	}

	report = &model.ImportReport{TimedSourceMissing: timedMissing}

	report.SingleUseLoaded, report.SingleUseSkipped, err = s.LoadSingleUse(ctx, singleRows)
	if err != nil {
		return nil, err
	}

	if !timedMissing {
		report.TimedLoaded, report.TimedSkipped, err = s.LoadTimed(ctx, timedRows)
		if err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Int("single_use_loaded", report.SingleUseLoaded).
		Int("single_use_skipped", report.SingleUseSkipped).
		Int("timed_loaded", report.TimedLoaded).
		Int("timed_skipped", report.TimedSkipped).
		Bool("timed_source_missing", report.TimedSourceMissing).
		Dur("duration", time.Since(start)).
		Msg("database rewritten")

	return report, nil
}
