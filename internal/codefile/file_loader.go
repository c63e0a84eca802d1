package codefile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader reads code files from the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a local file system loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "file-loader").Logger(),
	}
}

func (l *fileLoader) Load(ctx context.Context, path string) ([][]string, error) {
	l.logger.Info().Str("file", path).Msg("loading code file")

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open code file")
		return nil, fmt.Errorf("failed to open code file %s: %w", path, err)
	}
	defer file.Close()

	rows, err := readRows(ctx, file, path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to read code file")
		return nil, fmt.Errorf("failed to read code file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("rows", len(rows)).
		Msg("code file loaded")

	return rows, nil
}
