// Package codefile reads bulk code files and turns their rows into records.
//
// Files are CSV without a header. Single-use files carry the code in the first
// column; timed files carry exactly two columns, the code and its activation
// time formatted as model.TimestampLayout. Sources ending in ".gz" are
// decompressed transparently.
package codefile

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"code-redeem/internal/model"
)

// ErrNotFound is returned when a source does not exist.
var ErrNotFound = errors.New("code file not found")

// Loader reads the raw CSV rows of a code file.
type Loader interface {
	// Load returns every record of the file at path.
	Load(ctx context.Context, path string) ([][]string, error)
}

// ctxCheckEvery is how many rows are read between context checks.
const ctxCheckEvery = 10_000

// readRows parses CSV from r. name decides whether r is gzipped.
func readRows(ctx context.Context, r io.Reader, name string) ([][]string, error) {
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		if len(rows)%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		rows = append(rows, record)
	}

	return rows, nil
}

// ParseSingleUseRows extracts the code from the first column of each row.
// Empty rows and blank codes are skipped and counted.
func ParseSingleUseRows(rows [][]string) (codes []string, skipped int) {
	codes = make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			skipped++
			continue
		}
		code := strings.TrimSpace(row[0])
		if code == "" {
			skipped++
			continue
		}
		codes = append(codes, code)
	}
	return codes, skipped
}

// ParseTimedRows parses (code, activatedAt) rows. Timestamps are interpreted
// in loc. Rows with the wrong column count, a blank code or a bad timestamp
// are skipped and counted.
func ParseTimedRows(rows [][]string, loc *time.Location) (codes []model.TimedCode, skipped int) {
	if loc == nil {
		loc = time.UTC
	}

	codes = make([]model.TimedCode, 0, len(rows))
	for _, row := range rows {
		if len(row) != 2 {
			skipped++
			continue
		}

		code := strings.TrimSpace(row[0])
		if code == "" {
			skipped++
			continue
		}

		activatedAt, err := ParseTimestamp(row[1], loc)
		if err != nil {
			skipped++
			continue
		}

		codes = append(codes, model.TimedCode{Code: code, ActivatedAt: activatedAt})
	}
	return codes, skipped
}

// ParseTimestamp parses a model.TimestampLayout value in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(model.TimestampLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, model.ErrInvalidTimestamp
	}
	return t, nil
}
