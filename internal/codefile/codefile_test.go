package codefile

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRows(t *testing.T) {
	input := "CODE1\nCODE2,extra\n\n  CODE3\n"

	rows, err := readRows(context.Background(), strings.NewReader(input), "codes.csv")
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"CODE1"}, {"CODE2", "extra"}, {"CODE3"}}, rows)
}

func TestReadRows_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := readRows(ctx, strings.NewReader("A\n"), "codes.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadRows_BadGzip(t *testing.T) {
	_, err := readRows(context.Background(), strings.NewReader("not gzip"), "codes.csv.gz")
	assert.Error(t, err)
}

func TestParseSingleUseRows(t *testing.T) {
	tests := []struct {
		name        string
		rows        [][]string
		wantCodes   []string
		wantSkipped int
	}{
		{
			name:      "first column only",
			rows:      [][]string{{"A"}, {"B", "ignored"}},
			wantCodes: []string{"A", "B"},
		},
		{
			name:        "blank and empty rows skipped",
			rows:        [][]string{{}, {"  "}, {" C "}},
			wantCodes:   []string{"C"},
			wantSkipped: 2,
		},
		{
			name:      "duplicates preserved for the store to ignore",
			rows:      [][]string{{"A"}, {"A"}},
			wantCodes: []string{"A", "A"},
		},
		{
			name:      "no rows",
			rows:      nil,
			wantCodes: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes, skipped := ParseSingleUseRows(tt.rows)
			assert.Equal(t, tt.wantCodes, codes)
			assert.Equal(t, tt.wantSkipped, skipped)
		})
	}
}

func TestParseTimedRows(t *testing.T) {
	rows := [][]string{
		{"EVT1", "2025-01-01 10:00:00"},
		{"EVT2", "2025-01-01T10:00:00Z"},
		{"EVT3"},
		{"EVT4", "2025-01-01 10:00:00", "extra"},
		{"", "2025-01-01 10:00:00"},
		{" EVT5 ", " 2025-06-30 23:59:59 "},
	}

	codes, skipped := ParseTimedRows(rows, time.UTC)

	assert.Equal(t, 4, skipped)
	require.Len(t, codes, 2)
	assert.Equal(t, "EVT1", codes[0].Code)
	assert.True(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC).Equal(codes[0].ActivatedAt))
	assert.Equal(t, "EVT5", codes[1].Code)
	assert.True(t, time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC).Equal(codes[1].ActivatedAt))
}

func TestParseTimedRows_Location(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)

	codes, skipped := ParseTimedRows([][]string{{"EVT1", "2025-01-01 13:00:00"}}, loc)

	assert.Zero(t, skipped)
	require.Len(t, codes, 1)
	assert.True(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC).Equal(codes[0].ActivatedAt))
}

func TestParseTimestamp(t *testing.T) {
	_, err := ParseTimestamp("2025-13-01 10:00:00", time.UTC)
	assert.Error(t, err)

	ts, err := ParseTimestamp("2025-01-01 10:00:00", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 10, ts.Hour())
}
