package codefile

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func writeGzipFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	gz := gzip.NewWriter(file)
	_, err = gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	return path
}

func TestFileLoader_Load(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	path := writeFile(t, "codes.csv", "CODE1\nCODE2\nCODE3\n")

	rows, err := loader.Load(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, [][]string{{"CODE1"}, {"CODE2"}, {"CODE3"}}, rows)
}

func TestFileLoader_LoadGzip(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	path := writeGzipFile(t, "timed_codes.csv.gz", "EVT1,2025-01-01 10:00:00\nEVT2,2025-01-01 11:00:00\n")

	rows, err := loader.Load(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"EVT1", "2025-01-01 10:00:00"}, rows[0])
}

func TestFileLoader_LoadEmptyFile(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	path := writeFile(t, "empty.csv", "")

	rows, err := loader.Load(context.Background(), path)

	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFileLoader_LoadMissingFile(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileLoader_LoadMalformedCSV(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	path := writeFile(t, "bad.csv", "\"unterminated\n")

	_, err := loader.Load(context.Background(), path)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
