package main

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Creates sample bulk files for local testing:
//
//	data/codes.csv           single-use codes
//	data/timed_codes.csv     timed codes activated around now
//	data/timed_codes.csv.gz  the same timed codes, gzipped
//
// The timed file includes one malformed row to show skipping.
func main() {
	dataDir := "data"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	single := [][]string{
		{"WELCOME10"},
		{"SPRING2025"},
		{"FREESHIP", "ignored column"},
		{"VIP-0001"},
		{"VIP-0002"},
	}

	now := time.Now().UTC().Truncate(time.Second)
	layout := "2006-01-02 15:04:05"
	timed := [][]string{
		{"LIVE-EVENT", now.Format(layout)},
		{"STARTS-SOON", now.Add(10 * time.Minute).Format(layout)},
		{"ALREADY-OVER", now.Add(-time.Hour).Format(layout)},
		{"BROKEN-ROW", "not a timestamp"},
	}

	if err := writeCSV(filepath.Join(dataDir, "codes.csv"), single, false); err != nil {
		log.Fatalf("Failed to create codes.csv: %v", err)
	}
	if err := writeCSV(filepath.Join(dataDir, "timed_codes.csv"), timed, false); err != nil {
		log.Fatalf("Failed to create timed_codes.csv: %v", err)
	}
	if err := writeCSV(filepath.Join(dataDir, "timed_codes.csv.gz"), timed, true); err != nil {
		log.Fatalf("Failed to create timed_codes.csv.gz: %v", err)
	}

	fmt.Printf("Created %d single-use and %d timed rows in %s\n", len(single), len(timed), dataDir)
	fmt.Println("\nLoad them with:")
	fmt.Println("  IMPORT_SINGLE_FILE=data/codes.csv IMPORT_TIMED_FILE=data/timed_codes.csv IMPORT_ON_STARTUP=true go run ./cmd/api")
	fmt.Println("\nExpected after load:")
	fmt.Println("  LIVE-EVENT    Valid for 15 minutes")
	fmt.Println("  STARTS-SOON   Invalid until activated")
	fmt.Println("  ALREADY-OVER  Expired")
	fmt.Println("  BROKEN-ROW    skipped at load")
}

func writeCSV(path string, rows [][]string, gzipped bool) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	var out io.Writer = file
	if gzipped {
		gz := gzip.NewWriter(file)
		defer gz.Close()
		out = gz
	}

	w := csv.NewWriter(out)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}
