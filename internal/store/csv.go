// Package store reads and writes the flat-file datasets. CSV is the only
// storage medium; there is no database behind this service.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aladinbajra/youtube-trending-ai/internal/stage"
)

// CSVStore locates the trending and video-stats datasets on disk.
type CSVStore struct {
	TrendingPath string
	StatsPath    string
}

func NewCSVStore(trendingPath, statsPath string) *CSVStore {
	return &CSVStore{TrendingPath: trendingPath, StatsPath: statsPath}
}

// LoadTrending reads the trending-videos CSV into raw records keyed by the
// header row.
func (s *CSVStore) LoadTrending() ([]stage.RawRecord, error) {
	return readCSV(s.TrendingPath)
}

// LoadStats reads the merged per-day statistics CSV into raw records.
func (s *CSVStore) LoadStats() ([]stage.RawRecord, error) {
	return readCSV(s.StatsPath)
}

// HasTrending reports whether the trending dataset exists on disk.
func (s *CSVStore) HasTrending() bool { return fileExists(s.TrendingPath) }

// HasStats reports whether the statistics dataset exists on disk.
func (s *CSVStore) HasStats() bool { return fileExists(s.StatsPath) }

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func readCSV(path string) ([]stage.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // column presence varies between exports

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	var rows []stage.RawRecord
	for {
		rec, err := r.Read()
		if err != nil {
			break
		}
		row := make(stage.RawRecord, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// AppendTrending appends rows to the trending CSV, writing the header first
// when the file does not exist yet. Used by the collector's merge step.
func (s *CSVStore) AppendTrending(header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(s.TrendingPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	writeHeader := !fileExists(s.TrendingPath)

	f, err := os.OpenFile(s.TrendingPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.TrendingPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
