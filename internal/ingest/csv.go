package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/schema"
)

// CSVDirSource reads every *.csv file in a directory, in sorted order.
type CSVDirSource struct {
	Dir string
}

var _ contract.RecordSource = &CSVDirSource{} // Compile-time check

// NewCSVDirSource creates a source over the given directory.
func NewCSVDirSource(dir string) *CSVDirSource {
	return &CSVDirSource{Dir: dir}
}

// Name implements the RecordSource interface.
func (s *CSVDirSource) Name() string {
	return s.Dir
}

// Load implements the RecordSource interface.
// Rows from all files are concatenated; columns a file lacks are null.
func (s *CSVDirSource) Load(ctx context.Context) ([]schema.RawRecord, error) {
	files, err := s.listFiles()
	if err != nil {
		return nil, err
	}

	var records []schema.RawRecord
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := readCSVFile(path)
		if err != nil {
			return nil, err
		}
		records = append(records, rows...)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv files in %s have no rows: %w", s.Dir, contract.ErrNoInput)
	}
	return records, nil
}

// listFiles returns the sorted paths of the CSV files in the directory.
func (s *CSVDirSource) listFiles() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("input directory %s does not exist: %w", s.Dir, contract.ErrNoInput)
		}
		return nil, fmt.Errorf("failed to read input directory %s: %w", s.Dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		files = append(files, filepath.Join(s.Dir, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .csv files in %s: %w", s.Dir, contract.ErrNoInput)
	}
	sort.Strings(files)
	return files, nil
}

// readCSVFile parses one export file into raw records.
func readCSVFile(path string) ([]schema.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return parseCSV(filepath.Base(path), f)
}

// parseCSV reads a header row followed by data rows.
// Rows may be ragged; missing trailing cells are null.
func parseCSV(source string, r io.Reader) ([]schema.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", source, err)
	}
	idx := mapColumns(headers)

	var records []schema.RawRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", source, err)
		}
		if isBlankRow(row) {
			continue
		}
		cells := make([]schema.NullString, len(row))
		for i, v := range row {
			cells[i] = cell(v, true)
		}
		records = append(records, buildRecord(source, idx, cells))
	}
	return records, nil
}

// isBlankRow reports whether every cell of a row is empty.
func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
