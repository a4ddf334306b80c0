// Package importer loads merchant activity CSV exports into the store.
//
// Files are processed strictly sequentially and each file is fully
// validated in memory before any write begins. Duplicate event ids are
// absorbed by the store's skip-on-conflict insert, so re-importing a
// file is a safe no-op.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shemigam1/dream-devs-assesment/internal/metrics"
	"github.com/shemigam1/dream-devs-assesment/internal/models"
)

// batchSize is the number of rows per bulk insert.
const batchSize = 1000

// filePrefix/fileSuffix define the import naming convention.
const (
	filePrefix = "activities_"
	fileSuffix = ".csv"
)

// columns are the required CSV header names, in no particular order.
var columns = []string{
	"event_id", "merchant_id", "event_timestamp", "product",
	"event_type", "amount", "status", "channel", "region", "merchant_tier",
}

// Store is the storage capability the importer consumes. The importer
// has no connection-lifecycle concerns of its own.
type Store interface {
	// BulkInsertActivities persists rows, silently skipping any whose
	// event id already exists, and returns the number actually inserted.
	BulkInsertActivities(ctx context.Context, rows []models.MerchantActivity) (int64, error)

	// CountActivities returns the total number of stored records.
	CountActivities(ctx context.Context) (int64, error)
}

// FileResult reports one file's import outcome. Imported counts rows
// the database actually inserted, so rows deduplicated by event id
// (within the file or against earlier imports) are not counted.
type FileResult struct {
	Imported int64
	Skipped  int64
}

// RunResult reports a whole directory run.
type RunResult struct {
	Files     []string
	Imported  int64
	Skipped   int64
	TotalInDB int64
	PerFile   map[string]FileResult
}

// Importer streams CSV sources into a Store.
type Importer struct {
	store Store
}

// New returns an Importer backed by st.
func New(st Store) *Importer {
	return &Importer{store: st}
}

// ImportFile streams one CSV source: every row is validated and parsed,
// invalid rows only increment the skip count, and valid rows are
// persisted in sequential batches once the stream ends.
//
// A batch insert failure aborts the file; batches committed before the
// failure stay committed. An empty file succeeds with zero counts.
func (im *Importer) ImportFile(ctx context.Context, r io.Reader) (FileResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return FileResult{}, nil
	}
	if err != nil {
		return FileResult{}, fmt.Errorf("read header: %w", err)
	}

	colIdx := headerIndex(header)
	headerOK := true
	for _, c := range columns {
		if _, ok := colIdx[c]; !ok {
			headerOK = false
			break
		}
	}

	var (
		rows    []models.MerchantActivity
		skipped int64
	)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return FileResult{}, fmt.Errorf("read row: %w", err)
		}

		// A row missing any required column cannot be admissible.
		if !headerOK {
			skipped++
			continue
		}

		raw := rawRow(colIdx, record)
		if !IsValidRow(raw) {
			skipped++
			continue
		}
		rows = append(rows, ParseRow(raw))
	}

	var imported int64
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		n, err := im.store.BulkInsertActivities(ctx, rows[start:end])
		if err != nil {
			return FileResult{}, fmt.Errorf("insert batch at row %d: %w", start, err)
		}
		imported += n
	}

	metrics.RowsImported.Add(float64(imported))
	metrics.RowsSkipped.Add(float64(skipped))

	return FileResult{Imported: imported, Skipped: skipped}, nil
}

// Run imports every activities_*.csv file in dir, in lexicographic
// order, sequentially. The first file failure aborts the run. On
// success the result carries the grand total of records now in the
// store.
func (im *Importer) Run(ctx context.Context, dir string) (RunResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return RunResult{}, fmt.Errorf("read data dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)

	res := RunResult{Files: files, PerFile: make(map[string]FileResult, len(files))}
	for _, name := range files {
		fr, err := im.importPath(ctx, filepath.Join(dir, name))
		if err != nil {
			return RunResult{}, fmt.Errorf("import %s: %w", name, err)
		}
		res.PerFile[name] = fr
		res.Imported += fr.Imported
		res.Skipped += fr.Skipped
		metrics.FilesImported.Inc()
		slog.Info("file imported", "file", name, "imported", fr.Imported, "skipped", fr.Skipped)
	}

	total, err := im.store.CountActivities(ctx)
	if err != nil {
		return RunResult{}, fmt.Errorf("count records: %w", err)
	}
	res.TotalInDB = total

	return res, nil
}

func (im *Importer) importPath(ctx context.Context, path string) (FileResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileResult{}, err
	}
	defer f.Close()
	return im.ImportFile(ctx, f)
}

// headerIndex maps trimmed column names to positions.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	return idx
}

// rawRow builds a RawActivityRow from a record using header positions.
// Columns beyond the record's length read as empty and fail validation.
func rawRow(colIdx map[string]int, record []string) models.RawActivityRow {
	field := func(name string) string {
		i, ok := colIdx[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}
	return models.RawActivityRow{
		EventID:        field("event_id"),
		MerchantID:     field("merchant_id"),
		EventTimestamp: field("event_timestamp"),
		Product:        field("product"),
		EventType:      field("event_type"),
		Amount:         field("amount"),
		Status:         field("status"),
		Channel:        field("channel"),
		Region:         field("region"),
		MerchantTier:   field("merchant_tier"),
	}
}
