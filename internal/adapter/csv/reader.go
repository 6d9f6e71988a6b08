// Package csv extracts raw spreadsheet rows from a delimited text export.
package csv

import (
	"context"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/lead-line-etl/internal/config"
	"github.com/couchcryptid/lead-line-etl/internal/domain"
)

// ErrNoHeader is returned when the input has no header row.
var ErrNoHeader = errors.New("csv: missing header row")

const bom = "\ufeff"

// Reader loads the source CSV from disk.
// It implements pipeline.RowExtractor.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a Reader for the configured source file.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	return &Reader{path: cfg.SourceCSVPath, logger: logger}
}

// ExtractRows reads every data row of the source file. The file is reopened
// on each call so an edited export is picked up by the next ingest.
func (r *Reader) ExtractRows(ctx context.Context) ([]domain.RawRow, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open source csv: %w", err)
	}
	defer f.Close()

	rows, err := ReadRows(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	r.logger.Debug("source csv read", "path", r.path, "rows", len(rows))
	return rows, nil
}

// ReadRows parses a header row followed by data rows. Header names are
// trimmed and a leading byte order mark is dropped. Short rows leave the
// trailing columns absent; extra cells beyond the header are ignored. Rows
// whose cells are all blank are skipped.
func ReadRows(ctx context.Context, in io.Reader) ([]domain.RawRow, error) {
	cr := stdcsv.NewReader(in)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, bom)
		}
		columns[i] = strings.TrimSpace(h)
	}

	var rows []domain.RawRow
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if row, ok := toRow(columns, record); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// toRow zips a record with the header. It reports false for a blank row.
func toRow(columns, record []string) (domain.RawRow, bool) {
	row := make(domain.RawRow, len(columns))
	blank := true
	for i, col := range columns {
		if col == "" || i >= len(record) {
			continue
		}
		if _, dup := row[col]; dup {
			continue
		}
		row[col] = record[i]
		if strings.TrimSpace(record[i]) != "" {
			blank = false
		}
	}
	return row, !blank
}
