package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/lead-line-etl/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadColumnMap returns the default column map overlaid with the YAML file at
// path. An empty path yields the defaults. Keys present in the file replace the
// default header name; a replaced_by_year block replaces the default years.
func LoadColumnMap(path string) (domain.ColumnMap, error) {
	if path == "" {
		return domain.DefaultColumns(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ColumnMap{}, fmt.Errorf("read COLUMN_MAP_PATH: %w", err)
	}
	return ParseColumnMap(data)
}

// ParseColumnMap decodes a YAML column map over the defaults. Unknown keys are
// rejected so a misspelled field does not silently fall back to its default.
func ParseColumnMap(data []byte) (domain.ColumnMap, error) {
	cols := domain.DefaultColumns()
	defaultYears := cols.ReplacedByYear
	cols.ReplacedByYear = nil

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cols); err != nil && !errors.Is(err, io.EOF) {
		return domain.ColumnMap{}, fmt.Errorf("parse column map: %w", err)
	}

	if cols.ReplacedByYear == nil {
		cols.ReplacedByYear = defaultYears
	}
	if err := cols.Validate(); err != nil {
		return domain.ColumnMap{}, err
	}
	return cols, nil
}
