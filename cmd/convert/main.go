// Command convert normalizes a lead service line spreadsheet export into a
// JSON array of canonical water system records and prints a status summary.
//
// Usage:
//
//	go run ./cmd/convert \
//	  -in data/lead-data.csv \
//	  -out data/water-systems.json \
//	  -columns columns.yaml
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	csvadapter "github.com/couchcryptid/lead-line-etl/internal/adapter/csv"
	"github.com/couchcryptid/lead-line-etl/internal/config"
	"github.com/couchcryptid/lead-line-etl/internal/domain"
)

func main() {
	in := flag.String("in", "data/lead-data.csv", "source CSV export")
	out := flag.String("out", "", "output path for the JSON record array")
	columns := flag.String("columns", "", "optional YAML column map")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		log.Fatal("missing required flag: -out")
	}

	if err := run(*in, *out, *columns, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(inPath, outPath, columnsPath string, report io.Writer) error {
	cols, err := config.LoadColumnMap(columnsPath)
	if err != nil {
		return err
	}

	f, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open source csv: %w", err)
	}
	defer f.Close()

	rows, err := csvadapter.ReadRows(context.Background(), f)
	if err != nil {
		return fmt.Errorf("read %s: %w", inPath, err)
	}

	records, stats := domain.NewNormalizer(cols).Normalize(rows)
	if err := writeJSON(outPath, records); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}

	printSummary(report, stats, domain.Summarize(records))
	fmt.Fprintf(report, "\nWritten to %s\n", outPath)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printSummary(w io.Writer, stats domain.NormalizeStats, summary domain.Summary) {
	fmt.Fprintln(w, "=== Data Summary ===")
	fmt.Fprintf(w, "Rows read: %d\n", stats.RowsRead)
	fmt.Fprintf(w, "Dropped: missing id=%d, duplicate id=%d\n", stats.MissingID, stats.DuplicateID)
	if stats.UnrecognizedStatus > 0 {
		fmt.Fprintf(w, "Unrecognized status labels: %d\n", stats.UnrecognizedStatus)
	}
	fmt.Fprintf(w, "Total systems: %d (geolocated: %d)\n", summary.Total, summary.Geolocated)
	fmt.Fprintln(w, "\nBy Status:")
	for _, c := range summary.ByStatus {
		fmt.Fprintf(w, "  %s: %d\n", c.Status, c.Count)
	}
}
