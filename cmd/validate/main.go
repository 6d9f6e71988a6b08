// Command validate checks a converted water system JSON file against the
// canonical record invariants and, optionally, against the CSV export it was
// produced from.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -json data/water-systems.json \
//	  -csv data/lead-data.csv \
//	  -columns columns.yaml
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	csvadapter "github.com/couchcryptid/lead-line-etl/internal/adapter/csv"
	"github.com/couchcryptid/lead-line-etl/internal/config"
	"github.com/couchcryptid/lead-line-etl/internal/domain"
	"github.com/google/go-cmp/cmp"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	jsonPath := flag.String("json", "", "path to converted JSON record array")
	csvPath := flag.String("csv", "", "optional source CSV to cross-check against")
	columns := flag.String("columns", "", "optional YAML column map used for the conversion")
	flag.Parse()

	if *jsonPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*jsonPath, *csvPath, *columns, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func run(jsonPath, csvPath, columnsPath string, out io.Writer) int {
	fmt.Fprintln(out, "=== Water System Data Validation ===")

	records, err := loadJSON(jsonPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load JSON: %v\n", err)
		return 1
	}

	phases := []*phase{validateInvariants(records)}

	if csvPath != "" {
		expected, stats, err := normalizeCSV(csvPath, columnsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load CSV: %v\n", err)
			return 1
		}
		phases = append(phases, validateSourceParity(records, expected, stats))
	}

	// ── Report results ──
	fmt.Fprintln(out)
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}
	fmt.Fprintf(out, "\nRecords: %d\n", len(records))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Data loading ──

func loadJSON(path string) ([]domain.WaterSystemRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []domain.WaterSystemRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

func normalizeCSV(csvPath, columnsPath string) ([]domain.WaterSystemRecord, domain.NormalizeStats, error) {
	cols, err := config.LoadColumnMap(columnsPath)
	if err != nil {
		return nil, domain.NormalizeStats{}, err
	}
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, domain.NormalizeStats{}, err
	}
	defer f.Close()

	rows, err := csvadapter.ReadRows(context.Background(), f)
	if err != nil {
		return nil, domain.NormalizeStats{}, err
	}
	records, stats := domain.NewNormalizer(cols).Normalize(rows)
	return records, stats, nil
}

// ── Phase 1: record invariants ──

func validateInvariants(records []domain.WaterSystemRecord) *phase {
	p := &phase{name: "Phase 1: Record invariants"}
	seen := make(map[string]int, len(records))

	for i := range records {
		r := &records[i]
		if r.ID == "" {
			p.errorf("record %d: empty id", i)
		} else if first, dup := seen[r.ID]; dup {
			p.errorf("record %d: id %s already used by record %d", i, r.ID, first)
		} else {
			seen[r.ID] = i
		}
		checkCounts(p, i, r)
		checkDerived(p, i, r)

		if _, ok := domain.ParseStatus(string(r.Status)); !ok {
			p.errorf("record %d (%s): status %q is not a known category", i, r.ID, r.Status)
		}
		if c := r.Coordinates; c != nil && (c.Lat == 0 || c.Lon == 0) {
			p.errorf("record %d (%s): coordinates %v,%v should have been omitted", i, r.ID, c.Lat, c.Lon)
		}
	}
	return p
}

func checkCounts(p *phase, i int, r *domain.WaterSystemRecord) {
	counts := map[string]float64{
		"population":                       r.Population,
		"lead_lines":                       r.LeadLines,
		"galvanized_requiring_replacement": r.GalvanizedRequiringReplacement,
		"unknown_material_lines":           r.UnknownMaterialLines,
		"non_lead_lines":                   r.NonLeadLines,
		"total_lines":                      r.TotalLines,
		"total_to_replace":                 r.TotalToReplace,
		"total_replaced":                   r.TotalReplaced,
	}
	for field, v := range counts {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			p.errorf("record %d (%s): %s=%v is not a non-negative count", i, r.ID, field, v)
		}
	}
	for year, v := range r.ReplacedByYear {
		if v < 0 {
			p.errorf("record %d (%s): replaced_by_year[%d]=%v is negative", i, r.ID, year, v)
		}
	}
}

// checkDerived recomputes the fields the normalizer derives.
func checkDerived(p *phase, i int, r *domain.WaterSystemRecord) {
	if r.TotalToReplace == 0 && r.CategoryTotal() != 0 {
		p.errorf("record %d (%s): total_to_replace is 0 but categories sum to %v", i, r.ID, r.CategoryTotal())
	}

	if r.PercentReplaced < 0 || r.PercentReplaced > 100 {
		p.errorf("record %d (%s): percent_replaced=%v outside [0,100]", i, r.ID, r.PercentReplaced)
	}
	want := 0.0
	if r.TotalToReplace > 0 {
		want = math.Min(r.TotalReplaced/r.TotalToReplace*100, 100)
	}
	if !floatEq(want, r.PercentReplaced) {
		p.errorf("record %d (%s): percent_replaced=%v, want %v", i, r.ID, r.PercentReplaced, want)
	}
}

// ── Phase 2: source parity ──

func validateSourceParity(records, expected []domain.WaterSystemRecord, stats domain.NormalizeStats) *phase {
	p := &phase{name: "Phase 2: Source CSV parity"}

	if len(records) != stats.Records() {
		p.errorf("record count: JSON has %d, CSV has %d rows - %d missing id - %d duplicate id = %d",
			len(records), stats.RowsRead, stats.MissingID, stats.DuplicateID, stats.Records())
	}

	byID := make(map[string]*domain.WaterSystemRecord, len(records))
	for i := range records {
		byID[records[i].ID] = &records[i]
	}
	for i := range expected {
		want := &expected[i]
		got, ok := byID[want.ID]
		if !ok {
			p.errorf("%s: present in CSV, missing from JSON", want.ID)
			continue
		}
		if diff := cmp.Diff(*want, *got); diff != "" {
			p.errorf("%s: differs from CSV (-csv +json):\n%s", want.ID, diff)
		}
	}
	return p
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
