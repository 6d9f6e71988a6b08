package domain

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

var (
	ErrUnknownView      = errors.New("unknown view mode")
	ErrUnknownField     = errors.New("unknown sort field")
	ErrUnknownDirection = errors.New("unknown sort direction")
)

// ViewMode selects which records are eligible for a ranking.
type ViewMode int

const (
	ViewMostLead ViewMode = iota + 1
	ViewMostUnknown
	ViewBestProgress
	ViewWorstProgress
)

var viewTokens = map[ViewMode]string{
	ViewMostLead:      "most-lead",
	ViewMostUnknown:   "most-unknown",
	ViewBestProgress:  "best-progress",
	ViewWorstProgress: "worst-progress",
}

// AllViewModes returns the view modes in menu order.
func AllViewModes() []ViewMode {
	return []ViewMode{ViewMostLead, ViewBestProgress, ViewWorstProgress, ViewMostUnknown}
}

// ParseViewMode maps a wire token such as "best-progress" to a ViewMode.
func ParseViewMode(s string) (ViewMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for v, token := range viewTokens {
		if token == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownView, s)
}

func (v ViewMode) String() string {
	if token, ok := viewTokens[v]; ok {
		return token
	}
	return fmt.Sprintf("ViewMode(%d)", int(v))
}

// includes is the eligibility predicate for the view.
func (v ViewMode) includes(r WaterSystemRecord) bool {
	switch v {
	case ViewMostLead:
		return r.LeadLines > 0
	case ViewMostUnknown:
		return r.UnknownMaterialLines > 0
	case ViewBestProgress:
		return r.Status.HasReplacementProgram()
	case ViewWorstProgress:
		return r.Status == StatusNotCompliant
	default:
		return false
	}
}

// FieldKey is a sortable column.
type FieldKey int

const (
	FieldName FieldKey = iota + 1
	FieldPopulation
	FieldLeadLines
	FieldGalvanized
	FieldUnknown
	FieldTotalReplaced
	FieldTotalToReplace
	FieldPercentReplaced
)

// fieldDef describes how a column compares. Exactly one of text or number is set.
type fieldDef struct {
	token  string
	text   func(WaterSystemRecord) string
	number func(WaterSystemRecord) float64
}

var fieldDefs = map[FieldKey]fieldDef{
	FieldName:            {token: "name", text: func(r WaterSystemRecord) string { return r.Name }},
	FieldPopulation:      {token: "population", number: func(r WaterSystemRecord) float64 { return r.Population }},
	FieldLeadLines:       {token: "lead_lines", number: func(r WaterSystemRecord) float64 { return r.LeadLines }},
	FieldGalvanized:      {token: "galvanized_requiring_replacement", number: func(r WaterSystemRecord) float64 { return r.GalvanizedRequiringReplacement }},
	FieldUnknown:         {token: "unknown_material_lines", number: func(r WaterSystemRecord) float64 { return r.UnknownMaterialLines }},
	FieldTotalReplaced:   {token: "total_replaced", number: func(r WaterSystemRecord) float64 { return r.TotalReplaced }},
	FieldTotalToReplace:  {token: "total_to_replace", number: func(r WaterSystemRecord) float64 { return r.TotalToReplace }},
	FieldPercentReplaced: {token: "percent_replaced", number: func(r WaterSystemRecord) float64 { return r.PercentReplaced }},
}

// fieldAliases are the short column names used by the spreadsheet headers.
var fieldAliases = map[string]FieldKey{
	"gpcl":    FieldGalvanized,
	"unknown": FieldUnknown,
}

// AllFieldKeys returns the sortable columns in table order.
func AllFieldKeys() []FieldKey {
	return []FieldKey{
		FieldName, FieldPopulation, FieldLeadLines, FieldGalvanized, FieldUnknown,
		FieldTotalReplaced, FieldTotalToReplace, FieldPercentReplaced,
	}
}

// ParseFieldKey maps a wire token such as "percent_replaced" to a FieldKey.
func ParseFieldKey(s string) (FieldKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if f, ok := fieldAliases[s]; ok {
		return f, nil
	}
	for f, def := range fieldDefs {
		if def.token == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, s)
}

func (f FieldKey) String() string {
	if def, ok := fieldDefs[f]; ok {
		return def.token
	}
	return fmt.Sprintf("FieldKey(%d)", int(f))
}

// Direction is the order applied to the primary sort key.
type Direction int

const (
	Ascending Direction = iota + 1
	Descending
)

// ParseDirection accepts "asc" or "desc".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return Ascending, nil
	case "desc":
		return Descending, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
}

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// SortSpec is a column and direction chosen by the caller.
type SortSpec struct {
	Field     FieldKey
	Direction Direction
}

func (s SortSpec) String() string {
	return s.Field.String() + " " + s.Direction.String()
}

// Toggle returns the spec after a click on a column header: the same column
// flips direction, a different column starts descending.
func (s SortSpec) Toggle(field FieldKey) SortSpec {
	if s.Field == field {
		if s.Direction == Ascending {
			return SortSpec{Field: field, Direction: Descending}
		}
		return SortSpec{Field: field, Direction: Ascending}
	}
	return SortSpec{Field: field, Direction: Descending}
}

// DefaultSort is the spec a view opens with.
func DefaultSort(view ViewMode) SortSpec {
	switch view {
	case ViewMostLead:
		return SortSpec{Field: FieldLeadLines, Direction: Descending}
	case ViewMostUnknown:
		return SortSpec{Field: FieldUnknown, Direction: Descending}
	case ViewBestProgress:
		return SortSpec{Field: FieldPercentReplaced, Direction: Descending}
	case ViewWorstProgress:
		return SortSpec{Field: FieldPercentReplaced, Direction: Ascending}
	default:
		return SortSpec{}
	}
}

// ResolveSort builds a spec from optional field and direction tokens. A blank
// field means the view's default column; a blank direction means the view's
// default direction for that column, or descending for any other column.
func ResolveSort(view ViewMode, field, direction string) (SortSpec, error) {
	spec := DefaultSort(view)
	if spec == (SortSpec{}) {
		return SortSpec{}, fmt.Errorf("%w: %s", ErrUnknownView, view)
	}

	if strings.TrimSpace(field) != "" {
		f, err := ParseFieldKey(field)
		if err != nil {
			return SortSpec{}, err
		}
		if f != spec.Field {
			spec = SortSpec{Field: f, Direction: Descending}
		}
	}

	if strings.TrimSpace(direction) != "" {
		d, err := ParseDirection(direction)
		if err != nil {
			return SortSpec{}, err
		}
		spec.Direction = d
	}
	return spec, nil
}

// Rank filters records for the view and orders them by spec. The input is
// never modified. While spec equals DefaultSort(view), the best-progress and
// worst-progress views use their composite orders; every other combination
// compares the chosen column and breaks ties by total replaced, descending.
// Records that compare equal keep their input order.
func Rank(records []WaterSystemRecord, view ViewMode, spec SortSpec) ([]WaterSystemRecord, error) {
	if _, ok := viewTokens[view]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownView, view)
	}
	compare, err := comparator(view, spec)
	if err != nil {
		return nil, err
	}

	out := make([]WaterSystemRecord, 0, len(records))
	for _, r := range records {
		if view.includes(r) {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, compare)
	return out, nil
}

func comparator(view ViewMode, spec SortSpec) (func(a, b WaterSystemRecord) int, error) {
	def, ok := fieldDefs[spec.Field]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, spec.Field)
	}
	if spec.Direction != Ascending && spec.Direction != Descending {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDirection, spec.Direction)
	}

	if spec == DefaultSort(view) {
		switch view {
		case ViewBestProgress:
			return compareBestProgress, nil
		case ViewWorstProgress:
			return compareWorstProgress, nil
		}
	}
	return genericComparator(def, spec.Direction), nil
}

// compareBestProgress puts fully replaced systems first, then orders by
// percent replaced. Ties fall to total replaced, descending.
func compareBestProgress(a, b WaterSystemRecord) int {
	aFull := a.Status == StatusFullyReplaced
	bFull := b.Status == StatusFullyReplaced
	switch {
	case aFull && !bFull:
		return -1
	case bFull && !aFull:
		return 1
	case aFull && bFull:
		return byTotalReplacedDesc(a, b)
	}
	if c := cmp.Compare(b.PercentReplaced, a.PercentReplaced); c != 0 {
		return c
	}
	return byTotalReplacedDesc(a, b)
}

// compareWorstProgress orders by percent replaced, lowest first, with the
// largest remaining workload first among equals.
func compareWorstProgress(a, b WaterSystemRecord) int {
	if c := cmp.Compare(a.PercentReplaced, b.PercentReplaced); c != 0 {
		return c
	}
	return cmp.Compare(b.TotalToReplace, a.TotalToReplace)
}

func genericComparator(def fieldDef, dir Direction) func(a, b WaterSystemRecord) int {
	// A Caser is stateful, so each ranking gets its own.
	fold := cases.Fold()
	primary := func(a, b WaterSystemRecord) int {
		if def.text != nil {
			return strings.Compare(fold.String(def.text(a)), fold.String(def.text(b)))
		}
		return cmp.Compare(def.number(a), def.number(b))
	}

	return func(a, b WaterSystemRecord) int {
		c := primary(a, b)
		if dir == Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
		return byTotalReplacedDesc(a, b)
	}
}

// byTotalReplacedDesc is the shared tie-break; it ignores the requested direction.
func byTotalReplacedDesc(a, b WaterSystemRecord) int {
	return cmp.Compare(b.TotalReplaced, a.TotalReplaced)
}
