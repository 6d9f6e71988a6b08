package domain

// RawRow is one spreadsheet row keyed by trimmed column name. A missing key
// reads the same as an empty cell.
type RawRow map[string]string

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// WaterSystemRecord is the canonical representation of one water system.
// Records are built once per normalization run and never mutated afterwards.
type WaterSystemRecord struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Population float64 `json:"population"`

	LeadLines                      float64 `json:"lead_lines"`
	GalvanizedRequiringReplacement float64 `json:"galvanized_requiring_replacement"`
	UnknownMaterialLines           float64 `json:"unknown_material_lines"`
	NonLeadLines                   float64 `json:"non_lead_lines"`
	TotalLines                     float64 `json:"total_lines"`

	TotalToReplace  float64         `json:"total_to_replace"`
	TotalReplaced   float64         `json:"total_replaced"`
	PercentReplaced float64         `json:"percent_replaced"`
	ReplacedByYear  map[int]float64 `json:"replaced_by_year,omitempty"`

	Status            Status       `json:"status"`
	StatusExplanation string       `json:"status_explanation,omitempty"`
	Coordinates       *Coordinates `json:"coordinates,omitempty"`
	ExceedanceYear    string       `json:"exceedance_year,omitempty"`
	ReferenceLink     string       `json:"reference_link,omitempty"`
}

// Geolocated reports whether the record carries coordinates.
func (r WaterSystemRecord) Geolocated() bool {
	return r.Coordinates != nil
}

// CategoryTotal is the sum of the three material categories that need
// replacement or identification.
func (r WaterSystemRecord) CategoryTotal() float64 {
	return r.LeadLines + r.GalvanizedRequiringReplacement + r.UnknownMaterialLines
}
