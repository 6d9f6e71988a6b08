package domain

// NormalizeStats counts what a normalization run dropped or coerced.
type NormalizeStats struct {
	RowsRead           int `json:"rows_read"`
	MissingID          int `json:"missing_id"`
	DuplicateID        int `json:"duplicate_id"`
	UnrecognizedStatus int `json:"unrecognized_status"`
}

// Records is the number of records the run produced.
func (s NormalizeStats) Records() int {
	return s.RowsRead - s.MissingID - s.DuplicateID
}

// Normalizer turns raw spreadsheet rows into canonical records.
type Normalizer struct {
	columns ColumnMap
}

// NewNormalizer creates a Normalizer reading fields from the given columns.
func NewNormalizer(columns ColumnMap) *Normalizer {
	return &Normalizer{columns: columns}
}

// Normalize converts a batch of rows into records in input order. Rows without
// an ID are dropped. When an ID repeats, the last row wins but keeps the
// position of the first occurrence.
func (n *Normalizer) Normalize(rows []RawRow) ([]WaterSystemRecord, NormalizeStats) {
	stats := NormalizeStats{RowsRead: len(rows)}
	records := make([]WaterSystemRecord, 0, len(rows))
	index := make(map[string]int, len(rows))

	for _, row := range rows {
		rec, recognized := n.normalizeRow(row)
		if rec.ID == "" {
			stats.MissingID++
			continue
		}
		if !recognized {
			stats.UnrecognizedStatus++
		}
		if i, ok := index[rec.ID]; ok {
			stats.DuplicateID++
			records[i] = rec
			continue
		}
		index[rec.ID] = len(records)
		records = append(records, rec)
	}

	return records, stats
}

// NormalizeRow converts a single row. It reports false when the row has no ID
// and therefore does not describe a record.
func (n *Normalizer) NormalizeRow(row RawRow) (WaterSystemRecord, bool) {
	rec, _ := n.normalizeRow(row)
	return rec, rec.ID != ""
}

// normalizeRow also reports whether a non-empty status label was recognized.
func (n *Normalizer) normalizeRow(row RawRow) (WaterSystemRecord, bool) {
	c := n.columns

	lead := cleanCount(cell(row, c.LeadLines))
	galvanized := cleanCount(cell(row, c.Galvanized))
	unknown := cleanCount(cell(row, c.Unknown))

	totalToReplace := cleanCount(cell(row, c.TotalToReplace))
	if totalToReplace == 0 {
		totalToReplace = lead + galvanized + unknown
	}
	totalReplaced := cleanCount(cell(row, c.TotalReplaced))

	status, recognized := resolveStatus(cell(row, c.Status))

	return WaterSystemRecord{
		ID:         cleanString(cell(row, c.ID)),
		Name:       cleanString(cell(row, c.Name)),
		Population: cleanCount(cell(row, c.Population)),

		LeadLines:                      lead,
		GalvanizedRequiringReplacement: galvanized,
		UnknownMaterialLines:           unknown,
		NonLeadLines:                   cleanCount(cell(row, c.NonLead)),
		TotalLines:                     cleanCount(cell(row, c.TotalLines)),

		TotalToReplace:  totalToReplace,
		TotalReplaced:   totalReplaced,
		PercentReplaced: percentReplaced(totalReplaced, totalToReplace),
		ReplacedByYear:  n.replacedByYear(row),

		Status:            status,
		StatusExplanation: cleanString(cell(row, c.StatusExplanation)),
		Coordinates:       parseCoordinates(cell(row, c.Latitude), cell(row, c.Longitude)),
		ExceedanceYear:    cleanYear(cell(row, c.Exceedance)),
		ReferenceLink:     cleanString(cell(row, c.ReferenceLink)),
	}, recognized
}

func (n *Normalizer) replacedByYear(row RawRow) map[int]float64 {
	if len(n.columns.ReplacedByYear) == 0 {
		return nil
	}
	out := make(map[int]float64, len(n.columns.ReplacedByYear))
	for year, col := range n.columns.ReplacedByYear {
		out[year] = cleanCount(cell(row, col))
	}
	return out
}

// cell reads a column, treating an unmapped column like an empty cell.
func cell(row RawRow, column string) string {
	if column == "" {
		return ""
	}
	return row[column]
}

// percentReplaced is replaced/total as a percentage, 0 when there is nothing
// to replace, capped at 100 for reports where replaced exceeds the total.
func percentReplaced(replaced, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return min(replaced/total*100, 100)
}

// resolveStatus falls back to StatusUnknown for blank labels. The bool is
// false only for a non-blank label outside the known set.
func resolveStatus(raw string) (Status, bool) {
	label := cleanString(raw)
	if label == "" {
		return StatusUnknown, true
	}
	return ParseStatus(label)
}

// parseCoordinates returns nil when either value is zero or unparseable.
func parseCoordinates(lat, lon string) *Coordinates {
	la := cleanNumber(lat)
	lo := cleanNumber(lon)
	if la == 0 || lo == 0 {
		return nil
	}
	return &Coordinates{Lat: la, Lon: lo}
}
