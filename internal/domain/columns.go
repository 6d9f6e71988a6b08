package domain

import (
	"errors"
	"fmt"
)

// ColumnMap names the source column for each logical field. Columns left empty
// are not read and their fields take the zero value.
type ColumnMap struct {
	ID                string `yaml:"id"`
	Name              string `yaml:"name"`
	Population        string `yaml:"population"`
	LeadLines         string `yaml:"lead_lines"`
	Galvanized        string `yaml:"galvanized"`
	Unknown           string `yaml:"unknown"`
	NonLead           string `yaml:"non_lead"`
	TotalLines        string `yaml:"total_lines"`
	TotalToReplace    string `yaml:"total_to_replace"`
	TotalReplaced     string `yaml:"total_replaced"`
	Status            string `yaml:"status"`
	StatusExplanation string `yaml:"status_explanation"`
	Latitude          string `yaml:"latitude"`
	Longitude         string `yaml:"longitude"`
	Exceedance        string `yaml:"exceedance"`
	ReferenceLink     string `yaml:"reference_link"`

	// ReplacedByYear maps a report year to the column holding that year's
	// replacement count.
	ReplacedByYear map[int]string `yaml:"replaced_by_year"`
}

// DefaultColumns returns the header names used by the state tracker sheet.
func DefaultColumns() ColumnMap {
	return ColumnMap{
		ID:                "PWSID",
		Name:              "Supply Name",
		Population:        "Population",
		LeadLines:         "Lead Lines",
		Galvanized:        "GPCL",
		Unknown:           "Unknown",
		NonLead:           "Non-Lead",
		TotalLines:        "Total Lines",
		TotalToReplace:    "Total To Replace",
		TotalReplaced:     "Total Replaced",
		Status:            "Status",
		StatusExplanation: "Status Explanation",
		Latitude:          "Latitude",
		Longitude:         "Longitude",
		Exceedance:        "Exceedance",
		ReferenceLink:     "EPA_Link",
		ReplacedByYear: map[int]string{
			2021: "2021",
			2022: "2022",
			2023: "2023",
			2024: "2024",
		},
	}
}

// Validate checks that the map can identify records.
func (c ColumnMap) Validate() error {
	if c.ID == "" {
		return errors.New("column map: id column is required")
	}
	for year, col := range c.ReplacedByYear {
		if col == "" {
			return fmt.Errorf("column map: replaced_by_year %d has no column", year)
		}
	}
	return nil
}

