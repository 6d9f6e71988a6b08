package httpadapter

import "github.com/couchcryptid/lead-line-etl/internal/domain"

// statusMeta is the legend entry a renderer shows for a status.
type statusMeta struct {
	Status      domain.Status `json:"status"`
	Color       string        `json:"color"`
	Description string        `json:"description"`
}

var statusLegend = map[domain.Status]statusMeta{
	domain.StatusNoLeadLines:         {Color: "#3b82f6", Description: "Inventory completed, no lead lines identified"},
	domain.StatusNotCompliant:        {Color: "#dc2626", Description: "<20% average replacement, 2021–2024"},
	domain.StatusCompliant:           {Color: "#16a34a", Description: "≥20% average replacement, 2021–2024"},
	domain.StatusInventoryIncomplete: {Color: "#9333ea", Description: "No complete inventory filed"},
	domain.StatusFullyReplaced:       {Color: "#059669", Description: "All lead lines replaced"},
	domain.StatusWholesaleOnly:       {Color: "#6b7280", Description: "Wholesale water provider, no service lines"},
	domain.StatusUnknown:             {Color: "#9ca3af", Description: "Status unknown"},
}

// legend returns every status's presentation metadata in display order.
func legend() []statusMeta {
	statuses := domain.AllStatuses()
	out := make([]statusMeta, 0, len(statuses))
	for _, s := range statuses {
		m := statusLegend[s]
		m.Status = s
		out = append(out, m)
	}
	return out
}
