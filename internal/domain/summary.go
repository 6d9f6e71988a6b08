package domain

import "sort"

// StatusCount is the number of records carrying one status.
type StatusCount struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

// Summary is a diagnostic breakdown of a record set.
type Summary struct {
	Total      int           `json:"total"`
	Geolocated int           `json:"geolocated"`
	ByStatus   []StatusCount `json:"by_status"`
}

// Summarize counts records per status, most frequent first. Equal counts are
// ordered by label so the output is stable.
func Summarize(records []WaterSystemRecord) Summary {
	counts := make(map[Status]int)
	geolocated := 0
	for _, r := range records {
		counts[r.Status]++
		if r.Geolocated() {
			geolocated++
		}
	}

	byStatus := make([]StatusCount, 0, len(counts))
	for s, n := range counts {
		byStatus = append(byStatus, StatusCount{Status: s, Count: n})
	}
	sort.Slice(byStatus, func(i, j int) bool {
		if byStatus[i].Count != byStatus[j].Count {
			return byStatus[i].Count > byStatus[j].Count
		}
		return byStatus[i].Status < byStatus[j].Status
	})

	return Summary{Total: len(records), Geolocated: geolocated, ByStatus: byStatus}
}

// Count returns the number of records with the given status.
func (s Summary) Count(status Status) int {
	for _, c := range s.ByStatus {
		if c.Status == status {
			return c.Count
		}
	}
	return 0
}

// Geolocated returns the records that carry coordinates, in input order.
func Geolocated(records []WaterSystemRecord) []WaterSystemRecord {
	out := make([]WaterSystemRecord, 0, len(records))
	for _, r := range records {
		if r.Geolocated() {
			out = append(out, r)
		}
	}
	return out
}

// FilterByStatus keeps records whose status is one of statuses. With no
// statuses it returns a copy of all records.
func FilterByStatus(records []WaterSystemRecord, statuses ...Status) []WaterSystemRecord {
	if len(statuses) == 0 {
		out := make([]WaterSystemRecord, len(records))
		copy(out, records)
		return out
	}
	want := make(map[Status]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}
	out := make([]WaterSystemRecord, 0, len(records))
	for _, r := range records {
		if want[r.Status] {
			out = append(out, r)
		}
	}
	return out
}
