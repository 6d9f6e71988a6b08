package domain

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is the canonical record set produced by one normalization run.
// A newer snapshot replaces the previous one entirely.
type Snapshot struct {
	ID          string              `json:"id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Records     []WaterSystemRecord `json:"records"`
	Stats       NormalizeStats      `json:"stats"`
}

// NewSnapshot stamps a record set with a fresh ID and the current time.
func NewSnapshot(records []WaterSystemRecord, stats NormalizeStats) Snapshot {
	return Snapshot{
		ID:          uuid.NewString(),
		GeneratedAt: clock.Now().UTC(),
		Records:     records,
		Stats:       stats,
	}
}

// Find returns the record with the given ID.
func (s Snapshot) Find(id string) (WaterSystemRecord, bool) {
	for _, r := range s.Records {
		if r.ID == id {
			return r, true
		}
	}
	return WaterSystemRecord{}, false
}
