package pipeline_test

import (
	"context"
	"path/filepath"
	"testing"

	csvadapter "github.com/couchcryptid/lead-line-etl/internal/adapter/csv"
	"github.com/couchcryptid/lead-line-etl/internal/config"
	"github.com/couchcryptid/lead-line-etl/internal/domain"
	"github.com/couchcryptid/lead-line-etl/internal/observability"
	"github.com/couchcryptid/lead-line-etl/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ingestSampleData(t *testing.T) domain.Snapshot {
	t.Helper()
	cfg := &config.Config{SourceCSVPath: filepath.Join("..", "..", "data", "lead-data.csv")}
	reader := csvadapter.NewReader(cfg, discardLogger())
	p := newTestPipeline(reader, pipeline.NewStore(), observability.NewMetricsForTesting())

	snap, err := p.Run(context.Background())
	require.NoError(t, err)
	return snap
}

func TestSampleData_Normalize(t *testing.T) {
	snap := ingestSampleData(t)

	assert.Equal(t, domain.NormalizeStats{RowsRead: 13, MissingID: 1, DuplicateID: 1, UnrecognizedStatus: 1}, snap.Stats)
	require.Len(t, snap.Records, 11)

	kalamazoo, ok := snap.Find("MI0006360")
	require.True(t, ok)
	assert.Equal(t, 1300.0, kalamazoo.TotalReplaced, "revised row replaces the first filing")
	assert.Equal(t, 17200.0, kalamazoo.TotalToReplace)

	glwa, ok := snap.Find("MI0004480")
	require.True(t, ok)
	assert.Nil(t, glwa.Coordinates)
	assert.Zero(t, glwa.LeadLines)
	assert.Equal(t, domain.StatusWholesaleOnly, glwa.Status)

	flint, ok := snap.Find("MI0002310")
	require.True(t, ok)
	assert.Equal(t, "2016", flint.ExceedanceYear)

	for _, r := range snap.Records {
		assert.NotEmpty(t, r.ID)
		assert.GreaterOrEqual(t, r.PercentReplaced, 0.0)
		assert.LessOrEqual(t, r.PercentReplaced, 100.0)
	}
}

func TestSampleData_Summary(t *testing.T) {
	summary := domain.Summarize(ingestSampleData(t).Records)

	assert.Equal(t, 11, summary.Total)
	assert.Equal(t, 10, summary.Geolocated)
	assert.Equal(t, 3, summary.Count(domain.StatusFullyReplaced))
	assert.Equal(t, 2, summary.Count(domain.StatusNotCompliant))
	assert.Equal(t, 2, summary.Count(domain.StatusCompliant))
	assert.Equal(t, 1, summary.Count(domain.StatusUnknown))
	assert.Equal(t, domain.StatusFullyReplaced, summary.ByStatus[0].Status)
}

func TestSampleData_Rankings(t *testing.T) {
	records := ingestSampleData(t).Records

	tests := []struct {
		view domain.ViewMode
		want []string
	}{
		{
			view: domain.ViewBestProgress,
			want: []string{"Lansing Board of Water and Light", "Flint", "Benton Harbor", "Grand Rapids", "Detroit", "Kalamazoo", "Ann Arbor"},
		},
		{
			view: domain.ViewWorstProgress,
			want: []string{"Kalamazoo", "Detroit"},
		},
		{
			view: domain.ViewMostLead,
			want: []string{"Detroit", "Grand Rapids", "Dearborn", "Kalamazoo", "Benton Harbor", "Hamtramck", "Ann Arbor"},
		},
		{
			view: domain.ViewMostUnknown,
			want: []string{"Detroit", "Kalamazoo", "Dearborn", "Ann Arbor", "Grand Rapids", "Hamtramck"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.view.String(), func(t *testing.T) {
			ranked, err := domain.Rank(records, tt.view, domain.DefaultSort(tt.view))
			require.NoError(t, err)

			names := make([]string, len(ranked))
			for i, r := range ranked {
				names[i] = r.Name
			}
			if diff := cmp.Diff(tt.want, names); diff != "" {
				t.Errorf("ranking mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
