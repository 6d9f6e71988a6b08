package csv

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/lead-line-etl/internal/config"
	"github.com/couchcryptid/lead-line-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReader_ExtractRows(t *testing.T) {
	r := NewReader(&config.Config{SourceCSVPath: filepath.Join("testdata", "sample.csv")}, discardLogger())

	rows, err := r.ExtractRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "MI0001800", rows[0]["PWSID"], "BOM and padding stripped from header")
	assert.Equal(t, "Detroit", rows[0]["Supply Name"])
	assert.Equal(t, "639,111", rows[0]["Population"])
	assert.Equal(t, "-", rows[0]["Unknown"])
	assert.Equal(t, "Not compliant", rows[0]["Status"])

	assert.Equal(t, "100% replaced", rows[1]["Status"])

	assert.Equal(t, "1,500", rows[2]["Unknown"])
	_, ok := rows[2]["Status"]
	assert.False(t, ok, "short row leaves trailing columns absent")
}

func TestReader_ExtractRows_NormalizesEndToEnd(t *testing.T) {
	r := NewReader(&config.Config{SourceCSVPath: filepath.Join("testdata", "sample.csv")}, discardLogger())
	rows, err := r.ExtractRows(context.Background())
	require.NoError(t, err)

	records, stats := domain.NewNormalizer(domain.DefaultColumns()).Normalize(rows)

	require.Len(t, records, 3)
	assert.Equal(t, 3, stats.RowsRead)
	assert.Equal(t, 80200.0, records[0].TotalToReplace)
	assert.Equal(t, domain.StatusFullyReplaced, records[1].Status)
	assert.Equal(t, domain.StatusUnknown, records[2].Status)
}

func TestReader_ExtractRows_MissingFile(t *testing.T) {
	r := NewReader(&config.Config{SourceCSVPath: filepath.Join(t.TempDir(), "missing.csv")}, discardLogger())

	_, err := r.ExtractRows(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadRows(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []domain.RawRow
	}{
		{
			name:  "quoted numbers keep commas",
			input: "PWSID,Lead Lines\nA,\"1,234\"\n",
			want:  []domain.RawRow{{"PWSID": "A", "Lead Lines": "1,234"}},
		},
		{
			name:  "extra cells ignored",
			input: "PWSID,Name\nA,Alpha,surplus\n",
			want:  []domain.RawRow{{"PWSID": "A", "Name": "Alpha"}},
		},
		{
			name:  "lazy quote inside field",
			input: "PWSID,Name\nA,Village of \"Elk\" Rapids\n",
			want:  []domain.RawRow{{"PWSID": "A", "Name": "Village of \"Elk\" Rapids"}},
		},
		{
			name:  "blank header column dropped",
			input: "PWSID,,Name\nA,x,Alpha\n",
			want:  []domain.RawRow{{"PWSID": "A", "Name": "Alpha"}},
		},
		{
			name:  "duplicate header keeps first",
			input: "PWSID,Name,Name\nA,first,second\n",
			want:  []domain.RawRow{{"PWSID": "A", "Name": "first"}},
		},
		{
			name:  "header only",
			input: "PWSID,Name\n",
			want:  nil,
		},
		{
			name:  "whitespace-only row skipped",
			input: "PWSID,Name\n  , \nB,Beta\n",
			want:  []domain.RawRow{{"PWSID": "B", "Name": "Beta"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ReadRows(context.Background(), strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows)
		})
	}
}

func TestReadRows_EmptyInput(t *testing.T) {
	_, err := ReadRows(context.Background(), strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestReadRows_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadRows(ctx, strings.NewReader("PWSID\nA\n"))
	assert.ErrorIs(t, err, context.Canceled)
}
