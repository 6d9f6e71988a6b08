package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/lead-line-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	batches [][]kafkago.Message
	err     error
	closed  bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, msgs)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func testSnapshot(n int) domain.Snapshot {
	records := make([]domain.WaterSystemRecord, n)
	for i := range records {
		records[i] = domain.WaterSystemRecord{
			ID:     string(rune('A' + i)),
			Status: domain.StatusCompliant,
		}
	}
	return domain.Snapshot{
		ID:          "5f0c6f2e-8c1b-4a57-9a55-3c1d9f1f4b10",
		GeneratedAt: time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC),
		Records:     records,
	}
}

func newTestWriter(fw *fakeWriter, batchSize int) *Writer {
	return &Writer{writer: fw, batchSize: batchSize, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestSerializeToMessage(t *testing.T) {
	snap := testSnapshot(0)
	rec := domain.WaterSystemRecord{
		ID:              "MI0002310",
		Name:            "Flint",
		TotalReplaced:   10059,
		PercentReplaced: 100,
		Status:          domain.StatusFullyReplaced,
		Coordinates:     &domain.Coordinates{Lat: 43.0125, Lon: -83.6875},
	}

	msg, err := serializeToMessage(snap, rec)
	require.NoError(t, err)

	assert.Equal(t, []byte("MI0002310"), msg.Key)
	assert.Contains(t, string(msg.Value), `"status":"100% replaced"`)
	assert.Contains(t, string(msg.Value), `"coordinates":{"lat":43.0125,"lon":-83.6875}`)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "status", msg.Headers[0].Key)
	assert.Equal(t, []byte("100% replaced"), msg.Headers[0].Value)
	assert.Equal(t, "snapshot_id", msg.Headers[1].Key)
	assert.Equal(t, []byte(snap.ID), msg.Headers[1].Value)
	assert.Equal(t, "generated_at", msg.Headers[2].Key)
	assert.Equal(t, []byte("2025-10-01T12:00:00Z"), msg.Headers[2].Value)
}

func TestWriter_LoadSnapshot_Chunks(t *testing.T) {
	tests := []struct {
		name      string
		records   int
		batchSize int
		want      []int
	}{
		{"single batch", 3, 50, []int{3}},
		{"exact multiple", 4, 2, []int{2, 2}},
		{"remainder", 5, 2, []int{2, 2, 1}},
		{"empty snapshot", 0, 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fw := &fakeWriter{}
			w := newTestWriter(fw, tt.batchSize)

			require.NoError(t, w.LoadSnapshot(context.Background(), testSnapshot(tt.records)))

			var sizes []int
			for _, b := range fw.batches {
				sizes = append(sizes, len(b))
			}
			assert.Equal(t, tt.want, sizes)
		})
	}
}

func TestWriter_LoadSnapshot_PreservesOrderAndKeys(t *testing.T) {
	fw := &fakeWriter{}
	w := newTestWriter(fw, 2)

	require.NoError(t, w.LoadSnapshot(context.Background(), testSnapshot(3)))

	var keys []string
	for _, b := range fw.batches {
		for _, m := range b {
			keys = append(keys, string(m.Key))
		}
	}
	assert.Equal(t, []string{"A", "B", "C"}, keys)
}

func TestWriter_LoadSnapshot_WriteError(t *testing.T) {
	fw := &fakeWriter{err: errors.New("leader not available")}
	w := newTestWriter(fw, 2)

	err := w.LoadSnapshot(context.Background(), testSnapshot(3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")
	assert.Contains(t, err.Error(), "write records 0-1")
}

func TestWriter_Close(t *testing.T) {
	fw := &fakeWriter{}
	require.NoError(t, newTestWriter(fw, 1).Close())
	assert.True(t, fw.closed)
}
