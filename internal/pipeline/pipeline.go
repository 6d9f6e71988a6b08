package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/lead-line-etl/internal/domain"
	"github.com/couchcryptid/lead-line-etl/internal/observability"
)

// RowExtractor reads the complete batch of raw rows from the source.
type RowExtractor interface {
	ExtractRows(ctx context.Context) ([]domain.RawRow, error)
}

// Normalizer converts raw rows into canonical records.
type Normalizer interface {
	Normalize(rows []domain.RawRow) ([]domain.WaterSystemRecord, domain.NormalizeStats)
}

// SnapshotLoader receives each newly built snapshot.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, snap domain.Snapshot) error
}

// Default publish retry policy.
const (
	defaultPublishAttempts = 5
	defaultInitialBackoff  = 200 * time.Millisecond
	defaultMaxBackoff      = 5 * time.Second
)

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithPublishRetry overrides how often and how patiently publishers are retried.
func WithPublishRetry(attempts int, initial, maxBackoff time.Duration) Option {
	return func(p *Pipeline) {
		p.publishAttempts = max(attempts, 1)
		p.initialBackoff = initial
		p.maxBackoff = maxBackoff
	}
}

// Pipeline orchestrates one extract-normalize-load ingest run.
type Pipeline struct {
	extractor  RowExtractor
	normalizer Normalizer
	store      *Store
	publishers []SnapshotLoader
	logger     *slog.Logger
	metrics    *observability.Metrics

	publishAttempts int
	initialBackoff  time.Duration
	maxBackoff      time.Duration

	// mu serializes ingest runs.
	mu sync.Mutex
}

// New creates a Pipeline. Every snapshot goes to store first, then to each
// publisher in order.
func New(e RowExtractor, n Normalizer, store *Store, publishers []SnapshotLoader, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor:       e,
		normalizer:      n,
		store:           store,
		publishers:      publishers,
		logger:          logger,
		metrics:         metrics,
		publishAttempts: defaultPublishAttempts,
		initialBackoff:  defaultInitialBackoff,
		maxBackoff:      defaultMaxBackoff,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once the first snapshot is being served.
func (p *Pipeline) CheckReadiness(ctx context.Context) error {
	return p.store.CheckReadiness(ctx)
}

// Serve runs an ingest immediately and again each time reload fires, until
// the context is cancelled. A failed run is logged and the previous snapshot
// stays in place.
func (p *Pipeline) Serve(ctx context.Context, reload <-chan struct{}) error {
	p.logger.Info("pipeline started", "publishers", len(p.publishers))
	for {
		if _, err := p.Run(ctx); err != nil && ctx.Err() == nil {
			p.logger.Error("ingest failed", "error", err)
		}

		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-reload:
			p.logger.Info("reload requested")
		}
	}
}

// Run performs one ingest and returns the snapshot it built. Extract failures
// leave the served snapshot untouched. Publish failures are reported after
// the new snapshot is already being served.
func (p *Pipeline) Run(ctx context.Context) (domain.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()
	p.metrics.IngestRunning.Set(1)
	defer p.metrics.IngestRunning.Set(0)

	rows, err := p.extractor.ExtractRows(ctx)
	if err != nil {
		p.metrics.IngestFailures.Inc()
		return domain.Snapshot{}, fmt.Errorf("extract rows: %w", err)
	}

	records, stats := p.normalizer.Normalize(rows)
	snap := domain.NewSnapshot(records, stats)
	p.recordStats(snap)

	if err := p.store.LoadSnapshot(ctx, snap); err != nil {
		p.metrics.IngestFailures.Inc()
		return domain.Snapshot{}, fmt.Errorf("store snapshot: %w", err)
	}
	p.metrics.SnapshotTimestamp.Set(float64(snap.GeneratedAt.Unix()))
	p.metrics.IngestDuration.Observe(time.Since(start).Seconds())

	p.logger.Info("snapshot loaded",
		"snapshot_id", snap.ID,
		"records", len(snap.Records),
		"rows_read", stats.RowsRead,
		"duration", time.Since(start),
	)

	var errs []error
	for _, pub := range p.publishers {
		if err := p.publish(ctx, pub, snap); err != nil {
			errs = append(errs, err)
		}
	}
	return snap, errors.Join(errs...)
}

// recordStats reports the normalization diagnostics as metrics and log lines.
func (p *Pipeline) recordStats(snap domain.Snapshot) {
	stats := snap.Stats
	p.metrics.RowsRead.Add(float64(stats.RowsRead))
	p.metrics.RowsDropped.WithLabelValues("missing_id").Add(float64(stats.MissingID))
	p.metrics.RowsDropped.WithLabelValues("duplicate_id").Add(float64(stats.DuplicateID))
	p.metrics.UnrecognizedStatus.Add(float64(stats.UnrecognizedStatus))

	if stats.MissingID > 0 {
		p.logger.Warn("rows without id dropped", "count", stats.MissingID)
	}
	if stats.DuplicateID > 0 {
		p.logger.Warn("duplicate ids replaced", "count", stats.DuplicateID)
	}
	if stats.UnrecognizedStatus > 0 {
		p.logger.Warn("unrecognized status labels mapped to Unknown", "count", stats.UnrecognizedStatus)
	}

	summary := domain.Summarize(snap.Records)
	attrs := make([]any, 0, 2*len(summary.ByStatus))
	for _, status := range domain.AllStatuses() {
		n := summary.Count(status)
		p.metrics.RecordsByStatus.WithLabelValues(string(status)).Set(float64(n))
		if n > 0 {
			attrs = append(attrs, string(status), n)
		}
	}
	p.logger.Info("status summary", attrs...)
}

// publish hands the snapshot to one publisher, retrying with exponential backoff.
func (p *Pipeline) publish(ctx context.Context, pub SnapshotLoader, snap domain.Snapshot) error {
	backoff := p.initialBackoff
	var err error
	for attempt := 1; attempt <= p.publishAttempts; attempt++ {
		if err = pub.LoadSnapshot(ctx, snap); err == nil {
			p.metrics.RecordsPublished.Add(float64(len(snap.Records)))
			return nil
		}
		p.metrics.PublishErrors.Inc()
		p.logger.Error("publish snapshot failed",
			"error", err,
			"snapshot_id", snap.ID,
			"attempt", attempt,
		)

		if attempt == p.publishAttempts || !sleepWithContext(ctx, backoff) {
			break
		}
		backoff = nextBackoff(backoff, p.maxBackoff)
	}
	return fmt.Errorf("publish snapshot %s: %w", snap.ID, err)
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
