package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for ingest and ranking.
type Metrics struct {
	RowsRead           prometheus.Counter
	RowsDropped        *prometheus.CounterVec // labels: reason={missing_id,duplicate_id}
	UnrecognizedStatus prometheus.Counter
	RecordsByStatus    *prometheus.GaugeVec // labels: status
	IngestRunning      prometheus.Gauge
	IngestDuration     prometheus.Histogram
	IngestFailures     prometheus.Counter
	SnapshotTimestamp  prometheus.Gauge

	// Kafka publishing metrics.
	RecordsPublished prometheus.Counter
	PublishErrors    prometheus.Counter

	// Ranking metrics.
	RankRequests *prometheus.CounterVec // labels: view
	RankErrors   prometheus.Counter
	RankCache    *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)

	prometheus.MustRegister(
		m.RowsRead,
		m.RowsDropped,
		m.UnrecognizedStatus,
		m.RecordsByStatus,
		m.IngestRunning,
		m.IngestDuration,
		m.IngestFailures,
		m.SnapshotTimestamp,
		m.RecordsPublished,
		m.PublishErrors,
		m.RankRequests,
		m.RankErrors,
		m.RankCache,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}

	return &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lead_etl",
			Name:      "rows_read_total",
			Help:      help("Total raw rows read from the source CSV."),
		}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lead_etl",
			Name:      "rows_dropped_total",
			Help:      help("Raw rows excluded from the canonical set, by reason."),
		}, []string{"reason"}),
		UnrecognizedStatus: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lead_etl",
			Name:      "unrecognized_status_total",
			Help:      help("Rows whose status label was not a known category."),
		}),
		RecordsByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lead_etl",
			Name:      "records",
			Help:      help("Records in the current snapshot, by status."),
		}, []string{"status"}),
		IngestRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lead_etl",
			Name:      "ingest_running",
			Help:      help("1 while an ingest run is in progress."),
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lead_etl",
			Name:      "ingest_duration_seconds",
			Help:      help("Duration of a complete extract-normalize-load run."),
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		IngestFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lead_etl",
			Name:      "ingest_failures_total",
			Help:      help("Ingest runs that did not produce a snapshot."),
		}),
		SnapshotTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lead_etl",
			Name:      "snapshot_timestamp_seconds",
			Help:      help("Unix time the current snapshot was generated."),
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lead_etl",
			Name:      "records_published_total",
			Help:      help("Total canonical records written to the sink topic."),
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lead_etl",
			Name:      "publish_errors_total",
			Help:      help("Failed attempts to publish a snapshot."),
		}),
		RankRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lead_etl",
			Name:      "rank_requests_total",
			Help:      help("Ranking requests by view mode."),
		}, []string{"view"}),
		RankErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lead_etl",
			Name:      "rank_errors_total",
			Help:      help("Ranking requests rejected for an unknown view, field, or direction."),
		}),
		RankCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lead_etl",
			Name:      "rank_cache_total",
			Help:      help("Ranking cache lookups by result."),
		}, []string{"result"}),
	}
}
