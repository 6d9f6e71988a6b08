package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/lead-line-etl/internal/domain"
	"github.com/couchcryptid/lead-line-etl/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SnapshotSource provides the snapshot currently being served.
type SnapshotSource interface {
	Current() (domain.Snapshot, bool)
}

// Server exposes the ranking API alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	snapshots  SnapshotSource
	cache      *rankCache
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /api/v1 routes, /healthz, /readyz, and /metrics.
func NewServer(addr string, snapshots SnapshotSource, ready sharedobs.ReadinessChecker, metrics *observability.Metrics, cacheSize int, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		snapshots: snapshots,
		cache:     newRankCache(cacheSize),
		metrics:   metrics,
		logger:    logger,
	}

	mux.HandleFunc("GET /api/v1/rankings", s.handleRankings)
	mux.HandleFunc("GET /api/v1/views", s.handleViews)
	mux.HandleFunc("GET /api/v1/systems", s.handleSystems)
	mux.HandleFunc("GET /api/v1/systems/{id}", s.handleSystem)
	mux.HandleFunc("GET /api/v1/summary", s.handleSummary)
	mux.HandleFunc("GET /api/v1/statuses", s.handleStatuses)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
