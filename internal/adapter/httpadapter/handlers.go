package httpadapter

import (
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/lead-line-etl/internal/domain"
)

// rankedRow is a record annotated with its 1-based position in a ranking.
// Distinguished marks the podium rows of the best-progress view.
type rankedRow struct {
	Rank          int  `json:"rank"`
	Distinguished bool `json:"distinguished"`
	domain.WaterSystemRecord
}

// column tells a renderer which direction a click on the header would select.
type column struct {
	Field         string `json:"field"`
	NextDirection string `json:"next_direction"`
}

type rankingResponse struct {
	SnapshotID  string      `json:"snapshot_id"`
	GeneratedAt time.Time   `json:"generated_at"`
	View        string      `json:"view"`
	Sort        string      `json:"sort"`
	Direction   string      `json:"direction"`
	Columns     []column    `json:"columns"`
	Count       int         `json:"count"`
	Rows        []rankedRow `json:"rows"`
}

type viewInfo struct {
	View             string `json:"view"`
	DefaultSort      string `json:"default_sort"`
	DefaultDirection string `json:"default_direction"`
}

type systemsResponse struct {
	SnapshotID string                     `json:"snapshot_id"`
	Count      int                        `json:"count"`
	Systems    []domain.WaterSystemRecord `json:"systems"`
}

type summaryResponse struct {
	SnapshotID  string                `json:"snapshot_id"`
	GeneratedAt time.Time             `json:"generated_at"`
	Stats       domain.NormalizeStats `json:"stats"`
	Summary     domain.Summary        `json:"summary"`
}

const podiumSize = 3

// GET /api/v1/rankings?view=&sort=&direction=
func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	view, err := domain.ParseViewMode(q.Get("view"))
	if err != nil {
		s.metrics.RankErrors.Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	spec, err := domain.ResolveSort(view, q.Get("sort"), q.Get("direction"))
	if err != nil {
		s.metrics.RankErrors.Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.metrics.RankRequests.WithLabelValues(view.String()).Inc()

	snap, ok := s.currentSnapshot(w)
	if !ok {
		return
	}

	ranked, err := s.rank(snap, view, spec)
	if err != nil {
		s.metrics.RankErrors.Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows := make([]rankedRow, len(ranked))
	for i, rec := range ranked {
		rows[i] = rankedRow{
			Rank:              i + 1,
			Distinguished:     view == domain.ViewBestProgress && i < podiumSize,
			WaterSystemRecord: rec,
		}
	}

	fields := domain.AllFieldKeys()
	columns := make([]column, len(fields))
	for i, f := range fields {
		columns[i] = column{Field: f.String(), NextDirection: spec.Toggle(f).Direction.String()}
	}

	writeJSON(w, http.StatusOK, rankingResponse{
		SnapshotID:  snap.ID,
		GeneratedAt: snap.GeneratedAt,
		View:        view.String(),
		Sort:        spec.Field.String(),
		Direction:   spec.Direction.String(),
		Columns:     columns,
		Count:       len(rows),
		Rows:        rows,
	})
}

// rank serves a ranking from the cache, computing and storing it on a miss.
func (s *Server) rank(snap domain.Snapshot, view domain.ViewMode, spec domain.SortSpec) ([]domain.WaterSystemRecord, error) {
	key := rankKey(snap.ID, view, spec)
	if ranked, ok := s.cache.get(key); ok {
		s.metrics.RankCache.WithLabelValues("hit").Inc()
		return ranked, nil
	}
	s.metrics.RankCache.WithLabelValues("miss").Inc()

	ranked, err := domain.Rank(snap.Records, view, spec)
	if err != nil {
		return nil, err
	}
	s.cache.put(key, ranked)
	return ranked, nil
}

// GET /api/v1/views
func (s *Server) handleViews(w http.ResponseWriter, _ *http.Request) {
	views := domain.AllViewModes()
	out := make([]viewInfo, len(views))
	for i, v := range views {
		def := domain.DefaultSort(v)
		out[i] = viewInfo{View: v.String(), DefaultSort: def.Field.String(), DefaultDirection: def.Direction.String()}
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/v1/systems?status=&geolocated=true
func (s *Server) handleSystems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var statuses []domain.Status
	for _, param := range q["status"] {
		for _, label := range strings.Split(param, ",") {
			if strings.TrimSpace(label) == "" {
				continue
			}
			st, ok := domain.ParseStatus(label)
			if !ok {
				writeError(w, http.StatusBadRequest, "unknown status: "+strings.TrimSpace(label))
				return
			}
			statuses = append(statuses, st)
		}
	}

	snap, ok := s.currentSnapshot(w)
	if !ok {
		return
	}

	systems := domain.FilterByStatus(snap.Records, statuses...)
	if q.Get("geolocated") == "true" {
		systems = domain.Geolocated(systems)
	}
	writeJSON(w, http.StatusOK, systemsResponse{SnapshotID: snap.ID, Count: len(systems), Systems: systems})
}

// GET /api/v1/systems/{id}
func (s *Server) handleSystem(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentSnapshot(w)
	if !ok {
		return
	}
	rec, found := snap.Find(r.PathValue("id"))
	if !found {
		writeError(w, http.StatusNotFound, "water system not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// GET /api/v1/summary
func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.currentSnapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		SnapshotID:  snap.ID,
		GeneratedAt: snap.GeneratedAt,
		Stats:       snap.Stats,
		Summary:     domain.Summarize(snap.Records),
	})
}

// GET /api/v1/statuses
func (s *Server) handleStatuses(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, legend())
}

// currentSnapshot writes a 503 and reports false before the first ingest completes.
func (s *Server) currentSnapshot(w http.ResponseWriter) (domain.Snapshot, bool) {
	snap, ok := s.snapshots.Current()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no snapshot loaded yet")
		return domain.Snapshot{}, false
	}
	return snap, true
}
