package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/emission-dashboard/internal/domain"
	"github.com/couchcryptid/emission-dashboard/internal/images"
)

// SnapshotProvider computes a fresh analytics snapshot on demand. Every
// request gets a full recomputation; the provider holds no state worth
// caching at this data volume.
type SnapshotProvider interface {
	Refresh(ctx context.Context) (domain.Snapshot, error)
	CheckReadiness(ctx context.Context) error
}

// ImageLister yields the most recent detection frames.
type ImageLister interface {
	Recent(limit int) ([]images.Entry, error)
}

// Server exposes the dashboard API plus health, readiness, and metrics
// HTTP endpoints.
type Server struct {
	httpServer   *http.Server
	provider     SnapshotProvider
	images       ImageLister
	recentImages int
	logger       *slog.Logger
}

// NewServer creates an HTTP server with the dashboard routes under /api/v1
// and the operational /healthz, /readyz, and /metrics routes.
func NewServer(addr string, provider SnapshotProvider, lister ImageLister, recentImages int, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		provider:     provider,
		images:       lister,
		recentImages: recentImages,
		logger:       logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/snapshot", s.handleSnapshot(func(snap domain.Snapshot) any { return snap }))
	mux.HandleFunc("GET /api/v1/hourly", s.handleSnapshot(func(snap domain.Snapshot) any { return snap.HourlyCounts }))
	mux.HandleFunc("GET /api/v1/hotspots", s.handleSnapshot(func(snap domain.Snapshot) any { return snap.Hotspots }))
	mux.HandleFunc("GET /api/v1/severity-wind", s.handleSnapshot(func(snap domain.Snapshot) any { return snap.SeverityWind }))
	mux.HandleFunc("GET /api/v1/directions", s.handleSnapshot(func(snap domain.Snapshot) any { return snap.DirectionHistogram }))
	mux.HandleFunc("GET /api/v1/wind-series", s.handleSnapshot(func(snap domain.Snapshot) any { return snap.WindSeries }))
	mux.HandleFunc("GET /api/v1/diagnostics", s.handleSnapshot(func(snap domain.Snapshot) any { return snap.Diagnostics }))
	mux.HandleFunc("GET /api/v1/images", s.handleImages)

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

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.provider.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleSnapshot recomputes the snapshot and serves the selected view of
// it. A missing log still serves 200 with empty tables and no_data set;
// only an unreadable log is a 500.
func (s *Server) handleSnapshot(view func(domain.Snapshot) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := s.provider.Refresh(r.Context())
		if err != nil {
			s.logger.Error("snapshot refresh failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "refresh failed"})
			return
		}
		writeJSON(w, http.StatusOK, view(snap))
	}
}

func (s *Server) handleImages(w http.ResponseWriter, _ *http.Request) {
	entries, err := s.images.Recent(s.recentImages)
	if err != nil {
		s.logger.Error("image scan failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "image scan failed"})
		return
	}
	if entries == nil {
		entries = []images.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
