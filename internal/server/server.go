// Package server exposes the read-only query surface over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/aleister1102/livewatch/internal/health"
	"github.com/aleister1102/livewatch/internal/manifest"
	"github.com/aleister1102/livewatch/internal/models"
	"github.com/aleister1102/livewatch/internal/monitor"
	"github.com/aleister1102/livewatch/internal/reporter"
	"github.com/aleister1102/livewatch/internal/urlhandler"
)

// SnapshotReader returns the current snapshot without blocking.
type SnapshotReader interface {
	Current() models.Snapshot
}

// SourceScanner runs the listing pipeline for one URL without publishing.
type SourceScanner interface {
	ScanSource(ctx context.Context, url string) []models.Event
}

// StateReader reports scheduler activity.
type StateReader interface {
	State() monitor.State
}

// ResourceReader returns the latest resource usage sample.
type ResourceReader interface {
	Latest(ctx context.Context) health.ResourceUsage
}

// Dependencies are the collaborators the handlers read from.
type Dependencies struct {
	Snapshots SnapshotReader
	Scanner   SourceScanner
	Scheduler StateReader
	Resources ResourceReader
	Dashboard *reporter.HtmlReporter
	EPG       *reporter.EPGReporter
}

// Server is the HTTP query surface.
type Server struct {
	cfg        Config
	deps       Dependencies
	router     chi.Router
	httpServer *http.Server
	logger     zerolog.Logger
}

// NewServer builds the router. Nothing listens until Start.
func NewServer(cfg Config, deps Dependencies, logger zerolog.Logger) *Server {
	cfg = cfg.withDefaults()
	s := &Server{
		cfg:    cfg,
		deps:   deps,
		router: chi.NewRouter(),
		logger: logger.With().Str("component", "HTTPServer").Logger(),
	}
	s.routes()
	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleDashboard)
	r.Get("/report.json", s.handleReportJSON)
	r.Get("/epg.xml", s.handleEPG)
	r.Get("/healthz", s.handleHealth)
	r.Get("/debug-scan", s.handleDebugScan)
	r.Post("/parse-m3u8", s.handleParseManifest)
	r.Handle("/metrics", promhttp.Handler())
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until Shutdown is called. It returns nil after a clean
// shutdown.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.cfg.ListenAddr).Msg("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("http_request")
	})
}

// --- JSON helpers ---

// writeJSON encodes before committing the status so an encoding failure
// still becomes a 500.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if v != nil {
		if err := reporter.WriteJSON(&buf, v); err != nil {
			s.logger.Error().Err(err).Msg("Failed to encode JSON response")
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
			return
		}
	}
	w.Header().Set("Content-Type", reporter.ContentTypeJSON)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// --- HTTP handlers ---

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", reporter.ContentTypeHTML)
	if err := s.deps.Dashboard.Render(w, s.deps.Snapshots.Current()); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render dashboard")
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
	}
}

func (s *Server) handleReportJSON(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.deps.Snapshots.Current())
}

func (s *Server) handleEPG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", reporter.ContentTypeXML)
	if err := s.deps.EPG.Render(w, s.deps.Snapshots.Current()); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render epg")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state := monitor.StateIdle
	if s.deps.Scheduler != nil {
		state = s.deps.Scheduler.State()
	}
	var usage health.ResourceUsage
	if s.deps.Resources != nil {
		usage = s.deps.Resources.Latest(r.Context())
	}
	s.writeJSON(w, http.StatusOK, health.NewReport(s.deps.Snapshots.Current(), string(state), usage))
}

type debugScanResponse struct {
	Found int            `json:"found"`
	Items []models.Event `json:"items"`
}

func (s *Server) handleDebugScan(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		s.writeError(w, http.StatusBadRequest, "missing url query parameter")
		return
	}
	if err := urlhandler.ValidateURLFormat(target); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items := s.deps.Scanner.ScanSource(r.Context(), target)
	s.logger.Info().Str("url", target).Int("found", len(items)).Msg("Debug scan completed")
	s.writeJSON(w, http.StatusOK, debugScanResponse{Found: len(items), Items: items})
}

type parseManifestRequest struct {
	M3U8Text string `json:"m3u8_text"`
}

func (s *Server) handleParseManifest(w http.ResponseWriter, r *http.Request) {
	var body parseManifestRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	s.writeJSON(w, http.StatusOK, manifest.Parse(body.M3U8Text))
}
