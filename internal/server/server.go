// Package server exposes the diagnostic engine over a small HTTP API for
// the dashboard.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"codeberg.org/mutker/droidscout/internal/adb"
	"codeberg.org/mutker/droidscout/internal/errors"
	"codeberg.org/mutker/droidscout/internal/logger"
	"codeberg.org/mutker/droidscout/internal/report"
	"codeberg.org/mutker/droidscout/internal/session"
	"codeberg.org/mutker/droidscout/internal/store"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Config carries the server wiring that comes from the main configuration.
type Config struct {
	Listen    string
	Device    string
	OutputDir string
}

// Server routes dashboard requests to the snapshot builder, the session
// aggregator and the device runner.
type Server struct {
	builder snapshotter
	agg     *session.Aggregator
	runner  adb.Runner
	repo    store.Repository
	cfg     Config

	mux        *http.ServeMux
	httpServer *http.Server
}

type snapshotter = session.Snapshotter

// New wires a server; Routes must be called before serving.
func New(builder snapshotter, agg *session.Aggregator, runner adb.Runner, repo store.Repository, cfg Config) (*Server, error) {
	errFactory := errors.New()

	if builder == nil || agg == nil || runner == nil {
		return nil, errFactory.New(errors.ErrNilRunner)
	}
	if repo == nil {
		repo = store.Disabled()
	}

	return &Server{
		builder: builder,
		agg:     agg,
		runner:  runner,
		repo:    repo,
		cfg:     cfg,
		mux:     http.NewServeMux(),
	}, nil
}

// Routes registers all HTTP handlers on the server mux.
func (s *Server) Routes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/api/stats", s.handleStats)
	s.mux.HandleFunc("/api/session/start", s.handleSessionStart)
	s.mux.HandleFunc("/api/session/stop", s.handleSessionStop)
	s.mux.HandleFunc("/api/session/status", s.handleSessionStatus)
	s.mux.HandleFunc("/api/clear_cache", s.handleClearCache)
	s.mux.HandleFunc("/api/kill", s.handleKill)
}

// Handler exposes the configured mux.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errFactory := errors.New()

	s.httpServer = &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()
	logger.Info().Str("listen", s.cfg.Listen).Msg("Dashboard listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return errFactory.Wrap(errors.ErrShutdownFailed, err)
		}

		return nil
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			return errFactory.Wrap(errors.ErrUnavailable, err)
		}

		return nil
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	state, count := s.agg.Status()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexPage, s.cfg.Device, state, count)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := s.builder.Build(r.Context(), s.cfg.Device)
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.agg.Start()
	logger.Info().Str("device", s.cfg.Device).Msg("Monitoring session started")
	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

func (s *Server) handleSessionStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshots := s.agg.Stop()
	logger.Info().Int("snapshots", len(snapshots)).Msg("Monitoring session stopped")

	if len(snapshots) > 0 {
		if err := s.repo.SaveSession(r.Context(), s.cfg.Device, snapshots); err != nil {
			logger.Error().
				Str("error_code", string(errors.CodeOf(err))).
				Err(err).
				Msg("Failed to persist session")
		}
	}

	exportPath := ""
	if len(snapshots) > 0 && s.cfg.OutputDir != "" {
		exportPath = filepath.Join(s.cfg.OutputDir,
			"session_"+time.Now().Format("20060102_150405")+".json")
		if err := report.WriteSessionJSON(exportPath, snapshots); err != nil {
			logger.Error().Err(err).Str("path", exportPath).Msg("Failed to export session")
			exportPath = ""
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "stopped",
		"snapshots": len(snapshots),
		"export":    exportPath,
	})
}

func (s *Server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state, count := s.agg.Status()
	writeJSON(w, http.StatusOK, map[string]any{
		"state":     state,
		"snapshots": count,
	})
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	output := adb.TrimCaches(r.Context(), s.runner, s.cfg.Device)
	logger.Info().Str("device", s.cfg.Device).Msg("Trimmed app caches")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "output": output})
}

func (s *Server) handleKill(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		PID int `json:"pid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pid required"})
		return
	}

	adb.KillProcess(r.Context(), s.runner, s.cfg.Device, req.PID)
	logger.Info().Int("pid", req.PID).Str("device", s.cfg.Device).Msg("Sent kill signal")
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "pid": req.PID})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug().Err(err).Msg("Failed to encode response")
	}
}

const indexPage = `<!doctype html>
<html>
  <head><meta charset="utf-8"><title>DroidScout</title></head>
  <body>
    <h1>DroidScout</h1>
    <p>Device: %s</p>
    <p>Session: %s (%d snapshots)</p>
    <p>API: GET /api/stats, POST /api/session/start, POST /api/session/stop,
       GET /api/session/status, POST /api/clear_cache, POST /api/kill</p>
  </body>
</html>`
