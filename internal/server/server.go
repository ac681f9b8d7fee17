// Package server provides the HTTP server for the Astromind fatigue
// monitoring system.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/astromind/internal/app"
	"github.com/ayusman/astromind/internal/server/api"
	"github.com/ayusman/astromind/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
}

// Server represents the HTTP server for the Astromind application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register session API handlers if Store is configured
	if s.config.Store != nil {
		sessionsHandler := api.NewSessionsHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessionsHandler)
		s.mux.Handle("/api/sessions/", sessionsHandler)
	}

	// Live endpoints need the running app
	if s.config.App != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.App))

		telemetryHandler := NewTelemetryHandler()
		s.config.App.OnDecision(telemetryHandler.Broadcast)
		s.mux.Handle("/api/telemetry", telemetryHandler)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleStatus handles GET requests to /api/status with the live
// escalation state and session totals.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	d := s.config.App.LastDecision()
	snap := s.config.App.SessionSnapshot()

	response := map[string]interface{}{
		"session_id":         s.config.App.SessionID(),
		"monitoring":         s.config.App.IsEnabled(),
		"stage":              d.Stage.String(),
		"label":              d.Stage.Label(),
		"severity":           d.Severity.String(),
		"ear":                d.Sample.EAR,
		"mar":                d.Sample.MAR,
		"face_detected":      d.Sample.Detected,
		"eyes_closed_frames": d.EyesClosedFrames,
		"yawn_frames":        d.YawnFrames,
		"bpm":                d.BPM,
		"total_microsleeps":  snap.TotalMicrosleeps,
		"total_yawns":        snap.TotalYawns,
	}
	if !snap.Start.IsZero() {
		response["elapsed"] = time.Since(snap.Start).Truncate(time.Second).String()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
