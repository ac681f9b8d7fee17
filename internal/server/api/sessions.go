// Package api implements the HTTP API handlers for Astromind.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/astromind/internal/store"
)

// SessionsHandler handles HTTP requests for session resources.
type SessionsHandler struct {
	store *store.Store
}

// NewSessionsHandler creates a new SessionsHandler with the given store.
func NewSessionsHandler(s *store.Store) *SessionsHandler {
	return &SessionsHandler{store: s}
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/sessions, /api/sessions/{id}, /api/sessions/{id}/telemetry
func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.Trim(path, "/")

	switch {
	case path == "":
		h.list(w, r)
	case strings.HasSuffix(path, "/telemetry"):
		h.telemetry(w, r, strings.TrimSuffix(path, "/telemetry"))
	case !strings.Contains(path, "/"):
		h.get(w, r, path)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// Response types

type sessionResponse struct {
	ID           string  `json:"id"`
	StartedAt    string  `json:"started_at"`
	EndedAt      string  `json:"ended_at,omitempty"`
	DurationSecs int64   `json:"duration_secs"`
	Grade        string  `json:"grade"`
	Microsleeps  int     `json:"microsleeps"`
	Yawns        int     `json:"yawns"`
	AvgEAR       float64 `json:"avg_ear"`
	AvgMAR       float64 `json:"avg_mar"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type telemetryRecordResponse struct {
	Timestamp string  `json:"timestamp"`
	EAR       float64 `json:"ear"`
	MAR       float64 `json:"mar"`
	Status    string  `json:"status"`
	BPM       int     `json:"bpm"`
}

type listTelemetryResponse struct {
	SessionID string                    `json:"session_id"`
	Records   []telemetryRecordResponse `json:"records"`
}

func toSessionResponse(s store.Session) sessionResponse {
	resp := sessionResponse{
		ID:           s.ID,
		StartedAt:    s.StartedAt.Format(time.RFC3339),
		DurationSecs: s.DurationSecs,
		Grade:        s.Grade,
		Microsleeps:  s.Microsleeps,
		Yawns:        s.Yawns,
		AvgEAR:       s.AvgEAR,
		AvgMAR:       s.AvgMAR,
	}
	if s.EndedAt != nil {
		resp.EndedAt = s.EndedAt.Format(time.RFC3339)
	}
	return resp
}

// list handles GET /api/sessions
func (h *SessionsHandler) list(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.Sessions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, toSessionResponse(s))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/sessions/{id}
func (h *SessionsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	s, err := h.store.Sessions().Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(*s))
}

// telemetry handles GET /api/sessions/{id}/telemetry
func (h *SessionsHandler) telemetry(w http.ResponseWriter, r *http.Request, id string) {
	records, err := h.store.Telemetry().ListBySession(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list telemetry")
		return
	}

	response := listTelemetryResponse{
		SessionID: id,
		Records:   make([]telemetryRecordResponse, 0, len(records)),
	}
	for _, rec := range records {
		response.Records = append(response.Records, telemetryRecordResponse{
			Timestamp: rec.Timestamp.Format(time.RFC3339Nano),
			EAR:       rec.EAR,
			MAR:       rec.MAR,
			Status:    rec.Status,
			BPM:       rec.BPM,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
