package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/astromind/internal/app"
	"github.com/ayusman/astromind/internal/fatigue"
	"github.com/ayusman/astromind/internal/session"
	"github.com/ayusman/astromind/internal/store"
	"github.com/ayusman/astromind/internal/telemetry"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestServer_Health(t *testing.T) {
	srv := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestServer_HealthMethodNotAllowed(t *testing.T) {
	srv := New(Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestServer_ListSessions(t *testing.T) {
	s := newTestStore(t)

	start := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	s.Sessions().Create("mission-1", start)
	s.Sessions().Finish("mission-1", session.Report{
		Start:            start,
		End:              start.Add(30 * time.Minute),
		Duration:         30 * time.Minute,
		Grade:            session.GradeS,
		TotalMicrosleeps: 0,
		TotalYawns:       1,
		AvgEAR:           0.29,
	})

	srv := New(Config{Store: s})

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		Sessions []struct {
			ID    string `json:"id"`
			Grade string `json:"grade"`
		} `json:"sessions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(body.Sessions))
	}
	if body.Sessions[0].ID != "mission-1" || body.Sessions[0].Grade != "S" {
		t.Errorf("session = %+v", body.Sessions[0])
	}
}

func TestServer_GetSessionNotFound(t *testing.T) {
	srv := New(Config{Store: newTestStore(t)})

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/no-such-id", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestServer_SessionTelemetry(t *testing.T) {
	s := newTestStore(t)

	start := time.Now()
	s.Sessions().Create("mission-1", start)
	sink := s.NewTelemetrySink("mission-1")
	sink.Append(telemetryRecord(start, "SYSTEM: ONLINE"))
	sink.Append(telemetryRecord(start.Add(100*time.Millisecond), "CAUTION: EYES CLOSING"))

	srv := New(Config{Store: s})

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/mission-1/telemetry", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		SessionID string `json:"session_id"`
		Records   []struct {
			Status string `json:"status"`
		} `json:"records"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.SessionID != "mission-1" {
		t.Errorf("session_id = %q", body.SessionID)
	}
	if len(body.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(body.Records))
	}
	if body.Records[1].Status != "CAUTION: EYES CLOSING" {
		t.Errorf("second record status = %q", body.Records[1].Status)
	}
}

func telemetryRecord(ts time.Time, status string) telemetry.Record {
	return telemetry.Record{Timestamp: ts, EAR: 0.25, MAR: 0.1, Status: status, BPM: 72}
}

func TestServer_StatusReflectsIdleApp(t *testing.T) {
	a := app.New(app.Config{Fatigue: fatigue.DefaultConfig()})
	srv := New(Config{App: a})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["stage"] != "none" {
		t.Errorf("stage = %v, want none", body["stage"])
	}
	if body["session_id"] != "" {
		t.Errorf("session_id = %v, want empty while idle", body["session_id"])
	}
	if body["label"] != "SYSTEM: ONLINE" {
		t.Errorf("label = %v", body["label"])
	}
}
