package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/astromind/internal/alert"
	"github.com/ayusman/astromind/internal/app"
	"github.com/ayusman/astromind/internal/capture"
	"github.com/ayusman/astromind/internal/detector"
	"github.com/ayusman/astromind/internal/fatigue"
	"github.com/ayusman/astromind/internal/server"
	"github.com/ayusman/astromind/internal/store"
)

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "data.db")

	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	application := app.New(app.Config{
		Store:   s,
		DataDir: tmpDir,
		Fatigue: fatigue.DefaultConfig(),
	})
	application.SetCamera(capture.NewBlankMockCamera())
	application.SetAlertSink(&alert.RecorderSink{})

	mockDetector := detector.NewMockDetector()
	drowsy := detector.DrowsyFaceLandmarks()
	mockDetector.SetFace(&drowsy)
	application.SetDetector(mockDetector)

	srv := server.New(server.Config{Store: s, App: application})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	t.Run("HealthCheck", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("health check error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	if err := application.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	sessionID := application.SessionID()

	t.Run("EscalationVisibleOverAPI", func(t *testing.T) {
		// The closed-eye feed should cross into critical within a
		// second at 30 FPS; poll until it does.
		deadline := time.Now().Add(5 * time.Second)
		for {
			resp, err := client.Get(ts.URL + "/api/status")
			if err != nil {
				t.Fatalf("status error = %v", err)
			}
			var body map[string]interface{}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode status: %v", err)
			}
			resp.Body.Close()

			if body["stage"] == "critical" {
				if body["label"] != "CRITICAL: WAKE UP!" {
					t.Errorf("label = %v", body["label"])
				}
				if body["total_microsleeps"].(float64) != 1 {
					t.Errorf("total_microsleeps = %v, want 1", body["total_microsleeps"])
				}
				break
			}
			if time.Now().After(deadline) {
				t.Fatalf("never reached critical, last status: %v", body)
			}
			time.Sleep(50 * time.Millisecond)
		}
	})

	t.Run("LiveTelemetryStream", func(t *testing.T) {
		wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/telemetry"
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			t.Fatalf("websocket dial error = %v", err)
		}
		defer conn.Close()

		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		var frame map[string]interface{}
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("read frame error = %v", err)
		}
		if _, ok := frame["stage"]; !ok {
			t.Errorf("frame missing stage: %v", frame)
		}
		if _, ok := frame["ear"]; !ok {
			t.Errorf("frame missing ear: %v", frame)
		}
	})

	report, err := application.EndSession()
	if err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}
	if report.TotalMicrosleeps != 1 {
		t.Errorf("TotalMicrosleeps = %d, want 1", report.TotalMicrosleeps)
	}

	t.Run("SessionPersisted", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/sessions/" + sessionID)
		if err != nil {
			t.Fatalf("get session error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode session: %v", err)
		}
		if body["grade"] != "A" {
			t.Errorf("grade = %v, want A", body["grade"])
		}
		if body["microsleeps"].(float64) != 1 {
			t.Errorf("microsleeps = %v, want 1", body["microsleeps"])
		}
		if body["ended_at"] == "" {
			t.Error("session not marked ended")
		}
	})

	t.Run("TelemetryPersisted", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/sessions/" + sessionID + "/telemetry")
		if err != nil {
			t.Fatalf("get telemetry error = %v", err)
		}
		defer resp.Body.Close()

		var body struct {
			SessionID string                   `json:"session_id"`
			Records   []map[string]interface{} `json:"records"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode telemetry: %v", err)
		}
		if body.SessionID != sessionID {
			t.Errorf("session_id = %q, want %q", body.SessionID, sessionID)
		}
		if len(body.Records) == 0 {
			t.Error("no telemetry records persisted")
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, _ := client.Get(ts.URL + "/api/health")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after session end")
		}
		resp.Body.Close()
	})
}

func TestE2E_RecoveryClearsEscalation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	application := app.New(app.Config{Store: s, Fatigue: fatigue.DefaultConfig()})
	application.SetCamera(capture.NewBlankMockCamera())
	application.SetAlertSink(&alert.RecorderSink{})

	mockDetector := detector.NewMockDetector()
	drowsy := detector.DrowsyFaceLandmarks()
	mockDetector.SetFace(&drowsy)
	application.SetDetector(mockDetector)

	if err := application.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer application.Stop()

	// Let the counter climb past the microsleep limit
	deadline := time.Now().Add(5 * time.Second)
	for application.LastDecision().Stage != fatigue.StageCritical {
		if time.Now().After(deadline) {
			t.Fatal("never reached critical")
		}
		time.Sleep(50 * time.Millisecond)
	}

	// Eyes open: one frame clears the escalation
	open := detector.AlertFaceLandmarks()
	mockDetector.SetFace(&open)

	deadline = time.Now().Add(5 * time.Second)
	for application.LastDecision().EyesClosedFrames != 0 {
		if time.Now().After(deadline) {
			t.Fatal("counter never reset after recovery")
		}
		time.Sleep(50 * time.Millisecond)
	}

	d := application.LastDecision()
	if d.Stage == fatigue.StageCritical || d.Stage == fatigue.StageEmergency {
		t.Errorf("stage after recovery = %v", d.Stage)
	}
}
