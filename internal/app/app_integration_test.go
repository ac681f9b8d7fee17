package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/astromind/internal/alert"
	"github.com/ayusman/astromind/internal/biometric"
	"github.com/ayusman/astromind/internal/capture"
	"github.com/ayusman/astromind/internal/detector"
	"github.com/ayusman/astromind/internal/fatigue"
	"github.com/ayusman/astromind/internal/store"
)

// driveFrames pushes a face (or nil) through the classification path
// for n frames, advancing a synthetic clock, and returns the last
// decision. It exercises exactly what one pipeline tick does after the
// camera read.
func driveFrames(a *App, face *detector.FaceLandmarks, n int, clock *time.Time) fatigue.Decision {
	var last fatigue.Decision
	for i := 0; i < n; i++ {
		*clock = clock.Add(33 * time.Millisecond)
		last = a.classifyFrame(biometric.Extract(face, *clock))
	}
	return last
}

func TestApp_EscalationScenario(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	a := New(Config{Store: s, Fatigue: fatigue.DefaultConfig()})
	a.SetDetector(detector.NewMockDetector())

	recorder := &alert.RecorderSink{}
	a.SetAlertSink(recorder)

	// Begin a session without the camera loop; frames are driven directly
	a.mu.Lock()
	a.beginSession(time.Now())
	a.mu.Unlock()

	// Outside the praise flash window so recovery frames read as neutral
	clock := time.Unix(1700000007, 0)

	drowsy := detector.DrowsyFaceLandmarks()
	alertFace := detector.AlertFaceLandmarks()

	// 14 closed-eye frames: caution territory, no microsleep yet
	d := driveFrames(a, &drowsy, 14, &clock)
	if d.Stage != fatigue.StageCaution {
		t.Errorf("stage at frame 14 = %v, want caution", d.Stage)
	}
	if a.SessionSnapshot().TotalMicrosleeps != 0 {
		t.Error("microsleep counted before the limit")
	}

	// Frame 15: critical, exactly one microsleep, first alert pulse
	d = driveFrames(a, &drowsy, 1, &clock)
	if d.Stage != fatigue.StageCritical {
		t.Errorf("stage at frame 15 = %v, want critical", d.Stage)
	}
	if got := a.SessionSnapshot().TotalMicrosleeps; got != 1 {
		t.Errorf("microsleeps at frame 15 = %d, want 1", got)
	}
	if len(recorder.Pulses) != 1 {
		t.Errorf("alert pulses at frame 15 = %d, want 1", len(recorder.Pulses))
	}

	// Sustained closure: still one microsleep, cadenced pulses only
	d = driveFrames(a, &drowsy, 5, &clock)
	if got := a.SessionSnapshot().TotalMicrosleeps; got != 1 {
		t.Errorf("microsleeps while sustained = %d, want 1", got)
	}
	if len(recorder.Pulses) != 2 { // eyes=15 and eyes=20
		t.Errorf("alert pulses at frame 20 = %d, want 2", len(recorder.Pulses))
	}

	// One open-eyes frame: hard reset to neutral
	d = driveFrames(a, &alertFace, 1, &clock)
	if d.EyesClosedFrames != 0 {
		t.Errorf("eyes counter after recovery = %d, want 0", d.EyesClosedFrames)
	}
	if d.Stage != fatigue.StageNone {
		t.Errorf("stage after recovery = %v, want none", d.Stage)
	}
}

func TestApp_DeadMansSwitch(t *testing.T) {
	a := New(Config{Fatigue: fatigue.DefaultConfig()})
	a.SetDetector(detector.NewMockDetector())
	a.SetAlertSink(&alert.RecorderSink{})

	a.mu.Lock()
	a.beginSession(time.Now())
	a.mu.Unlock()

	clock := time.Unix(1700000007, 0)
	drowsy := detector.DrowsyFaceLandmarks()

	d := driveFrames(a, &drowsy, 100, &clock)
	if d.Stage != fatigue.StageEmergency {
		t.Errorf("stage at frame 100 = %v, want emergency", d.Stage)
	}
	if d.Label != "!!! AUTOPILOT ENGAGED !!!" {
		t.Errorf("label = %q", d.Label)
	}

	// Emergency holds until the normal eyes-open hysteresis reset
	d = driveFrames(a, &drowsy, 50, &clock)
	if d.Stage != fatigue.StageEmergency {
		t.Errorf("stage at frame 150 = %v, want emergency", d.Stage)
	}
}

func TestApp_LostTrackingNeverEscalates(t *testing.T) {
	a := New(Config{Fatigue: fatigue.DefaultConfig()})
	a.SetDetector(detector.NewMockDetector())

	a.mu.Lock()
	a.beginSession(time.Now())
	a.mu.Unlock()

	clock := time.Unix(1700000007, 0)
	drowsy := detector.DrowsyFaceLandmarks()

	// Close to the alarm threshold, then lose the face
	driveFrames(a, &drowsy, 14, &clock)
	d := driveFrames(a, nil, 200, &clock)

	if d.Stage != fatigue.StageNone {
		t.Errorf("stage with lost tracking = %v, want none", d.Stage)
	}
	if d.EyesClosedFrames != 0 {
		t.Errorf("eyes counter with lost tracking = %d, want 0", d.EyesClosedFrames)
	}
	if got := a.SessionSnapshot().TotalMicrosleeps; got != 0 {
		t.Errorf("microsleeps from lost tracking = %d, want 0", got)
	}
}

func TestApp_TelemetrySubsampling(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	a := New(Config{Store: s, Fatigue: fatigue.DefaultConfig()})
	a.SetDetector(detector.NewMockDetector())

	a.mu.Lock()
	a.beginSession(time.Now())
	a.mu.Unlock()
	sessionID := a.sessionID

	clock := time.Unix(1700000007, 0)
	alertFace := detector.AlertFaceLandmarks()

	// 30 frames at ~33ms spacing cover roughly one second
	driveFrames(a, &alertFace, 30, &clock)

	records, err := s.Telemetry().ListBySession(sessionID)
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}

	// One record per 100ms bucket: far fewer than one per frame
	if len(records) >= 30 {
		t.Errorf("got %d records for 30 frames, want sub-sampled", len(records))
	}
	if len(records) < 8 {
		t.Errorf("got %d records over ~1s, want ~10", len(records))
	}
}

func TestApp_FullSessionLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	a := New(Config{Store: s, DataDir: tmpDir, Fatigue: fatigue.DefaultConfig()})
	a.SetCamera(capture.NewBlankMockCamera())

	mock := detector.NewMockDetector()
	drowsy := detector.DrowsyFaceLandmarks()
	mock.SetFace(&drowsy)
	a.SetDetector(mock)
	a.SetAlertSink(&alert.RecorderSink{})

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	sessionID := a.SessionID()
	if sessionID == "" {
		t.Fatal("no session ID after Start")
	}

	// Let the pipeline run long enough for a microsleep (15 frames at ~30 FPS)
	time.Sleep(1200 * time.Millisecond)

	report, err := a.EndSession()
	if err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}

	if report.TotalMicrosleeps != 1 {
		t.Errorf("TotalMicrosleeps = %d, want 1", report.TotalMicrosleeps)
	}
	if report.Grade != "A" {
		t.Errorf("Grade = %v, want A", report.Grade)
	}
	if report.AvgEAR <= 0.0 || report.AvgEAR >= 0.20 {
		t.Errorf("AvgEAR = %f, want the drowsy fixture ratio", report.AvgEAR)
	}

	// Session row persisted with the final grade
	persisted, err := s.Sessions().Get(sessionID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if persisted.Grade != "A" || persisted.EndedAt == nil {
		t.Errorf("persisted session = %+v", persisted)
	}

	// Black-box telemetry was appended
	records, err := s.Telemetry().ListBySession(sessionID)
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	if len(records) == 0 {
		t.Error("no telemetry records persisted")
	}
}
