// Package app provides the main application logic for the Astromind
// fatigue monitoring system.
package app

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ayusman/astromind/internal/alert"
	"github.com/ayusman/astromind/internal/biometric"
	"github.com/ayusman/astromind/internal/capture"
	"github.com/ayusman/astromind/internal/detector"
	"github.com/ayusman/astromind/internal/fatigue"
	"github.com/ayusman/astromind/internal/hud"
	"github.com/ayusman/astromind/internal/session"
	"github.com/ayusman/astromind/internal/store"
	"github.com/ayusman/astromind/internal/telemetry"
	"github.com/google/uuid"
)

// DefaultTelemetryInterval is the black-box log cadence.
const DefaultTelemetryInterval = 100 * time.Millisecond

// Config holds configuration options for the application.
type Config struct {
	Store             *store.Store
	DataDir           string
	CameraID          int
	Fatigue           fatigue.Config
	TelemetryInterval time.Duration
}

// App is the main application that orchestrates the monitoring
// pipeline: capture, landmark detection, classification, telemetry and
// session accounting.
type App struct {
	config     Config
	camera     capture.Camera
	detector   detector.Detector
	classifier *fatigue.Classifier
	alertSink  alert.Sink

	mu            sync.RWMutex
	enabled       bool
	stopCh        chan struct{}
	doneCh        chan struct{}
	sessionID     string
	state         *fatigue.State
	aggregator    *session.Aggregator
	telemetrySink telemetry.Sink
	throttle      *telemetry.Throttle
	lastDecision  fatigue.Decision
	onDecision    func(fatigue.Decision, session.Snapshot)
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.TelemetryInterval <= 0 {
		config.TelemetryInterval = DefaultTelemetryInterval
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		classifier: fatigue.NewClassifier(config.Fatigue),
		alertSink:  alert.NewConsoleSink(),
		enabled:    true,
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe face detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables monitoring. While disabled the
// pipeline idles without touching the counters.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether monitoring is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the face detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the camera implementation to use.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// SetAlertSink sets the audible alert sink.
func (a *App) SetAlertSink(s alert.Sink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alertSink = s
}

// OnDecision registers a callback invoked after every classified frame
// with the decision and the running session totals. Called from the
// pipeline goroutine; keep it fast.
func (a *App) OnDecision(fn func(fatigue.Decision, session.Snapshot)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onDecision = fn
}

// Start opens the camera and begins a new monitoring session.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}

	a.beginSession(time.Now())

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	log.Printf("Monitoring session %s started", a.sessionID)
	return nil
}

// beginSession initializes the per-session state. Caller holds a.mu.
func (a *App) beginSession(start time.Time) {
	a.sessionID = uuid.New().String()
	a.state = fatigue.NewState()
	a.aggregator = session.NewAggregator(start)
	a.throttle = telemetry.NewThrottle(a.config.TelemetryInterval)
	a.telemetrySink = a.buildTelemetrySink(start)

	if a.config.Store != nil {
		if err := a.config.Store.Sessions().Create(a.sessionID, start); err != nil {
			log.Printf("Warning: failed to record session start: %v", err)
		}
	}
}

// buildTelemetrySink assembles the black-box fanout: a CSV mission log
// plus the store when available. Sink failures here degrade to a
// warning; monitoring runs without a black box rather than not at all.
func (a *App) buildTelemetrySink(start time.Time) telemetry.Sink {
	var sinks []telemetry.Sink

	if a.config.DataDir != "" {
		csvSink, err := telemetry.NewCSVSink(a.config.DataDir, start)
		if err != nil {
			log.Printf("Warning: mission log unavailable: %v", err)
		} else {
			log.Printf("Mission log: %s", csvSink.Path())
			sinks = append(sinks, csvSink)
		}
	}

	if a.config.Store != nil {
		sinks = append(sinks, a.config.Store.NewTelemetrySink(a.sessionID))
	}

	return telemetry.NewMultiSink(sinks...)
}

// EndSession stops the pipeline, finalizes the session statistics and
// persists the report. The returned report is valid even when
// persistence fails.
func (a *App) EndSession() (session.Report, error) {
	a.mu.Lock()

	if a.stopCh == nil {
		a.mu.Unlock()
		return session.Report{}, fmt.Errorf("no session running")
	}

	stopCh := a.stopCh
	doneCh := a.doneCh
	a.stopCh = nil
	a.doneCh = nil
	a.mu.Unlock()

	// Stop the pipeline and wait for the in-flight frame to finish.
	close(stopCh)
	<-doneCh

	a.mu.Lock()
	defer a.mu.Unlock()

	report := a.aggregator.Finalize(time.Now())

	if a.telemetrySink != nil {
		if err := a.telemetrySink.Close(); err != nil {
			log.Printf("Warning: closing telemetry sink: %v", err)
		}
		a.telemetrySink = nil
	}

	var persistErr error
	if a.config.Store != nil {
		if err := a.config.Store.Sessions().Finish(a.sessionID, report); err != nil {
			persistErr = fmt.Errorf("persist session: %w", err)
		}
	}

	if a.config.DataDir != "" {
		if err := session.NewFileSink(a.config.DataDir).Write(report); err != nil {
			log.Printf("Warning: writing mission report: %v", err)
		}
	}

	log.Printf("Session %s complete: grade %s, %d microsleeps, %d yawns",
		a.sessionID, report.Grade, report.TotalMicrosleeps, report.TotalYawns)

	return report, persistErr
}

// Stop ends any running session and releases the camera and detector.
func (a *App) Stop() {
	if _, err := a.EndSession(); err != nil {
		log.Printf("Ending session: %v", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Monitoring stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Detector returns the face detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Classifier returns the escalation classifier.
func (a *App) Classifier() *fatigue.Classifier {
	return a.classifier
}

// SessionID returns the current session's ID, or "" when idle.
func (a *App) SessionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.stopCh == nil {
		return ""
	}
	return a.sessionID
}

// LastDecision returns the most recent frame decision.
func (a *App) LastDecision() fatigue.Decision {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastDecision
}

// SessionSnapshot returns the running session totals.
func (a *App) SessionSnapshot() session.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.aggregator == nil {
		return session.Snapshot{}
	}
	return a.aggregator.Snapshot()
}

// HUDFrame assembles the overlay data for the current state.
func (a *App) HUDFrame() hud.Frame {
	a.mu.RLock()
	defer a.mu.RUnlock()

	d := a.lastDecision
	cfg := a.classifier.Config()

	f := hud.Frame{
		Label:     d.Label,
		Severity:  d.Severity,
		Stage:     d.Stage,
		EAR:       d.Sample.EAR,
		MAR:       d.Sample.MAR,
		BPM:       d.BPM,
		EyesOpen:  d.Sample.EAR > cfg.EARThreshold,
		MouthCalm: d.Sample.MAR < cfg.MARThreshold,
	}
	if d.Label == "" {
		f.Label = fatigue.StageNone.Label()
	}
	if a.aggregator != nil {
		snap := a.aggregator.Snapshot()
		f.TotalMicrosleeps = snap.TotalMicrosleeps
		f.TotalYawns = snap.TotalYawns
		f.Elapsed = time.Since(snap.Start)
	}
	return f
}

// classifyFrame runs one frame's sample through the counters and
// classifier and folds the result into the session. It is the only
// writer of the core state and runs exclusively on the pipeline
// goroutine.
func (a *App) classifyFrame(sample biometric.Sample) fatigue.Decision {
	a.mu.Lock()

	eyes, yawn := a.state.Update(sample, a.classifier.Config())
	d := a.classifier.Classify(sample, eyes, yawn)
	a.aggregator.Observe(d)
	a.lastDecision = d
	snap := a.aggregator.Snapshot()

	alertSink := a.alertSink
	telemetrySink := a.telemetrySink
	logDue := a.throttle.Allow(sample.Timestamp)
	notify := a.onDecision

	a.mu.Unlock()

	if d.Alert != nil && alertSink != nil {
		if err := alertSink.Pulse(*d.Alert); err != nil {
			log.Printf("Warning: alert sink: %v", err)
		}
	}

	if logDue && telemetrySink != nil {
		rec := telemetry.Record{
			Timestamp: sample.Timestamp,
			EAR:       sample.EAR,
			MAR:       sample.MAR,
			Status:    d.Label,
			BPM:       d.BPM,
		}
		if err := telemetrySink.Append(rec); err != nil {
			log.Printf("Warning: telemetry sink: %v", err)
		}
	}

	if notify != nil {
		notify(d, snap)
	}

	return d
}
