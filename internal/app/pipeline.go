package app

import (
	"log"
	"time"

	"github.com/ayusman/astromind/internal/biometric"
)

// runPipeline is the monitoring loop: one tick is one frame, one frame
// is one full pass through extraction, counter update, classification
// and the sinks. All core state is owned by this goroutine; the end
// session signal is checked only at iteration boundaries because each
// frame's work is atomic and fast.
//
// Per tick:
//  1. Read a frame from the camera
//  2. Detect the tracked face's landmarks
//  3. Extract the (EAR, MAR) biometric sample; lost tracking yields
//     the explicit no-signal sample, never fake zero ratios
//  4. Update hysteresis counters and classify the escalation stage
//  5. Fold into session stats, request alerts, append telemetry
func (a *App) runPipeline(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	frameInterval := time.Second / time.Duration(a.camera.FPS())
	if frameInterval <= 0 {
		frameInterval = time.Second / 30
	}

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip processing while monitoring is paused
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			face, err := a.Detector().Detect(frame)
			frame.Close() // Done with the frame

			now := time.Now()
			if err != nil {
				// A failing detector is indistinguishable from lost
				// tracking for safety purposes: no-signal, counters
				// reset, stage NONE. The loop itself never dies.
				log.Printf("Error detecting face: %v", err)
				face = nil
			}

			sample := biometric.Extract(face, now)
			a.classifyFrame(sample)
		}
	}
}
