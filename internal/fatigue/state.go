package fatigue

import "github.com/ayusman/astromind/internal/biometric"

// State holds the hysteresis counters that make escalation depend on a
// sustained signal rather than a single noisy frame. Each counter
// increments while its condition holds and resets to exactly zero the
// first frame it does not; counters are never decayed gradually.
type State struct {
	eyesClosedFrames int
	yawnFrames       int
}

// NewState returns a State with both counters at zero.
func NewState() *State {
	return &State{}
}

// Update advances both counters for one frame and returns the new
// counts. A no-signal sample resets both counters: lost tracking must
// never accumulate toward an alarm.
func (s *State) Update(sample biometric.Sample, cfg Config) (eyesClosed, yawn int) {
	if !sample.Detected {
		s.eyesClosedFrames = 0
		s.yawnFrames = 0
		return 0, 0
	}

	if sample.EAR < cfg.EARThreshold {
		s.eyesClosedFrames++
	} else {
		s.eyesClosedFrames = 0
	}

	if sample.MAR > cfg.MARThreshold {
		s.yawnFrames++
	} else {
		s.yawnFrames = 0
	}

	return s.eyesClosedFrames, s.yawnFrames
}

// EyesClosedFrames returns the current consecutive closed-eye frame count.
func (s *State) EyesClosedFrames() int {
	return s.eyesClosedFrames
}

// YawnFrames returns the current consecutive yawning frame count.
func (s *State) YawnFrames() int {
	return s.yawnFrames
}

// Reset returns both counters to zero.
func (s *State) Reset() {
	s.eyesClosedFrames = 0
	s.yawnFrames = 0
}
