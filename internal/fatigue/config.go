// Package fatigue implements the drowsiness classifier: hysteresis frame
// counters, the escalation stage rules and the edge-triggered event counts
// that feed the mission statistics.
package fatigue

// Config holds the thresholds for fatigue classification.
type Config struct {
	// EARThreshold is the eye aspect ratio below which the eyes count
	// as closed for that frame.
	EARThreshold float64

	// MARThreshold is the mouth aspect ratio above which the mouth
	// counts as yawning for that frame.
	MARThreshold float64

	// MicrosleepLimit is the number of consecutive closed-eye frames
	// before the critical alarm triggers (~0.5s at 30 FPS).
	MicrosleepLimit int

	// EmergencyLimit is the number of consecutive closed-eye frames
	// before the autopilot takeover triggers (~3.5s at 30 FPS).
	EmergencyLimit int

	// YawnEventLimit is the number of consecutive yawning frames that
	// counts as one completed yawn.
	YawnEventLimit int

	// CautionFloor is the closed-eye frame count above which the
	// caution stage begins.
	CautionFloor int

	// YawnWarnFloor is the yawning frame count above which the yawn
	// warning stage begins.
	YawnWarnFloor int

	// PraiseEARFloor and PraiseMARCeil bound the "good focus" praise
	// condition: eyes clearly open, mouth clearly closed.
	PraiseEARFloor float64
	PraiseMARCeil  float64

	// FlashPeriodSec is the praise duty cycle: the praise banner is
	// only shown during the one second of every period where it lands.
	FlashPeriodSec int

	// CriticalPulseEvery and EmergencyPulseEvery set the audible alert
	// cadence in closed-eye frames for the respective stages.
	CriticalPulseEvery  int
	EmergencyPulseEvery int
}

// DefaultConfig returns the reference thresholds.
func DefaultConfig() Config {
	return Config{
		EARThreshold:        0.20,
		MARThreshold:        0.40,
		MicrosleepLimit:     15,
		EmergencyLimit:      100,
		YawnEventLimit:      15,
		CautionFloor:        5,
		YawnWarnFloor:       10,
		PraiseEARFloor:      0.25,
		PraiseMARCeil:       0.20,
		FlashPeriodSec:      20,
		CriticalPulseEvery:  5,
		EmergencyPulseEvery: 30,
	}
}
