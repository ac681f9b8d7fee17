// Package biometric derives eye and mouth aspect ratios from face landmarks.
package biometric

import "time"

// Sample is one frame's worth of biometric measurements. Detected is
// false when no face was tracked this frame; such a sample carries
// zero ratios and must never be read as "eyes measured closed".
type Sample struct {
	EAR       float64
	MAR       float64
	Timestamp time.Time
	Detected  bool
}

// NoSignal returns the defined no-detection sample for the given instant.
func NoSignal(ts time.Time) Sample {
	return Sample{Timestamp: ts}
}
