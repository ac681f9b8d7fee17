package fatigue

import "time"

// SimulatedBPM generates the synthetic heart-rate readout shown on the
// HUD and logged with each telemetry record. It is a deterministic
// function of wall-clock time with no input from, or bearing on, the
// alarm logic: a sawtooth between 70 and 84 BPM stepping twice a second.
func SimulatedBPM(now time.Time) int {
	halfSeconds := now.UnixMilli() / 500
	return 70 + int(halfSeconds%15)
}
