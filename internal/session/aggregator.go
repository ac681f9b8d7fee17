// Package session accumulates per-frame decisions into mission
// statistics and grades the session when it ends.
package session

import (
	"time"

	"github.com/ayusman/astromind/internal/fatigue"
)

// Aggregator accumulates statistics over one monitoring session. It is
// owned by the pipeline goroutine and, like the fatigue counters, needs
// no locking of its own; Snapshot exists for read access from other
// goroutines via the app's lock.
type Aggregator struct {
	start            time.Time
	totalMicrosleeps int
	totalYawns       int
	earHistory       []float64
	marHistory       []float64
}

// Snapshot is a read-only copy of the running totals.
type Snapshot struct {
	Start            time.Time
	TotalMicrosleeps int
	TotalYawns       int
	Frames           int
}

// NewAggregator creates an Aggregator for a session starting now.
func NewAggregator(start time.Time) *Aggregator {
	return &Aggregator{start: start}
}

// Observe folds one frame's decision into the running stats. Ratio
// history only grows on detected frames; the event flags are already
// edge-triggered by the classifier, so each one adds exactly one to
// its total.
func (a *Aggregator) Observe(d fatigue.Decision) {
	if d.Sample.Detected {
		a.earHistory = append(a.earHistory, d.Sample.EAR)
		a.marHistory = append(a.marHistory, d.Sample.MAR)
	}

	if d.MicrosleepEvent {
		a.totalMicrosleeps++
	}
	if d.YawnEvent {
		a.totalYawns++
	}
}

// Snapshot returns the current totals.
func (a *Aggregator) Snapshot() Snapshot {
	return Snapshot{
		Start:            a.start,
		TotalMicrosleeps: a.totalMicrosleeps,
		TotalYawns:       a.totalYawns,
		Frames:           len(a.earHistory),
	}
}

// Finalize closes the session at the given instant and produces its
// report. An empty history averages to 0.0 rather than faulting.
func (a *Aggregator) Finalize(end time.Time) Report {
	return Report{
		Start:            a.start,
		End:              end,
		Duration:         end.Sub(a.start),
		Grade:            ComputeGrade(a.totalMicrosleeps, a.totalYawns),
		TotalMicrosleeps: a.totalMicrosleeps,
		TotalYawns:       a.totalYawns,
		AvgEAR:           mean(a.earHistory),
		AvgMAR:           mean(a.marHistory),
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0.0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
