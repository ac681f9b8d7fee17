// Package telemetry defines the black-box logging boundary: per-decision
// records, the sinks that consume them, and the wall-clock throttle that
// keeps the log cadence independent of frame rate.
package telemetry

import (
	"log"
	"time"
)

// Record is one appended black-box entry.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	EAR       float64   `json:"ear"`
	MAR       float64   `json:"mar"`
	Status    string    `json:"status"`
	BPM       int       `json:"bpm"`
}

// Sink consumes telemetry records. Implementations must tolerate being
// called from the pipeline goroutine only.
type Sink interface {
	Append(rec Record) error
	Close() error
}

// MultiSink fans records out to several sinks. A failing sink logs a
// warning and the rest still receive the record; losing a log line
// must never halt monitoring.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a MultiSink over the given sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Append writes the record to every sink.
func (m *MultiSink) Append(rec Record) error {
	for _, s := range m.sinks {
		if err := s.Append(rec); err != nil {
			log.Printf("telemetry sink error: %v", err)
		}
	}
	return nil
}

// Close closes every sink, returning the first error encountered.
func (m *MultiSink) Close() error {
	var first error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Throttle subsamples the telemetry stream to one record per interval,
// keyed off the record timestamp rather than a frame counter so the
// cadence stays correct under a variable frame rate.
type Throttle struct {
	interval   time.Duration
	lastBucket int64
}

// NewThrottle creates a Throttle with the given interval.
// A non-positive interval lets every record through.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval, lastBucket: -1}
}

// Allow reports whether a record stamped ts should be written.
func (t *Throttle) Allow(ts time.Time) bool {
	if t.interval <= 0 {
		return true
	}
	bucket := ts.UnixMilli() / t.interval.Milliseconds()
	if bucket == t.lastBucket {
		return false
	}
	t.lastBucket = bucket
	return true
}
