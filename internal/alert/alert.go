// Package alert carries requested audible pulses to whatever can make
// noise. The classifier decides when a pulse is due; sinks here only
// issue it, so tests can assert on requests without hardware.
package alert

import (
	"log"

	"github.com/ayusman/astromind/internal/fatigue"
)

// Sink issues audible alert pulses.
type Sink interface {
	Pulse(p fatigue.Pulse) error
}

// ConsoleSink logs pulses instead of sounding them, for hosts without
// an audio device.
type ConsoleSink struct{}

// NewConsoleSink creates a ConsoleSink.
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{}
}

// Pulse logs the requested pulse.
func (s *ConsoleSink) Pulse(p fatigue.Pulse) error {
	log.Printf("ALERT: %d Hz pulse for %s", p.FreqHz, p.Duration)
	return nil
}

// RecorderSink captures pulses for tests.
type RecorderSink struct {
	Pulses []fatigue.Pulse
}

// Pulse records the request.
func (s *RecorderSink) Pulse(p fatigue.Pulse) error {
	s.Pulses = append(s.Pulses, p)
	return nil
}
