package fatigue

import (
	"time"

	"github.com/ayusman/astromind/internal/biometric"
)

// Pulse is a requested audible alert. The classifier only decides that
// a pulse is due; issuing it is the alert sink's job, which keeps the
// safety decision separate from the hardware side effect.
type Pulse struct {
	FreqHz   int
	Duration time.Duration
}

// Decision is the classifier's output for one frame.
type Decision struct {
	Stage    Stage
	Label    string
	Severity Severity
	Sample   biometric.Sample

	EyesClosedFrames int
	YawnFrames       int

	// MicrosleepEvent and YawnEvent fire on the exact frame a counter
	// first reaches its event threshold, never again while it stays
	// there.
	MicrosleepEvent bool
	YawnEvent       bool

	// Alert is non-nil when an audible pulse is due this frame.
	Alert *Pulse

	// BPM is the simulated heart rate, cosmetic telemetry only.
	BPM int
}

// Classifier maps one frame's sample and counters to a Decision.
type Classifier struct {
	cfg   Config
	rules []rule
}

// rule pairs a stage with its predicate. Rules are evaluated in order
// and the last matching rule wins, which is what resolves the
// overlapping stage conditions deterministically.
type rule struct {
	stage Stage
	match func(in input) bool
}

type input struct {
	ear, mar   float64
	eyesFrames int
	yawnFrames int
	now        time.Time
}

// NewClassifier creates a Classifier with the given thresholds.
func NewClassifier(cfg Config) *Classifier {
	c := &Classifier{cfg: cfg}

	// Ordering is load-bearing. The yawn rule sits last so it
	// overrides praise and caution, but its eyesFrames guard keeps it
	// from ever masking a critical or emergency alarm.
	c.rules = []rule{
		{StagePraise, func(in input) bool {
			return in.ear > cfg.PraiseEARFloor &&
				in.mar < cfg.PraiseMARCeil &&
				in.eyesFrames == 0 &&
				c.flashWindow(in.now)
		}},
		{StageCaution, func(in input) bool {
			return in.eyesFrames > cfg.CautionFloor && in.eyesFrames < cfg.MicrosleepLimit
		}},
		{StageCritical, func(in input) bool {
			return in.eyesFrames >= cfg.MicrosleepLimit && in.eyesFrames < cfg.EmergencyLimit
		}},
		{StageEmergency, func(in input) bool {
			return in.eyesFrames >= cfg.EmergencyLimit
		}},
		{StageYawnWarning, func(in input) bool {
			return in.yawnFrames > cfg.YawnWarnFloor && in.eyesFrames < cfg.MicrosleepLimit
		}},
	}

	return c
}

// Config returns the classifier's thresholds.
func (c *Classifier) Config() Config {
	return c.cfg
}

// Classify produces the Decision for one frame, given the sample and
// the counters as updated by State.Update for the same frame. It never
// fails; a no-signal sample degrades to StageNone with zero counters.
func (c *Classifier) Classify(sample biometric.Sample, eyesFrames, yawnFrames int) Decision {
	d := Decision{
		Stage:            StageNone,
		Sample:           sample,
		EyesClosedFrames: eyesFrames,
		YawnFrames:       yawnFrames,
		BPM:              SimulatedBPM(sample.Timestamp),
	}

	if sample.Detected {
		in := input{
			ear:        sample.EAR,
			mar:        sample.MAR,
			eyesFrames: eyesFrames,
			yawnFrames: yawnFrames,
			now:        sample.Timestamp,
		}

		for _, r := range c.rules {
			if r.match(in) {
				d.Stage = r.stage
			}
		}

		// Rising-edge event detection by equality: the counters only
		// ever step by one, so equality fires exactly once per climb.
		d.MicrosleepEvent = eyesFrames == c.cfg.MicrosleepLimit
		d.YawnEvent = yawnFrames == c.cfg.YawnEventLimit

		d.Alert = c.alertFor(d.Stage, eyesFrames)
	}

	d.Label = d.Stage.Label()
	d.Severity = d.Stage.Severity()

	return d
}

// alertFor returns the audible pulse due this frame, if any. Only the
// critical and emergency stages beep, each at its own cadence.
func (c *Classifier) alertFor(stage Stage, eyesFrames int) *Pulse {
	switch stage {
	case StageCritical:
		if c.cfg.CriticalPulseEvery > 0 && eyesFrames%c.cfg.CriticalPulseEvery == 0 {
			return &Pulse{FreqHz: 1000, Duration: 100 * time.Millisecond}
		}
	case StageEmergency:
		if c.cfg.EmergencyPulseEvery > 0 && eyesFrames%c.cfg.EmergencyPulseEvery == 0 {
			return &Pulse{FreqHz: 2000, Duration: 500 * time.Millisecond}
		}
	}
	return nil
}

// flashWindow reports whether the praise banner is visible at the
// given instant. The banner is a duty cycle, not a safety signal: it
// shows for the one second of every period where the wall clock lands
// on the period boundary, and is silent otherwise.
func (c *Classifier) flashWindow(now time.Time) bool {
	period := c.cfg.FlashPeriodSec
	if period <= 0 {
		return true
	}
	return now.Unix()%int64(period) == 0
}
