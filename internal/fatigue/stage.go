package fatigue

// Stage is the ranked alarm level for one frame. Exactly one stage is
// active per frame; it is a pure function of the current sample and
// counters, not of the previous stage.
type Stage int

const (
	// StageNone is the neutral monitoring state, including frames
	// where no face is tracked.
	StageNone Stage = iota
	// StagePraise flashes when focus is clearly good.
	StagePraise
	// StageCaution means the eyes have been closing for a noticeable
	// run of frames.
	StageCaution
	// StageYawnWarning means a sustained yawn without closed eyes.
	StageYawnWarning
	// StageCritical means a microsleep is in progress.
	StageCritical
	// StageEmergency is the dead-man's-switch: the pilot is presumed
	// unresponsive and autopilot is presumed engaged.
	StageEmergency
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageNone:
		return "none"
	case StagePraise:
		return "praise"
	case StageCaution:
		return "caution"
	case StageYawnWarning:
		return "yawn_warning"
	case StageCritical:
		return "critical"
	case StageEmergency:
		return "emergency"
	default:
		return "unknown"
	}
}

// Label returns the HUD status line for the stage.
func (s Stage) Label() string {
	switch s {
	case StagePraise:
		return "PILOT FOCUS: EXCELLENT"
	case StageCaution:
		return "CAUTION: EYES CLOSING"
	case StageYawnWarning:
		return "FATIGUE DETECTED (YAWN)"
	case StageCritical:
		return "CRITICAL: WAKE UP!"
	case StageEmergency:
		return "!!! AUTOPILOT ENGAGED !!!"
	default:
		return "SYSTEM: ONLINE"
	}
}

// Severity is the HUD color tier for a stage.
type Severity int

const (
	SeverityNeutral Severity = iota
	SeverityGood
	SeverityWarn
	SeverityDanger
)

// String returns the severity name.
func (c Severity) String() string {
	switch c {
	case SeverityGood:
		return "good"
	case SeverityWarn:
		return "warn"
	case SeverityDanger:
		return "danger"
	default:
		return "neutral"
	}
}

// Severity returns the color tier for the stage. Emergency renders as
// good: once autopilot has control the banner reassures rather than
// alarms, with the audible pulses carrying the urgency.
func (s Stage) Severity() Severity {
	switch s {
	case StagePraise, StageEmergency:
		return SeverityGood
	case StageCaution, StageYawnWarning:
		return SeverityWarn
	case StageCritical:
		return SeverityDanger
	default:
		return SeverityNeutral
	}
}
