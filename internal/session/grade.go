package session

// Grade is the end-of-session mission grade.
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeC Grade = "C"
	GradeF Grade = "F"
)

// Caption returns the grade with its report caption.
func (g Grade) Caption() string {
	switch g {
	case GradeS:
		return "S (PERFECT)"
	case GradeA:
		return "A (SAFE)"
	case GradeC:
		return "C (CAUTION)"
	default:
		return "F (DANGEROUS)"
	}
}

// ComputeGrade grades a session from its event totals. Tiers are
// checked top down and the first match wins; yawns only gate the S
// tier, every lower tier looks at microsleeps alone.
func ComputeGrade(microsleeps, yawns int) Grade {
	switch {
	case microsleeps == 0 && yawns < 2:
		return GradeS
	case microsleeps < 3:
		return GradeA
	case microsleeps < 6:
		return GradeC
	default:
		return GradeF
	}
}
