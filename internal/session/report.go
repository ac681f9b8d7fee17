package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Report is the fixed field set produced when a session ends.
type Report struct {
	Start            time.Time
	End              time.Time
	Duration         time.Duration
	Grade            Grade
	TotalMicrosleeps int
	TotalYawns       int
	AvgEAR           float64
	AvgMAR           float64
}

// Render formats the report as the flight-recorder text block.
func (r Report) Render() string {
	rule := strings.Repeat("=", 50)
	sep := strings.Repeat("-", 50)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "      ASTROMIND: FLIGHT RECORDER LOG (SECURE)     \n")
	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "DATE:         %s\n", r.End.Format("2006-01-02"))
	fmt.Fprintf(&b, "DURATION:     %s\n", formatDuration(r.Duration))
	fmt.Fprintf(&b, "FINAL GRADE:  %s\n", r.Grade.Caption())
	fmt.Fprintf(&b, "%s\n", sep)
	fmt.Fprintf(&b, "TOTAL MICROSLEEPS: %d\n", r.TotalMicrosleeps)
	fmt.Fprintf(&b, "TOTAL YAWNS:       %d\n", r.TotalYawns)
	fmt.Fprintf(&b, "AVG EYE OPENNESS:  %.3f\n", r.AvgEAR)
	fmt.Fprintf(&b, "%s\n", rule)
	return b.String()
}

// formatDuration renders a duration as H:MM:SS.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

// ReportSink consumes a finished session report.
type ReportSink interface {
	Write(r Report) error
}

// FileSink writes reports as text files into a directory.
type FileSink struct {
	dir string
}

// NewFileSink creates a FileSink writing into dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// Write renders the report to Mission_Report_<timestamp>.txt.
func (s *FileSink) Write(r Report) error {
	name := fmt.Sprintf("Mission_Report_%s.txt", r.End.Format("20060102_150405"))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(r.Render()), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
