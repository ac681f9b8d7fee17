package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileSink_WritesReport(t *testing.T) {
	tmpDir := t.TempDir()
	sink := NewFileSink(tmpDir)

	end := time.Date(2026, 8, 29, 9, 15, 30, 0, time.UTC)
	report := Report{
		Start:            end.Add(-time.Hour),
		End:              end,
		Duration:         time.Hour,
		Grade:            GradeS,
		TotalMicrosleeps: 0,
		TotalYawns:       1,
		AvgEAR:           0.31,
	}

	if err := sink.Write(report); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	path := filepath.Join(tmpDir, "Mission_Report_20260829_091530.txt")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}

	if !strings.Contains(string(data), "FINAL GRADE:  S (PERFECT)") {
		t.Errorf("report content missing grade line:\n%s", data)
	}
}

func TestGrade_Caption(t *testing.T) {
	cases := map[Grade]string{
		GradeS: "S (PERFECT)",
		GradeA: "A (SAFE)",
		GradeC: "C (CAUTION)",
		GradeF: "F (DANGEROUS)",
	}

	for grade, want := range cases {
		if got := grade.Caption(); got != want {
			t.Errorf("%v.Caption() = %q, want %q", grade, got, want)
		}
	}
}
