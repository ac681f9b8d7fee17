// Package hud draws the mission heads-up display onto video frames:
// status banner, event totals, biometric readouts and the mission clock.
package hud

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/ayusman/astromind/internal/fatigue"
	"gocv.io/x/gocv"
)

// HUD palette.
var (
	cyan      = color.RGBA{0, 255, 255, 0}
	neonGreen = color.RGBA{50, 255, 50, 0}
	red       = color.RGBA{255, 0, 0, 0}
	orange    = color.RGBA{255, 165, 0, 0}
	darkGrey  = color.RGBA{50, 50, 50, 0}
	black     = color.RGBA{0, 0, 0, 0}
	lightGrey = color.RGBA{200, 200, 200, 0}
)

// Frame carries everything one HUD render needs.
type Frame struct {
	Label            string
	Severity         fatigue.Severity
	Stage            fatigue.Stage
	EAR              float64
	MAR              float64
	BPM              int
	TotalMicrosleeps int
	TotalYawns       int
	Elapsed          time.Duration
	EyesOpen         bool
	MouthCalm        bool
}

// severityColor maps a severity tier to its banner color.
func severityColor(s fatigue.Severity) color.RGBA {
	switch s {
	case fatigue.SeverityGood:
		return neonGreen
	case fatigue.SeverityWarn:
		return orange
	case fatigue.SeverityDanger:
		return red
	default:
		return cyan
	}
}

// Draw renders the HUD onto img in place.
func Draw(img *gocv.Mat, f Frame) {
	w := img.Cols()
	h := img.Rows()
	if w == 0 || h == 0 {
		return
	}

	// Semi-transparent panels: draw solid onto an overlay, then blend.
	overlay := img.Clone()
	defer overlay.Close()

	gocv.Rectangle(&overlay, image.Rect(10, 10, 320, 160), darkGrey, -1)
	gocv.Rectangle(&overlay, image.Rect(w-280, 10, w-10, 200), darkGrey, -1)
	gocv.Rectangle(&overlay, image.Rect(0, h-40, w, h), black, -1)
	gocv.AddWeighted(overlay, 0.6, *img, 0.4, 0, img)

	// Left panel: system status and event totals
	gocv.PutText(img, f.Label, image.Pt(20, 50),
		gocv.FontHersheySimplex, 0.7, severityColor(f.Severity), 2)
	gocv.PutText(img, fmt.Sprintf("FATIGUE EVENTS: %d", f.TotalMicrosleeps),
		image.Pt(20, 90), gocv.FontHersheyPlain, 1.2, lightGrey, 1)
	gocv.PutText(img, fmt.Sprintf("YAWN COUNT:     %d", f.TotalYawns),
		image.Pt(20, 120), gocv.FontHersheyPlain, 1.2, lightGrey, 1)

	// Right panel: biometrics
	earColor := red
	if f.EyesOpen {
		earColor = neonGreen
	}
	marColor := orange
	if f.MouthCalm {
		marColor = neonGreen
	}
	gocv.PutText(img, "BIO-TELEMETRY", image.Pt(w-260, 40),
		gocv.FontHersheySimplex, 0.5, cyan, 1)
	gocv.PutText(img, fmt.Sprintf("EYE OPEN: %.2f", f.EAR),
		image.Pt(w-260, 80), gocv.FontHersheyPlain, 1.5, earColor, 1)
	gocv.PutText(img, fmt.Sprintf("MOUTH:    %.2f", f.MAR),
		image.Pt(w-260, 110), gocv.FontHersheyPlain, 1.5, marColor, 1)
	gocv.PutText(img, fmt.Sprintf("HR:       %d BPM", f.BPM),
		image.Pt(w-260, 150), gocv.FontHersheyPlain, 1.5, red, 1)

	// Center banner on autopilot takeover
	if f.Stage == fatigue.StageEmergency {
		gocv.PutText(img, "PILOT UNRESPONSIVE", image.Pt(w/2-250, h/2),
			gocv.FontHersheySimplex, 1.5, red, 3)
	}

	// Footer: mission clock
	footer := fmt.Sprintf("MISSION TIME: %s | ASTROMIND SENSOR V2.0", formatClock(f.Elapsed))
	gocv.PutText(img, footer, image.Pt(20, h-12),
		gocv.FontHersheyPlain, 1, cyan, 1)
}

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
