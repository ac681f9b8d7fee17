package biometric

import (
	"math"
	"time"

	"github.com/ayusman/astromind/internal/detector"
)

// Extract computes a Sample from the landmarks of the tracked face.
// A nil face yields the no-signal sample.
//
// EAR is the vertical over horizontal span of the left eye, MAR the
// same for the lips, both as Euclidean distances in normalized image
// space. Low EAR means closing eyes; high MAR means an open mouth.
func Extract(face *detector.FaceLandmarks, ts time.Time) Sample {
	if face == nil {
		return NoSignal(ts)
	}

	eyeV := distance(face.Points[detector.EyeTop], face.Points[detector.EyeBottom])
	eyeH := distance(face.Points[detector.EyeOuter], face.Points[detector.EyeInner])

	mouthV := distance(face.Points[detector.MouthTop], face.Points[detector.MouthBottom])
	mouthH := distance(face.Points[detector.MouthLeft], face.Points[detector.MouthRight])

	// Degenerate spans happen only on corrupt detector output; treat
	// them as lost tracking rather than dividing by zero.
	if eyeH < 1e-10 || mouthH < 1e-10 {
		return NoSignal(ts)
	}

	return Sample{
		EAR:       eyeV / eyeH,
		MAR:       mouthV / mouthH,
		Timestamp: ts,
		Detected:  true,
	}
}

// distance calculates the Euclidean distance between two 2D points.
func distance(a, b detector.Point2D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
