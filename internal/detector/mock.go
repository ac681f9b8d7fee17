package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results, including scripting
// a different face (or no face) for each successive frame. Safe to
// reconfigure while a pipeline is reading from it.
type MockDetector struct {
	mu     sync.Mutex
	face   *FaceLandmarks
	script []*FaceLandmarks
	cursor int
	err    error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFace sets the face that will be returned by every Detect call.
// Pass nil to simulate "no face detected".
func (m *MockDetector) SetFace(face *FaceLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.face = face
	m.script = nil
	m.cursor = 0
}

// SetScript sets a per-frame sequence of detection results. Each Detect
// call consumes one entry; nil entries simulate lost tracking. Once the
// script is exhausted the last entry repeats.
func (m *MockDetector) SetScript(script []*FaceLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = script
	m.cursor = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the pre-configured face, script entry, or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*FaceLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if m.script != nil {
		if m.cursor >= len(m.script) {
			return m.script[len(m.script)-1], nil
		}
		face := m.script[m.cursor]
		m.cursor++
		return face, nil
	}
	return m.face, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// AlertFaceLandmarks returns a preset face with wide-open eyes and a
// closed mouth: EAR = 0.30, MAR = 0.10.
func AlertFaceLandmarks() FaceLandmarks {
	return faceWithRatios(0.30, 0.10)
}

// DrowsyFaceLandmarks returns a preset face with nearly closed eyes:
// EAR = 0.15, MAR = 0.10.
func DrowsyFaceLandmarks() FaceLandmarks {
	return faceWithRatios(0.15, 0.10)
}

// YawningFaceLandmarks returns a preset face with open eyes and a wide
// open mouth: EAR = 0.30, MAR = 0.60.
func YawningFaceLandmarks() FaceLandmarks {
	return faceWithRatios(0.30, 0.60)
}

// FaceWithRatios builds landmarks whose eye and mouth spans produce
// exactly the given aspect ratios. Eye horizontal span is 0.10 and
// mouth horizontal span is 0.12 in normalized coordinates, roughly
// where a centered face sits in frame.
func FaceWithRatios(ear, mar float64) FaceLandmarks {
	return faceWithRatios(ear, mar)
}

func faceWithRatios(ear, mar float64) FaceLandmarks {
	const (
		eyeSpan   = 0.10
		mouthSpan = 0.12
	)

	face := FaceLandmarks{Score: 0.95}

	// Left eye centered around (0.40, 0.45)
	face.Points[EyeOuter] = Point2D{X: 0.35, Y: 0.45}
	face.Points[EyeInner] = Point2D{X: 0.35 + eyeSpan, Y: 0.45}
	eyeV := ear * eyeSpan
	face.Points[EyeTop] = Point2D{X: 0.40, Y: 0.45 - eyeV/2}
	face.Points[EyeBottom] = Point2D{X: 0.40, Y: 0.45 + eyeV/2}

	// Mouth centered around (0.48, 0.62)
	face.Points[MouthLeft] = Point2D{X: 0.42, Y: 0.62}
	face.Points[MouthRight] = Point2D{X: 0.42 + mouthSpan, Y: 0.62}
	mouthV := mar * mouthSpan
	face.Points[MouthTop] = Point2D{X: 0.48, Y: 0.62 - mouthV/2}
	face.Points[MouthBottom] = Point2D{X: 0.48, Y: 0.62 + mouthV/2}

	return face
}
