// Package detector provides face landmark detection interfaces and types
// for the Astromind fatigue monitor.
package detector

// Landmark indices into FaceLandmarks.Points. These correspond to the
// MediaPipe face mesh points the ratio math needs: 159/145 (left eye
// vertical), 33/133 (left eye horizontal), 13/14 (lips vertical) and
// 78/308 (lips horizontal).
// See: https://developers.google.com/mediapipe/solutions/vision/face_landmarker
const (
	EyeTop       = 0
	EyeBottom    = 1
	EyeOuter     = 2
	EyeInner     = 3
	MouthTop     = 4
	MouthBottom  = 5
	MouthLeft    = 6
	MouthRight   = 7
	NumLandmarks = 8
)

// MeshIndex maps each landmark slot to its MediaPipe face mesh index.
var MeshIndex = [NumLandmarks]int{
	EyeTop:      159,
	EyeBottom:   145,
	EyeOuter:    33,
	EyeInner:    133,
	MouthTop:    13,
	MouthBottom: 14,
	MouthLeft:   78,
	MouthRight:  308,
}

// Point2D represents a normalized 2D point with x, y in [0, 1].
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FaceLandmarks holds the subset of face mesh landmarks used for
// fatigue analysis, in normalized image coordinates.
type FaceLandmarks struct {
	Points [NumLandmarks]Point2D `json:"points"`
	Score  float64               `json:"score"`
}

// Translate returns a copy of the landmarks with a constant offset
// added to every point. Aspect ratios are invariant under translation,
// which makes this useful for positioning test fixtures.
func (f *FaceLandmarks) Translate(dx, dy float64) FaceLandmarks {
	out := FaceLandmarks{Score: f.Score}
	for i := 0; i < NumLandmarks; i++ {
		out.Points[i] = Point2D{
			X: f.Points[i].X + dx,
			Y: f.Points[i].Y + dy,
		}
	}
	return out
}
