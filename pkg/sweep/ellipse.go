package sweep

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// DefaultEllipseResolution is the vertex count used for generated elliptical
// cross-sections when a job does not specify one.
const DefaultEllipseResolution = 24

// Ellipse returns an n-vertex counter-clockwise elliptical cross-section
// centered at center with semi-axes rx and ry. Fewer than 3 vertices cannot
// be stitched, so n is clamped to 3.
func Ellipse(center v2.Vec, rx, ry float64, n int) []v2.Vec {
	if n < 3 {
		n = 3
	}
	pts := make([]v2.Vec, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = v2.Vec{
			X: center.X + rx*math.Cos(a),
			Y: center.Y + ry*math.Sin(a),
		}
	}
	return pts
}
