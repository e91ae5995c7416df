package sweep

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Frame is the orthonormal right-handed basis attached to a slice. It is
// transient per-iteration state, derived from the travel direction and the
// slice roll, never stored independently of the slice that produced it.
type Frame struct {
	Tangent  v3.Vec
	Normal   v3.Vec
	Binormal v3.Vec
}

var (
	// defaultTangent seeds the very first slice, before any travel
	// direction exists.
	defaultTangent = v3.Vec{X: 0, Y: 0, Z: 1}

	worldUp    = v3.Vec{X: 0, Y: 1, Z: 0}
	worldRight = v3.Vec{X: 1, Y: 0, Z: 0}
)

const (
	// minTangent2 is the squared step length below which two slice centers
	// are treated as coincident and the previous tangent is reused.
	minTangent2 = 1e-12

	// minRoll is the roll magnitude below which the roll rotation is skipped.
	minRoll = 1e-6

	// upParallelLimit is the |tangent·up| threshold past which the up seed
	// is swapped for world-right to avoid the near-vertical singularity.
	upParallelLimit = 0.9
)

// frameFor computes the slice frame for a unit tangent and a roll angle.
// This is a discrete up-vector-seeded frame, not a Frenet-Serret frame:
// Frenet frames are ill-defined on near-straight segments, so each frame is
// seeded independently and the resulting inter-frame twist is cancelled later
// at the ring-index level.
func frameFor(tangent v3.Vec, roll float64) Frame {
	up := worldUp
	if math.Abs(tangent.Dot(up)) > upParallelLimit {
		up = worldRight
	}

	// Gram-Schmidt: project the up seed orthogonal to the tangent.
	n := up.Sub(tangent.MulScalar(up.Dot(tangent))).Normalize()
	b := tangent.Cross(n).Normalize()

	if math.Abs(roll) > minRoll {
		n = rotateAbout(n, tangent, roll)
		b = rotateAbout(b, tangent, roll)
	}

	return Frame{Tangent: tangent, Normal: n, Binormal: b}
}

// rotateAbout rotates v about the unit axis by angle radians (right-hand
// rule, Rodrigues' formula).
func rotateAbout(v, axis v3.Vec, angle float64) v3.Vec {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return v.MulScalar(c).
		Add(axis.Cross(v).MulScalar(s)).
		Add(axis.MulScalar(axis.Dot(v) * (1 - c)))
}

// project maps a 2D cross-section point into 3D under the frame at center.
// X runs along the frame normal and Y along the binormal, so a CCW section
// stays CCW about the +tangent axis.
func (f Frame) project(center v3.Vec, x, y float64) v3.Vec {
	return center.Add(f.Normal.MulScalar(x)).Add(f.Binormal.MulScalar(y))
}
