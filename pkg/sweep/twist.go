package sweep

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// minRef2 is the squared radial-reference length below which the index-0
// vertex sits on the slice center and carries no angular information.
const minRef2 = 1e-18

// twistAngle measures the signed rotation about the tangent axis that would
// bring the current ring's radial reference vector (index-0 vertex minus
// slice center) onto the previous ring's. References are measured on the raw,
// uncorrected rings so that the accumulator integrates pure frame drift; a
// ring that has drifted counter-clockwise yields a negative angle. A
// degenerate reference contributes zero drift rather than poisoning the
// accumulator with NaN.
func twistAngle(prevRef, currRef, tangent v3.Vec) float64 {
	if prevRef.Length2() < minRef2 || currRef.Length2() < minRef2 {
		return 0
	}
	rp := prevRef.Normalize()
	rc := currRef.Normalize()

	dot := rp.Dot(rc)
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	cross := tangent.Dot(rc.Cross(rp))

	return math.Atan2(cross, dot)
}

// twistShift converts an accumulated twist angle into a discrete rotation of
// ring vertex indices for a ring of n vertices. Cross-sections are irregular
// polygons, so discrete index rotation is the only re-alignment available:
// continuous re-parameterization would distort the section.
func twistShift(accumulated float64, n int) int {
	step := 2 * math.Pi / float64(n)
	return int(math.Round(accumulated / step))
}

// reindex rotates ring by shift positions: out[i] = ring[(i+shift) mod n].
// The input is returned unchanged when the effective shift is zero.
func reindex(ring []v3.Vec, shift int) []v3.Vec {
	n := len(ring)
	if n == 0 {
		return ring
	}
	shift = ((shift % n) + n) % n
	if shift == 0 {
		return ring
	}
	out := make([]v3.Vec, n)
	for i := range out {
		out[i] = ring[(i+shift)%n]
	}
	return out
}
