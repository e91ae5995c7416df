package sweep

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestTwistAngleAligned(t *testing.T) {
	ref := v3.Vec{X: 1, Y: 0.5, Z: 0}
	if a := twistAngle(ref, ref, defaultTangent); math.Abs(a) > 1e-12 {
		t.Errorf("aligned references measured %v, expected 0", a)
	}
}

func TestTwistAngleSign(t *testing.T) {
	// A reference that drifted 0.3 rad counter-clockwise about +Z needs a
	// -0.3 rad correction to come back onto the previous reference.
	prev := v3.Vec{X: 1, Y: 0, Z: 0}
	curr := v3.Vec{X: math.Cos(0.3), Y: math.Sin(0.3), Z: 0}

	a := twistAngle(prev, curr, defaultTangent)
	if math.Abs(a+0.3) > 1e-12 {
		t.Errorf("twistAngle = %v, expected -0.3", a)
	}
}

func TestTwistAngleOpposedClamped(t *testing.T) {
	prev := v3.Vec{X: 1, Y: 0, Z: 0}
	curr := v3.Vec{X: -1, Y: 0, Z: 0}
	a := twistAngle(prev, curr, defaultTangent)
	if math.Abs(math.Abs(a)-math.Pi) > 1e-9 {
		t.Errorf("opposed references measured %v, expected ±π", a)
	}
}

func TestTwistAngleDegenerateReference(t *testing.T) {
	// A ring whose index-0 vertex sits on the slice center has a zero
	// radial reference; it must contribute zero drift, not NaN.
	ref := v3.Vec{X: 1, Y: 0, Z: 0}
	zero := v3.Vec{}

	for _, a := range []float64{
		twistAngle(zero, ref, defaultTangent),
		twistAngle(ref, zero, defaultTangent),
		twistAngle(zero, zero, defaultTangent),
	} {
		if a != 0 {
			t.Errorf("degenerate reference measured %v, expected 0", a)
		}
	}
}

func TestTwistShiftRounding(t *testing.T) {
	const n = 8
	step := 2 * math.Pi / n

	cases := []struct {
		acc  float64
		want int
	}{
		{0, 0},
		{0.3 * step, 0},
		{0.51 * step, 1},
		{-0.51 * step, -1},
		{2.4 * step, 2},
		{-3.6 * step, -4},
	}
	for _, c := range cases {
		if got := twistShift(c.acc, n); got != c.want {
			t.Errorf("twistShift(%v, %d) = %d, expected %d", c.acc, n, got, c.want)
		}
	}
}

func TestReindex(t *testing.T) {
	ring := []v3.Vec{
		{X: 0}, {X: 1}, {X: 2}, {X: 3},
	}

	out := reindex(ring, 1)
	if out[0].X != 1 || out[3].X != 0 {
		t.Errorf("shift +1: got %v", out)
	}

	out = reindex(ring, -1)
	if out[0].X != 3 || out[1].X != 0 {
		t.Errorf("shift -1: got %v", out)
	}

	// Whole-ring rotations and zero shifts return the input untouched.
	if got := reindex(ring, 0); &got[0] != &ring[0] {
		t.Error("zero shift should return the input slice")
	}
	if got := reindex(ring, 4); &got[0] != &ring[0] {
		t.Error("full-ring shift should return the input slice")
	}
	if got := reindex(ring, -8); &got[0] != &ring[0] {
		t.Error("multiple full-ring shift should return the input slice")
	}
}
