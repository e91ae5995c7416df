package sweep

import (
	"math"
	"math/rand"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

const frameTol = 1e-9

// checkOrthonormal verifies that a frame is unit-length, mutually
// orthogonal, and right-handed.
func checkOrthonormal(t *testing.T, f Frame) {
	t.Helper()

	basis := []struct {
		name string
		v    v3.Vec
	}{
		{"tangent", f.Tangent},
		{"normal", f.Normal},
		{"binormal", f.Binormal},
	}
	for _, b := range basis {
		l := b.v.Length()
		if math.IsNaN(l) || math.Abs(l-1) > 1e-6 {
			t.Fatalf("%s has length %v, expected 1", b.name, l)
		}
	}

	if d := math.Abs(f.Tangent.Dot(f.Normal)); d > 1e-6 {
		t.Fatalf("tangent·normal = %v, expected 0", d)
	}
	if d := math.Abs(f.Tangent.Dot(f.Binormal)); d > 1e-6 {
		t.Fatalf("tangent·binormal = %v, expected 0", d)
	}
	if d := math.Abs(f.Normal.Dot(f.Binormal)); d > 1e-6 {
		t.Fatalf("normal·binormal = %v, expected 0", d)
	}

	// Right-handed: tangent × normal = binormal.
	if d := f.Tangent.Cross(f.Normal).Sub(f.Binormal).Length(); d > 1e-6 {
		t.Fatalf("tangent × normal differs from binormal by %v", d)
	}
}

func TestFrameStraight(t *testing.T) {
	f := frameFor(v3.Vec{X: 0, Y: 0, Z: 1}, 0)
	checkOrthonormal(t, f)

	if f.Normal.Sub(worldUp).Length() > frameTol {
		t.Errorf("normal = %+v, expected world up", f.Normal)
	}
}

func TestFrameVerticalTangent(t *testing.T) {
	// A vertical path is near-parallel to the up seed; the frame must swap
	// to the right seed instead of collapsing.
	f := frameFor(v3.Vec{X: 0, Y: 1, Z: 0}, 0)
	checkOrthonormal(t, f)

	if f.Normal.Sub(worldRight).Length() > frameTol {
		t.Errorf("normal = %+v, expected world right", f.Normal)
	}
}

func TestFrameRoll(t *testing.T) {
	f := frameFor(v3.Vec{X: 0, Y: 0, Z: 1}, math.Pi/2)
	checkOrthonormal(t, f)

	// Up rotated a quarter turn about +Z lands on -X.
	want := v3.Vec{X: -1, Y: 0, Z: 0}
	if f.Normal.Sub(want).Length() > 1e-9 {
		t.Errorf("rolled normal = %+v, expected %+v", f.Normal, want)
	}
}

func TestFrameTinyRollSkipped(t *testing.T) {
	plain := frameFor(defaultTangent, 0)
	tiny := frameFor(defaultTangent, 1e-9)
	if plain.Normal.Sub(tiny.Normal).Length() != 0 {
		t.Error("roll below threshold should not rotate the frame")
	}
}

func TestFrameFuzz(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 2000; i++ {
		v := v3.Vec{
			X: rng.Float64()*2 - 1,
			Y: rng.Float64()*2 - 1,
			Z: rng.Float64()*2 - 1,
		}
		if v.Length2() < minTangent2 {
			continue
		}
		roll := (rng.Float64()*2 - 1) * math.Pi
		checkOrthonormal(t, frameFor(v.Normalize(), roll))
	}
}

func TestRotateAboutFullTurn(t *testing.T) {
	v := v3.Vec{X: 0.3, Y: -0.8, Z: 0.2}
	got := rotateAbout(v, defaultTangent, 2*math.Pi)
	if got.Sub(v).Length() > 1e-9 {
		t.Errorf("full turn moved %+v to %+v", v, got)
	}
}
