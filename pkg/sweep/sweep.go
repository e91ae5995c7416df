// Package sweep builds triangulated tube meshes by sweeping 2D cross-section
// polygons along an ordered sequence of 3D path slices. It computes a stable
// orientation frame per slice, cancels accumulated frame twist at the
// vertex-index level, and stitches consecutive rings into watertight tube
// segments.
package sweep

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Slice is one sample point along the swept path.
type Slice struct {
	Center v3.Vec  `json:"center"` // position of the cross-section plane
	Roll   float64 `json:"roll"`   // intrinsic rotation about the path axis, radians
	Kind   string  `json:"kind"`   // optional element type tag; a change forces a run break
}

// SectionFunc returns the 2D cross-section polygon for slice i. The polygon
// is implicitly closed (last point connects to the first) and is expected to
// wind counter-clockwise for outward-facing tube normals. Fewer than 3 points
// causes the slice to be skipped; that is data sparsity, not an error.
type SectionFunc func(i int) []v2.Vec

// BreakFunc reports whether a new run must start between two consecutive
// slices, in addition to the built-in breaks on Kind change and cross-section
// cardinality change.
type BreakFunc func(prev, curr Slice) bool

// Config carries the builder knobs. The zero value is usable.
type Config struct {
	// ThicknessScale multiplies every cross-section point before projection.
	// Zero means 1.
	ThicknessScale float64

	// Break, if non-nil, is consulted between consecutive slices to force
	// additional run breaks (e.g. on upstream discontinuity markers).
	Break BreakFunc

	// Progress, if non-nil, is invoked synchronously on the building
	// goroutine after each slice is consumed.
	Progress func(done, total int)
}

// scale returns the effective cross-section scale factor.
func (c Config) scale() float64 {
	if c.ThicknessScale == 0 {
		return 1
	}
	return c.ThicknessScale
}
