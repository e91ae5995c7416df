package sweep

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/beamvis/beamvis/pkg/mesh"
)

// state is the per-run sweep state threaded through each slice step: the last
// valid tangent, the previous corrected ring, the raw radial reference of the
// previous ring, and the running twist accumulator. Each independent run gets
// a fresh ring history and accumulator; the tangent is path state and
// survives run breaks.
type state struct {
	cfg Config

	tangent   v3.Vec
	prevSlice Slice
	havePrev  bool

	prevRing []v3.Vec // corrected ring of the previous stitched slice
	prevRef  v3.Vec   // raw index-0 radial reference of that ring
	runKind  string   // element tag of the run's first stitched slice
	twist    float64  // accumulated signed drift, radians, never reset mid-run

	tris []*sdf.Triangle3
}

func newState(cfg Config) *state {
	return &state{cfg: cfg, tangent: defaultTangent}
}

// breakBefore reports whether a run break is required before consuming sl:
// a change in element tag, or a positive verdict from the configured
// break predicate.
func (st *state) breakBefore(sl Slice) bool {
	if !st.havePrev {
		return false
	}
	if sl.Kind != st.prevSlice.Kind {
		return true
	}
	return st.cfg.Break != nil && st.cfg.Break(st.prevSlice, sl)
}

// cardinalityBreak reports whether the upcoming section's vertex count
// differs from the current ring history. Index-shift twist correction is
// undefined across differing counts, so the run must end.
func (st *state) cardinalityBreak(sec []v2.Vec) bool {
	return len(sec) >= 3 && st.prevRing != nil && len(sec) != len(st.prevRing)
}

// endRun clears the per-run state.
func (st *state) endRun() {
	st.prevRing = nil
	st.twist = 0
	st.runKind = ""
	st.tris = nil
}

// step consumes one slice: advances the tangent, projects the cross-section
// into a 3D ring, applies the accumulated-twist index correction, and
// stitches the ring to the previous one.
func (st *state) step(sl Slice, sec []v2.Vec) {
	if st.havePrev {
		d := sl.Center.Sub(st.prevSlice.Center)
		if d.Length2() >= minTangent2 {
			st.tangent = d.Normalize()
		}
		// Coincident centers reuse the previous tangent.
	}
	st.prevSlice = sl
	st.havePrev = true

	if len(sec) < 3 {
		// Sparse row: the slice drops out of the stitched chain but the
		// sweep continues.
		return
	}

	fr := frameFor(st.tangent, sl.Roll)
	scale := st.cfg.scale()
	ring := make([]v3.Vec, len(sec))
	for j, p := range sec {
		ring[j] = fr.project(sl.Center, p.X*scale, p.Y*scale)
	}
	ref := ring[0].Sub(sl.Center)

	if st.prevRing != nil {
		st.twist += twistAngle(st.prevRef, ref, fr.Tangent)
		ring = reindex(ring, twistShift(st.twist, len(ring)))
		st.stitch(st.prevRing, ring)
	} else {
		st.runKind = sl.Kind
	}

	st.prevRef = ref
	st.prevRing = ring
}

// stitch emits the 2N-triangle quad strip between two equal-cardinality
// rings. Winding is CCW viewed from outside for CCW cross-sections.
func (st *state) stitch(prev, curr []v3.Vec) {
	n := len(prev)
	for j := 0; j < n; j++ {
		k := (j + 1) % n
		st.tris = append(st.tris,
			&sdf.Triangle3{prev[j], prev[k], curr[j]},
			&sdf.Triangle3{prev[k], curr[k], curr[j]},
		)
	}
}

// BuildRuns sweeps the slice sequence and returns one finalized mesh per run.
// Runs are delimited by element-tag changes, cross-section cardinality
// changes, and the configured break predicate; runs never stitch to each
// other. The sweep is a single forward pass and never revisits a slice.
func BuildRuns(name string, slices []Slice, section SectionFunc, cfg Config) []*mesh.Mesh {
	st := newState(cfg)
	var runs []*mesh.Mesh

	flush := func() {
		if len(st.tris) > 0 {
			runs = append(runs, mesh.FromTriangles(runName(name, len(runs), st.runKind), st.tris))
		}
		st.endRun()
	}

	for i, sl := range slices {
		sec := section(i)
		if st.breakBefore(sl) || st.cardinalityBreak(sec) {
			flush()
		}
		st.step(sl, sec)
		if cfg.Progress != nil {
			cfg.Progress(i+1, len(slices))
		}
	}
	flush()

	return runs
}

// Build sweeps the slice sequence and returns a single combined mesh. The
// algorithm is identical to BuildRuns; only the emission granularity differs.
func Build(name string, slices []Slice, section SectionFunc, cfg Config) *mesh.Mesh {
	return mesh.Merge(name, BuildRuns(name, slices, section, cfg))
}

// runName labels the mesh of run idx within a sweep.
func runName(base string, idx int, kind string) string {
	if kind != "" {
		return fmt.Sprintf("%s.%d.%s", base, idx, kind)
	}
	return fmt.Sprintf("%s.%d", base, idx)
}
