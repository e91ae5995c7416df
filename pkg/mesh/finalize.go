package mesh

import (
	"github.com/chewxy/math32"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// FromTriangles indexes a triangle soup into a Mesh with shared-vertex
// deduplication and smoothed per-vertex normals. Normals are area-weighted:
// each triangle contributes its unnormalized face cross product (twice the
// triangle area) to its three corners, and the sums are normalized at the
// end. This pass has no semantic effect on the geometry.
func FromTriangles(name string, tris []*sdf.Triangle3) *Mesh {
	m := &Mesh{
		Name:    name,
		Indices: make([]uint32, 0, 3*len(tris)),
	}

	// Exact-match dedup is sufficient: adjacent quads reuse the very same
	// computed ring vertices, so shared corners are bit-identical.
	lookup := make(map[v3.Vec]uint32, len(tris))
	var accum []v3.Vec // per-vertex normal accumulator, float64

	indexOf := func(v v3.Vec) uint32 {
		if idx, ok := lookup[v]; ok {
			return idx
		}
		idx := uint32(len(accum))
		lookup[v] = idx
		accum = append(accum, v3.Vec{})
		m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
		return idx
	}

	for _, tri := range tris {
		a, b, c := tri[0], tri[1], tri[2]
		face := b.Sub(a).Cross(c.Sub(a))

		for _, v := range [3]v3.Vec{a, b, c} {
			idx := indexOf(v)
			accum[idx] = accum[idx].Add(face)
			m.Indices = append(m.Indices, idx)
		}
	}

	m.Normals = make([]float32, 0, 3*len(accum))
	for _, n := range accum {
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)
		if l := math32.Sqrt(nx*nx + ny*ny + nz*nz); l > 0 {
			nx /= l
			ny /= l
			nz /= l
		}
		m.Normals = append(m.Normals, nx, ny, nz)
	}

	return m
}
