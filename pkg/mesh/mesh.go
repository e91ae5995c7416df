// Package mesh holds the triangle mesh model shared by the sweep builder and
// the exporters. All arrays are flat: vertices has 3 floats per vertex
// (x,y,z), normals has 3 floats per vertex, indices has 3 uint32s per
// triangle.
package mesh

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is an indexed triangle mesh with smoothed per-vertex normals and a
// flat per-run color, suitable for rendering or export.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`     // which sweep run this came from
	Color    string    `json:"color"`    // flat hex color, e.g. "#4A90D9"
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Vertex returns vertex i as a 3D vector.
func (m *Mesh) Vertex(i int) v3.Vec {
	return v3.Vec{
		X: float64(m.Vertices[3*i]),
		Y: float64(m.Vertices[3*i+1]),
		Z: float64(m.Vertices[3*i+2]),
	}
}

// Normal returns the normal of vertex i as a 3D vector.
func (m *Mesh) Normal(i int) v3.Vec {
	return v3.Vec{
		X: float64(m.Normals[3*i]),
		Y: float64(m.Normals[3*i+1]),
		Z: float64(m.Normals[3*i+2]),
	}
}

// Triangles reconstructs the triangle soup from the indexed buffers.
func (m *Mesh) Triangles() []*sdf.Triangle3 {
	tris := make([]*sdf.Triangle3, 0, m.TriangleCount())
	for i := 0; i+2 < len(m.Indices); i += 3 {
		tris = append(tris, &sdf.Triangle3{
			m.Vertex(int(m.Indices[i])),
			m.Vertex(int(m.Indices[i+1])),
			m.Vertex(int(m.Indices[i+2])),
		})
	}
	return tris
}

// Merge concatenates meshes into a single mesh with re-based indices. Nil and
// empty meshes are skipped. The per-run names and colors of the inputs are
// discarded; the result carries only the given name.
func Merge(name string, meshes []*Mesh) *Mesh {
	out := &Mesh{Name: name}
	for _, m := range meshes {
		if m == nil || m.IsEmpty() {
			continue
		}
		base := uint32(out.VertexCount())
		out.Vertices = append(out.Vertices, m.Vertices...)
		out.Normals = append(out.Normals, m.Normals...)
		for _, idx := range m.Indices {
			out.Indices = append(out.Indices, base+idx)
		}
	}
	return out
}
