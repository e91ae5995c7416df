package export

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"

	"github.com/beamvis/beamvis/pkg/mesh"
)

// SaveSTL writes the meshes as a single binary STL file. STL carries no
// materials or shared vertices, so the indexed meshes are flattened back to
// a triangle soup first.
func SaveSTL(path string, meshes []*mesh.Mesh) error {
	var tris []*sdf.Triangle3
	for _, m := range meshes {
		if m == nil || m.IsEmpty() {
			continue
		}
		tris = append(tris, m.Triangles()...)
	}
	if len(tris) == 0 {
		return fmt.Errorf("export: no triangles to write to %s", path)
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("export: writing stl %s: %w", path, err)
	}
	return nil
}
