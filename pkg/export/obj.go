// Package export serializes finished meshes to interchange formats: a
// Wavefront OBJ with a side MTL material-reference file, and binary STL.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beamvis/beamvis/pkg/mesh"
)

// defaultDiffuse is used when a mesh carries no parseable color.
var defaultDiffuse = [3]float64{0.7, 0.7, 0.7}

// WriteOBJ writes the meshes as a Wavefront OBJ referencing mtlLib for
// materials. Each mesh becomes one group with its own material; vertex and
// normal indices are 1-based and shared across groups per the OBJ format.
func WriteOBJ(w io.Writer, mtlLib string, meshes []*mesh.Mesh) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "mtllib %s\n", mtlLib)

	base := 1 // OBJ indices start at 1 and run across the whole file
	for mi, m := range meshes {
		if m == nil || m.IsEmpty() {
			continue
		}
		name := materialName(m, mi)
		fmt.Fprintf(bw, "g %s\n", name)
		fmt.Fprintf(bw, "usemtl %s\n", name)

		for i := 0; i < m.VertexCount(); i++ {
			v := m.Vertex(i)
			fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z)
		}
		for i := 0; i < m.VertexCount(); i++ {
			n := m.Normal(i)
			fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
		}
		for i := 0; i+2 < len(m.Indices); i += 3 {
			a := base + int(m.Indices[i])
			b := base + int(m.Indices[i+1])
			c := base + int(m.Indices[i+2])
			fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
		}
		base += m.VertexCount()
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("export: writing obj: %w", err)
	}
	return nil
}

// WriteMTL writes the side material file: one diffuse-only material per mesh.
func WriteMTL(w io.Writer, meshes []*mesh.Mesh) error {
	bw := bufio.NewWriter(w)

	for mi, m := range meshes {
		if m == nil || m.IsEmpty() {
			continue
		}
		r, g, b := diffuse(m.Color)
		fmt.Fprintf(bw, "newmtl %s\n", materialName(m, mi))
		fmt.Fprintf(bw, "Kd %.4f %.4f %.4f\n", r, g, b)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("export: writing mtl: %w", err)
	}
	return nil
}

// WriteOBJFile writes path plus a sibling .mtl file with the same base name.
func WriteOBJFile(path string, meshes []*mesh.Mesh) error {
	mtlPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".mtl"

	of, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer of.Close()
	if err := WriteOBJ(of, filepath.Base(mtlPath), meshes); err != nil {
		return err
	}

	mf, err := os.Create(mtlPath)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", mtlPath, err)
	}
	defer mf.Close()
	return WriteMTL(mf, meshes)
}

// materialName derives a stable OBJ-safe identifier for mesh mi.
func materialName(m *mesh.Mesh, mi int) string {
	name := m.Name
	if name == "" {
		name = fmt.Sprintf("mesh%d", mi)
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

// diffuse converts a "#RRGGBB" color into r,g,b components in [0,1].
func diffuse(color string) (r, g, b float64) {
	var ir, ig, ib int
	if _, err := fmt.Sscanf(color, "#%02x%02x%02x", &ir, &ig, &ib); err != nil {
		return defaultDiffuse[0], defaultDiffuse[1], defaultDiffuse[2]
	}
	return float64(ir) / 255, float64(ig) / 255, float64(ib) / 255
}
