package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/beamvis/beamvis/pkg/mesh"
)

func triMesh(name, color string, z float32) *mesh.Mesh {
	return &mesh.Mesh{
		Vertices: []float32{0, 0, z, 1, 0, z, 0, 1, z},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:  []uint32{0, 1, 2},
		Name:     name,
		Color:    color,
	}
}

func TestWriteOBJ(t *testing.T) {
	meshes := []*mesh.Mesh{
		triMesh("pipe.0", "#ff0000", 0),
		nil,
		{}, // empty meshes are skipped
		triMesh("pipe.1", "#00ff00", 5),
	}

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, "scene.mtl", meshes); err != nil {
		t.Fatalf("WriteOBJ: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "mtllib scene.mtl\n") {
		t.Errorf("missing mtllib line:\n%s", out)
	}
	for _, want := range []string{
		"g pipe.0\nusemtl pipe.0\n",
		"g pipe.1\nusemtl pipe.1\n",
		"f 1//1 2//2 3//3\n",
		// Second mesh's indices re-based past the first mesh's 3 vertices.
		"f 4//4 5//5 6//6\n",
		"v 0 0 5\n",
		"vn 0 0 1\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "v "); got != 6 {
		t.Errorf("vertex line count = %d, expected 6", got)
	}
}

func TestWriteMTL(t *testing.T) {
	meshes := []*mesh.Mesh{
		triMesh("pipe", "#ff8000", 0),
		triMesh("beam", "no-such-color", 1),
	}

	var buf bytes.Buffer
	if err := WriteMTL(&buf, meshes); err != nil {
		t.Fatalf("WriteMTL: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "newmtl pipe\nKd 1.0000 0.5020 0.0000\n") {
		t.Errorf("pipe material wrong:\n%s", out)
	}
	// Unparseable colors fall back to the default gray.
	if !strings.Contains(out, "newmtl beam\nKd 0.7000 0.7000 0.7000\n") {
		t.Errorf("fallback material wrong:\n%s", out)
	}
}

func TestMaterialNameSanitized(t *testing.T) {
	m := triMesh("pipe run #2 (quad)", "", 0)
	if got := materialName(m, 0); got != "pipe_run__2__quad_" {
		t.Errorf("materialName = %q", got)
	}
	if got := materialName(&mesh.Mesh{}, 3); got != "mesh3" {
		t.Errorf("unnamed materialName = %q", got)
	}
}

func TestDiffuse(t *testing.T) {
	r, g, b := diffuse("#4A90D9")
	if r <= 0.28 || r >= 0.30 || g <= 0.56 || g >= 0.57 || b <= 0.85 || b >= 0.86 {
		t.Errorf("diffuse = %v %v %v", r, g, b)
	}
	r, g, b = diffuse("")
	if r != 0.7 || g != 0.7 || b != 0.7 {
		t.Errorf("fallback diffuse = %v %v %v", r, g, b)
	}
}
