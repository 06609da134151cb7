package loaders

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

const asciiQuad = `ply
format ascii 1.0
comment a unit square
element vertex 4
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
1 1 0
0 1 0
4 0 1 2 3
`

// createBinaryPLY writes a square with normals, colors and a face flag property
func createBinaryPLY(t *testing.T, order binary.ByteOrder, format string) []byte {
	t.Helper()
	var buf bytes.Buffer

	buf.WriteString("ply\n")
	buf.WriteString("format " + format + " 1.0\n")
	buf.WriteString("element vertex 4\n")
	buf.WriteString("property float x\n")
	buf.WriteString("property float y\n")
	buf.WriteString("property float z\n")
	buf.WriteString("property float nx\n")
	buf.WriteString("property float ny\n")
	buf.WriteString("property float nz\n")
	buf.WriteString("property uchar red\n")
	buf.WriteString("property uchar green\n")
	buf.WriteString("property uchar blue\n")
	buf.WriteString("element face 2\n")
	buf.WriteString("property list uchar int vertex_indices\n")
	buf.WriteString("property uchar flags\n")
	buf.WriteString("end_header\n")

	vertices := []struct {
		x, y, z    float32
		nx, ny, nz float32
		r, g, b    uint8
	}{
		{0, 0, 0, 0, 0, 1, 255, 0, 0},
		{2, 0, 0, 0, 0, 1, 0, 255, 0},
		{2, 3, 0, 0, 0, 1, 0, 0, 255},
		{0, 3, 0, 0, 0, 1, 255, 255, 0},
	}
	for _, v := range vertices {
		if err := binary.Write(&buf, order, v); err != nil {
			t.Fatal(err)
		}
	}

	for _, face := range [][3]int32{{0, 1, 2}, {0, 2, 3}} {
		buf.WriteByte(3)
		if err := binary.Write(&buf, order, face); err != nil {
			t.Fatal(err)
		}
		buf.WriteByte(7) // flags
	}

	return buf.Bytes()
}

func TestReadPLY_ASCII(t *testing.T) {
	mesh, err := ReadPLY(strings.NewReader(asciiQuad))
	if err != nil {
		t.Fatalf("ReadPLY failed: %v", err)
	}

	if len(mesh.Vertices) != 4 {
		t.Fatalf("Expected 4 vertices, got %d", len(mesh.Vertices))
	}
	if mesh.Vertices[2] != core.NewVec3(1, 1, 0) {
		t.Errorf("Expected vertex 2 at (1,1,0), got %v", mesh.Vertices[2])
	}

	// The quad is split into a fan
	expected := []int{0, 1, 2, 0, 2, 3}
	if mesh.TriangleCount() != 2 {
		t.Fatalf("Expected 2 triangles, got %d", mesh.TriangleCount())
	}
	for i := range expected {
		if mesh.Faces[i] != expected[i] {
			t.Errorf("Expected faces %v, got %v", expected, mesh.Faces)
			break
		}
	}
}

func TestReadPLY_Binary(t *testing.T) {
	tests := []struct {
		name   string
		order  binary.ByteOrder
		format string
	}{
		{"Little endian", binary.LittleEndian, "binary_little_endian"},
		{"Big endian", binary.BigEndian, "binary_big_endian"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := ReadPLY(bytes.NewReader(createBinaryPLY(t, tt.order, tt.format)))
			if err != nil {
				t.Fatalf("ReadPLY failed: %v", err)
			}

			if len(mesh.Vertices) != 4 || mesh.TriangleCount() != 2 {
				t.Fatalf("Expected 4 vertices and 2 triangles, got %d and %d", len(mesh.Vertices), mesh.TriangleCount())
			}
			if mesh.Vertices[2] != core.NewVec3(2, 3, 0) {
				t.Errorf("Expected vertex 2 at (2,3,0), got %v", mesh.Vertices[2])
			}
			if mesh.Faces[3] != 0 || mesh.Faces[4] != 2 || mesh.Faces[5] != 3 {
				t.Errorf("Unexpected second triangle %v", mesh.Faces[3:])
			}
		})
	}
}

func TestReadPLY_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Missing magic", "format ascii 1.0\nend_header\n"},
		{"No end_header", "ply\nformat ascii 1.0\nelement vertex 1\n"},
		{"Unknown format", "ply\nformat binary_middle_endian 1.0\nend_header\n"},
		{"Unknown type", "ply\nformat ascii 1.0\nelement vertex 1\nproperty quaternion x\nend_header\n1\n"},
		{"Truncated body", strings.Replace(asciiQuad, "4 0 1 2 3\n", "4 0 1\n", 1)},
		{"Index out of range", strings.Replace(asciiQuad, "4 0 1 2 3", "3 0 1 9", 1)},
		{"Degenerate face", strings.Replace(asciiQuad, "4 0 1 2 3", "2 0 1", 1)},
		{"Huge list length", strings.Replace(asciiQuad, "4 0 1 2 3", "1e300 0 1 2", 1)},
		{"Fractional list length", strings.Replace(asciiQuad, "4 0 1 2 3", "3.5 0 1 2", 1)},
		{"Negative list length", strings.Replace(asciiQuad, "4 0 1 2 3", "-3 0 1 2", 1)},
		{"Negative index", strings.Replace(asciiQuad, "4 0 1 2 3", "3 0 -1 2", 1)},
		{"Fractional index", strings.Replace(asciiQuad, "4 0 1 2 3", "3 0 1.5 2", 1)},
		{"Vertex count beyond body", strings.Replace(asciiQuad, "element vertex 4", "element vertex 2000000000", 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPLY(strings.NewReader(tt.data))
			if !errors.Is(err, ErrInvalidPLY) {
				t.Errorf("Expected ErrInvalidPLY, got %v", err)
			}
		})
	}
}

func TestLoadPLY(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.ply")
	if err := os.WriteFile(path, []byte(asciiQuad), 0644); err != nil {
		t.Fatal(err)
	}

	mesh, err := LoadPLY(path)
	if err != nil {
		t.Fatalf("LoadPLY failed: %v", err)
	}
	if mesh.TriangleCount() != 2 {
		t.Errorf("Expected 2 triangles, got %d", mesh.TriangleCount())
	}

	if _, err := LoadPLY(filepath.Join(t.TempDir(), "missing.ply")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
