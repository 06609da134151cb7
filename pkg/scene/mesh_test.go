package scene

import (
	"math"
	"testing"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
)

func TestFitVertices(t *testing.T) {
	// A 2x1x1 box corner set, offset from the origin
	vertices := []core.Vec3{
		core.NewVec3(10, 5, 10), core.NewVec3(12, 5, 10),
		core.NewVec3(10, 6, 11), core.NewVec3(12, 6, 11),
	}
	region := core.NewBounds3(core.NewVec3(0, 0, 0), core.NewVec3(100, 100, 100))

	fitted, err := FitVertices(vertices, region)
	if err != nil {
		t.Fatalf("FitVertices failed: %v", err)
	}

	bounds := core.NewBoundsFromPoints(fitted...)
	// X is the longest axis and limits the scale to 50
	expectedMin := core.NewVec3(0, 0, 25)
	expectedMax := core.NewVec3(100, 50, 75)
	if bounds.Min.Subtract(expectedMin).Length() > 1e-9 || bounds.Max.Subtract(expectedMax).Length() > 1e-9 {
		t.Errorf("Expected bounds %v-%v, got %v-%v", expectedMin, expectedMax, bounds.Min, bounds.Max)
	}
}

func TestFitVertices_Degenerate(t *testing.T) {
	region := core.NewBounds3(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1))

	if _, err := FitVertices(nil, region); err == nil {
		t.Error("Expected an error for no vertices")
	}
	point := []core.Vec3{core.NewVec3(1, 2, 3), core.NewVec3(1, 2, 3)}
	if _, err := FitVertices(point, region); err == nil {
		t.Error("Expected an error for a single point")
	}

	// A flat model still fits using its non-zero axes
	flat := []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 4)}
	fitted, err := FitVertices(flat, region)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if b := core.NewBoundsFromPoints(fitted...); math.Abs(b.Diagonal().Z-1) > 1e-12 {
		t.Errorf("Expected the Z extent to fill the region, got %v", b.Diagonal())
	}
}

func TestNewMeshScene(t *testing.T) {
	// Tetrahedron
	vertices := []core.Vec3{
		core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 1),
	}
	faces := []int{0, 2, 1, 0, 1, 3, 0, 3, 2, 1, 2, 3}

	s, err := NewMeshScene("tetra", vertices, faces)
	if err != nil {
		t.Fatalf("NewMeshScene failed: %v", err)
	}
	if err := s.Preprocess(1, geometry.SplitSAH); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	// Shell: 3 white quads, red, green, light = 12 triangles; model adds 4
	if got := s.TriangleCount(); got != 16 {
		t.Errorf("Expected 16 triangles, got %d", got)
	}
	if len(s.Lights()) != 1 {
		t.Errorf("Expected the ceiling light, got %d lights", len(s.Lights()))
	}

	// The model rests on the floor inside the box
	hit := s.Intersect(core.NewRay(core.NewVec3(200, 500, 200), core.NewVec3(0, -1, 0)))
	if !hit.Happened || hit.Coords.Y <= 0 {
		t.Errorf("Expected to hit the model above the floor, got %+v", hit)
	}

	if _, err := NewMeshScene("bad", vertices, []int{0, 1, 7}); err == nil {
		t.Error("Expected an error for out of range indices")
	}
}
