package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

func TestTriangleMesh_Creation(t *testing.T) {
	vertices := []core.Vec3{
		core.NewVec3(0, 0, 0), // 0
		core.NewVec3(1, 0, 0), // 1
		core.NewVec3(1, 1, 0), // 2
		core.NewVec3(0, 1, 0), // 3
	}
	faces := []int{
		0, 1, 2, // first triangle
		0, 2, 3, // second triangle
	}

	mesh, err := NewTriangleMesh(vertices, faces, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if mesh.TriangleCount() != 2 {
		t.Errorf("Expected 2 triangles, got %d", mesh.TriangleCount())
	}
	if math.Abs(mesh.Area()-1.0) > 1e-12 {
		t.Errorf("Expected area 1, got %f", mesh.Area())
	}

	bbox := mesh.Bounds()
	const tolerance = 1e-9
	if bbox.Min.Subtract(core.NewVec3(0, 0, 0)).Length() > tolerance {
		t.Errorf("Expected min (0,0,0), got %v", bbox.Min)
	}
	if bbox.Max.Subtract(core.NewVec3(1, 1, 0)).Length() > tolerance {
		t.Errorf("Expected max (1,1,0), got %v", bbox.Max)
	}
}

func TestTriangleMesh_InvalidFaces(t *testing.T) {
	vertices := []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)}
	mat := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))

	if _, err := NewTriangleMesh(vertices, []int{0, 1}, mat); err == nil {
		t.Error("Expected error for face count not a multiple of 3")
	}
	if _, err := NewTriangleMesh(vertices, []int{0, 1, 3}, mat); err == nil {
		t.Error("Expected error for out of range vertex index")
	}
}

func TestTriangleMesh_Intersect(t *testing.T) {
	mesh := NewQuad(
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(1, 1, 0),
		core.NewVec3(0, 1, 0),
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)),
	)

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
	}{
		{"Ray hits center of quad", core.NewRay(core.NewVec3(0.5, 0.5, -1), core.NewVec3(0, 0, 1)), true},
		{"Ray hits corner", core.NewRay(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1)), true},
		{"Ray hits upper triangle", core.NewRay(core.NewVec3(0.2, 0.8, -1), core.NewVec3(0, 0, 1)), true},
		{"Ray misses quad", core.NewRay(core.NewVec3(2, 2, -1), core.NewVec3(0, 0, 1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := mesh.Intersect(tt.ray)
			if hit.Happened != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, hit.Happened)
			}
			if hit.Happened && hit.Primitive != Primitive(mesh) {
				t.Error("Mesh hit should reference the mesh, not the inner triangle")
			}
		})
	}
}

func TestTriangleMesh_SampleProportionalToArea(t *testing.T) {
	// Two triangles: the first has area 0.5, the second area 1.5
	vertices := []core.Vec3{
		core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(10, 0, 0), core.NewVec3(13, 0, 0), core.NewVec3(10, 1, 0),
	}
	mesh, err := NewTriangleMesh(vertices, []int{0, 1, 2, 3, 4, 5}, material.NewEmissive(core.NewVec3(0.5, 0.5, 0.5), core.NewVec3(1, 1, 1)))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	sampler := core.NewSeededSampler(42)
	const samples = 20000
	second := 0
	for i := 0; i < samples; i++ {
		hit, pdf := mesh.Sample(sampler)
		if math.Abs(pdf-0.5) > 1e-12 {
			t.Fatalf("Expected pdf 1/2, got %f", pdf)
		}
		if hit.Coords.X >= 10 {
			second++
		}
	}

	fraction := float64(second) / samples
	if math.Abs(fraction-0.75) > 0.02 {
		t.Errorf("Expected ~75%% of samples on the larger triangle, got %.3f", fraction)
	}
}
