package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

func TestSphere_Intersect_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	if hit := sphere.Intersect(ray); hit.Happened {
		t.Errorf("Expected miss, but got hit at t=%f", hit.Distance)
	}
}

func TestSphere_Intersect_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := sphere.Intersect(core.NewRayWithRange(tt.rayOrigin, tt.rayDirection, 0.001, 1000))
			if !hit.Happened {
				t.Fatal("Expected hit, got miss")
			}
			if math.Abs(hit.Distance-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.Distance)
			}
			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %v, got %v", tt.expectedFront, hit.FrontFace)
			}
			if hit.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}

func TestSphere_Sample(t *testing.T) {
	center := core.NewVec3(1, 2, 3)
	sphere := NewSphere(center, 2.0, material.NewEmissive(core.NewVec3(0.5, 0.5, 0.5), core.NewVec3(1, 1, 1)))
	sampler := core.NewSeededSampler(42)

	expectedPDF := 1.0 / (16 * math.Pi)
	for i := 0; i < 100; i++ {
		hit, pdf := sphere.Sample(sampler)
		if math.Abs(pdf-expectedPDF) > 1e-12 {
			t.Fatalf("Expected pdf %f, got %f", expectedPDF, pdf)
		}
		if math.Abs(hit.Coords.Subtract(center).Length()-2.0) > 1e-9 {
			t.Fatalf("Sample %v not on sphere surface", hit.Coords)
		}
		outward := hit.Coords.Subtract(center).Normalize()
		if hit.Normal.Subtract(outward).Length() > 1e-9 {
			t.Fatalf("Expected outward normal %v, got %v", outward, hit.Normal)
		}
	}

	b := sphere.Bounds()
	if b.Min != core.NewVec3(-1, 0, 1) || b.Max != core.NewVec3(3, 4, 5) {
		t.Errorf("Unexpected bounds %v", b)
	}
}
