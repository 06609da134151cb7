package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

func TestLambertian_SampleMatchesPDF(t *testing.T) {
	lambertian := NewLambertian(core.NewVec3(0.8, 0.8, 0.8))
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	normal := core.NewVec3(0, 0, 1)
	wo := core.NewVec3(0, 0, -1)

	for i := 0; i < 100; i++ {
		wi := lambertian.Sample(wo, normal, sampler.Get2D())

		if math.Abs(wi.Length()-1) > 1e-9 {
			t.Fatalf("Sampled direction %v is not normalized", wi)
		}

		cosTheta := wi.Dot(normal)
		expectedPDF := cosTheta / math.Pi
		if math.Abs(lambertian.PDF(wo, wi, normal)-expectedPDF) > 1e-10 {
			t.Errorf("PDF mismatch: got %f, expected %f", lambertian.PDF(wo, wi, normal), expectedPDF)
		}
	}
}

func TestLambertian_Eval(t *testing.T) {
	albedo := core.NewVec3(0.5, 0.7, 0.9)
	lambertian := NewLambertian(albedo)
	normal := core.NewVec3(0, 1, 0)
	wo := core.NewVec3(0, -1, 0)

	tests := []struct {
		name     string
		wi       core.Vec3
		expected core.Vec3
	}{
		{"Straight up", core.NewVec3(0, 1, 0), albedo.Multiply(1.0 / math.Pi)},
		{"Grazing above", core.NewVec3(1, 0.01, 0).Normalize(), albedo.Multiply(1.0 / math.Pi)},
		{"Tangent", core.NewVec3(1, 0, 0), core.Vec3{}},
		{"Below surface", core.NewVec3(0, -1, 0), core.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lambertian.Eval(wo, tt.wi, normal)
			if got.Subtract(tt.expected).Length() > 1e-10 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
			if tt.expected.IsZero() && lambertian.PDF(wo, tt.wi, normal) != 0 {
				t.Errorf("PDF should be zero below the surface")
			}
		})
	}
}

func TestLambertian_EnergyConservation(t *testing.T) {
	// ∫ f cos dω estimated with the material's own sampling equals the albedo
	albedo := core.NewVec3(0.5, 0.7, 0.9)
	lambertian := NewLambertian(albedo)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	normal := core.NewVec3(0, 0, 1)
	wo := core.NewVec3(0, 0, -1)

	const samples = 1000
	var sum core.Vec3
	for i := 0; i < samples; i++ {
		wi := lambertian.Sample(wo, normal, sampler.Get2D())
		pdf := lambertian.PDF(wo, wi, normal)
		if pdf <= 0 {
			continue
		}
		sum = sum.Add(lambertian.Eval(wo, wi, normal).Multiply(wi.Dot(normal) / pdf))
	}

	reflected := sum.Multiply(1.0 / samples)
	if reflected.Subtract(albedo).Length() > 1e-6 {
		t.Errorf("Expected reflected energy %v, got %v", albedo, reflected)
	}
}
