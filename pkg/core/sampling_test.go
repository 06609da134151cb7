package core

import (
	"math"
	"testing"
)

func TestSampleCosineHemisphere(t *testing.T) {
	sampler := NewSeededSampler(42)
	normals := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(0, -1, 0),
		NewVec3(1, 1, 0).Normalize(),
	}

	for _, normal := range normals {
		const samples = 20000
		sumCos := 0.0
		for i := 0; i < samples; i++ {
			dir := SampleCosineHemisphere(normal, sampler.Get2D())
			if math.Abs(dir.Length()-1) > 1e-9 {
				t.Fatalf("Direction %v is not unit length", dir)
			}
			cos := dir.Dot(normal)
			if cos < -1e-9 {
				t.Fatalf("Direction %v is below the hemisphere of %v", dir, normal)
			}
			sumCos += cos
		}

		// E[cos] under pdf cos/pi is 2/3
		mean := sumCos / samples
		if math.Abs(mean-2.0/3.0) > 0.01 {
			t.Errorf("Normal %v: mean cosine %f, expected ~0.667", normal, mean)
		}
	}
}

func TestOrthonormalBasis(t *testing.T) {
	for _, normal := range []Vec3{NewVec3(0, 0, 1), NewVec3(0, 1, 0), NewVec3(-1, 2, 3).Normalize()} {
		tangent, bitangent := OrthonormalBasis(normal)
		if math.Abs(tangent.Dot(normal)) > 1e-9 || math.Abs(bitangent.Dot(normal)) > 1e-9 || math.Abs(tangent.Dot(bitangent)) > 1e-9 {
			t.Errorf("Basis for %v is not orthogonal: %v %v", normal, tangent, bitangent)
		}
		if math.Abs(tangent.Length()-1) > 1e-9 || math.Abs(bitangent.Length()-1) > 1e-9 {
			t.Errorf("Basis for %v is not unit length", normal)
		}
	}
}

func TestSampleOnUnitSphere(t *testing.T) {
	sampler := NewSeededSampler(42)
	const samples = 20000
	var mean Vec3
	for i := 0; i < samples; i++ {
		p := SampleOnUnitSphere(sampler.Get2D())
		if math.Abs(p.Length()-1) > 1e-9 {
			t.Fatalf("Point %v is not on the unit sphere", p)
		}
		mean = mean.Add(p)
	}

	mean = mean.Multiply(1.0 / samples)
	if mean.Length() > 0.03 {
		t.Errorf("Sphere samples are biased, mean %v", mean)
	}
}

func TestSampleUniformTriangle(t *testing.T) {
	a := NewVec3(0, 0, 0)
	b := NewVec3(1, 0, 0)
	c := NewVec3(0, 1, 0)
	sampler := NewSeededSampler(7)

	const samples = 20000
	var centroid Vec3
	for i := 0; i < samples; i++ {
		p := SampleUniformTriangle(a, b, c, sampler.Get2D())
		if p.X < -1e-12 || p.Y < -1e-12 || p.X+p.Y > 1+1e-12 || p.Z != 0 {
			t.Fatalf("Point %v outside triangle", p)
		}
		centroid = centroid.Add(p)
	}

	centroid = centroid.Multiply(1.0 / samples)
	expected := NewVec3(1.0/3.0, 1.0/3.0, 0)
	if centroid.Subtract(expected).Length() > 0.01 {
		t.Errorf("Expected centroid %v, got %v", expected, centroid)
	}
}
