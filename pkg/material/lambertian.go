package material

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo core.Vec3 // Diffuse reflectance, each component in [0,1]
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// HasEmission implements Material
func (l *Lambertian) HasEmission() bool {
	return false
}

// Emission implements Material
func (l *Lambertian) Emission() core.Vec3 {
	return core.Vec3{}
}

// Eval returns albedo/π when wi leaves on the normal's side, zero otherwise
func (l *Lambertian) Eval(wo, wi, n core.Vec3) core.Vec3 {
	if wi.Dot(n) <= 0 {
		return core.Vec3{}
	}
	return l.Albedo.Multiply(1.0 / math.Pi)
}

// Sample generates a cosine-weighted direction in the hemisphere around n
func (l *Lambertian) Sample(wo, n core.Vec3, u core.Vec2) core.Vec3 {
	return core.SampleCosineHemisphere(n, u).Normalize()
}

// PDF returns cos(θ)/π for directions above the surface
func (l *Lambertian) PDF(wo, wi, n core.Vec3) float64 {
	cosTheta := wi.Dot(n)
	if cosTheta <= 0 {
		return 0.0
	}
	return cosTheta / math.Pi
}
