package geometry

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
	mat    material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
		mat:    mat,
	}
}

// Intersect tests if a ray intersects with the sphere
func (s *Sphere) Intersect(ray core.Ray) Intersection {
	// Vector from ray origin to sphere center
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || a == 0 {
		return NoHit()
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer root first, then the farther one
	root := (-halfB - sqrtD) / a
	if !ray.InRange(root) {
		root = (-halfB + sqrtD) / a
		if !ray.InRange(root) {
			return NoHit()
		}
	}

	hit := Intersection{
		Happened:  true,
		Distance:  root,
		Coords:    ray.At(root),
		Material:  s.mat,
		Emit:      s.mat.Emission(),
		Primitive: s,
	}

	outwardNormal := hit.Coords.Subtract(s.Center).Multiply(1.0 / s.Radius)
	hit.SetFaceNormal(ray, outwardNormal)

	return hit
}

// Bounds returns the axis-aligned bounding box for this sphere
func (s *Sphere) Bounds() core.Bounds3 {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewBounds3(s.Center.Subtract(radius), s.Center.Add(radius))
}

// Area returns 4πr²
func (s *Sphere) Area() float64 {
	return 4 * math.Pi * s.Radius * s.Radius
}

// HasEmit reports whether the sphere is a light source
func (s *Sphere) HasEmit() bool {
	return s.mat.HasEmission()
}

// Material returns the sphere's material
func (s *Sphere) Material() material.Material {
	return s.mat
}

// Sample picks a uniformly distributed point on the sphere
func (s *Sphere) Sample(sampler core.Sampler) (Intersection, float64) {
	dir := core.SampleOnUnitSphere(sampler.Get2D())
	hit := Intersection{
		Happened:  true,
		Coords:    s.Center.Add(dir.Multiply(s.Radius)),
		Normal:    dir,
		FrontFace: true,
		Material:  s.mat,
		Emit:      s.mat.Emission(),
		Primitive: s,
	}
	return hit, 1.0 / s.Area()
}
