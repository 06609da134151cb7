package geometry

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// Primitive is anything the scene BVH can hold: it can be bounded,
// intersected and, when it emits, sampled as an area light.
type Primitive interface {
	// Bounds returns the axis-aligned box enclosing the primitive
	Bounds() core.Bounds3

	// Area returns the total surface area
	Area() float64

	// Intersect returns the nearest hit inside the ray's [TMin, TMax], or NoHit()
	Intersect(ray core.Ray) Intersection

	// HasEmit reports whether the primitive's material emits light
	HasEmit() bool

	// Sample picks a point uniformly on the surface. The returned pdf is
	// with respect to surface area.
	Sample(sampler core.Sampler) (Intersection, float64)

	// Material returns the surface material
	Material() material.Material
}

// Intersection describes a ray hit, or its absence
type Intersection struct {
	Happened  bool              // Whether anything was hit
	Distance  float64           // Ray parameter of the hit, +Inf when nothing was hit
	Coords    core.Vec3         // Hit point
	Normal    core.Vec3         // Unit normal, facing the incoming ray for ray hits
	FrontFace bool              // Whether the ray hit the side the geometric normal points to
	Material  material.Material // Material at the hit point
	Emit      core.Vec3         // Emitted radiance at the hit point
	Primitive Primitive         // The primitive that was hit
}

// NoHit returns the intersection used for misses
func NoHit() Intersection {
	return Intersection{Distance: math.Inf(1)}
}

// SetFaceNormal sets the normal so it opposes the ray direction and records which side was hit
func (h *Intersection) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// Closer returns whichever of the two intersections is nearer along the ray
func Closer(a, b Intersection) Intersection {
	if b.Distance < a.Distance {
		return b
	}
	return a
}
