package geometry

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3 // The three vertices
	mat        material.Material
	edge1      core.Vec3    // V1 - V0
	edge2      core.Vec3    // V2 - V0
	normal     core.Vec3    // Cached geometric normal, (V1-V0)×(V2-V0) normalized
	area       float64      // Cached area
	bounds     core.Bounds3 // Cached bounding box
}

// NewTriangle creates a new triangle from three vertices. The geometric
// normal follows the counter-clockwise winding of v0, v1, v2.
func NewTriangle(v0, v1, v2 core.Vec3, mat material.Material) *Triangle {
	t := &Triangle{
		V0:    v0,
		V1:    v1,
		V2:    v2,
		mat:   mat,
		edge1: v1.Subtract(v0),
		edge2: v2.Subtract(v0),
	}

	cross := t.edge1.Cross(t.edge2)
	t.area = 0.5 * cross.Length()
	t.normal = cross.Normalize()
	t.bounds = core.NewBoundsFromPoints(v0, v1, v2)

	return t
}

// Intersect tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Intersect(ray core.Ray) Intersection {
	const epsilon = 1e-8

	h := ray.Direction.Cross(t.edge2)
	a := t.edge1.Dot(h)

	// Ray lies in the plane of the triangle (or the triangle is degenerate)
	if a > -epsilon && a < epsilon {
		return NoHit()
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return NoHit()
	}

	q := s.Cross(t.edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return NoHit()
	}

	tParam := f * t.edge2.Dot(q)
	if !ray.InRange(tParam) {
		return NoHit()
	}

	hit := Intersection{
		Happened:  true,
		Distance:  tParam,
		Coords:    ray.At(tParam),
		Material:  t.mat,
		Emit:      t.mat.Emission(),
		Primitive: t,
	}
	hit.SetFaceNormal(ray, t.normal)

	return hit
}

// Bounds returns the axis-aligned bounding box for this triangle
func (t *Triangle) Bounds() core.Bounds3 {
	return t.bounds
}

// Area returns the triangle's surface area
func (t *Triangle) Area() float64 {
	return t.area
}

// HasEmit reports whether the triangle is a light source
func (t *Triangle) HasEmit() bool {
	return t.mat.HasEmission()
}

// Material returns the triangle's material
func (t *Triangle) Material() material.Material {
	return t.mat
}

// Normal returns the triangle's geometric normal
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// Sample picks a uniformly distributed point on the triangle; the normal is the geometric one
func (t *Triangle) Sample(sampler core.Sampler) (Intersection, float64) {
	hit := Intersection{
		Happened:  true,
		Coords:    core.SampleUniformTriangle(t.V0, t.V1, t.V2, sampler.Get2D()),
		Normal:    t.normal,
		FrontFace: true,
		Material:  t.mat,
		Emit:      t.mat.Emission(),
		Primitive: t,
	}
	if t.area <= 0 {
		return hit, 0
	}
	return hit, 1.0 / t.area
}
