package core

import "math"

// Ray represents a ray with an origin, a direction and a valid parametric range
type Ray struct {
	Origin       Vec3
	Direction    Vec3
	InvDirection Vec3    // Component-wise 1/Direction, precomputed for slab tests
	TMin         float64 // Closest accepted hit distance
	TMax         float64 // Farthest accepted hit distance
}

// NewRay creates a new ray accepting hits over (0, +Inf)
func NewRay(origin, direction Vec3) Ray {
	return NewRayWithRange(origin, direction, 0, math.Inf(1))
}

// NewRayWithRange creates a new ray accepting hits over [tMin, tMax]
func NewRayWithRange(origin, direction Vec3, tMin, tMax float64) Ray {
	return Ray{
		Origin:       origin,
		Direction:    direction,
		InvDirection: Vec3{X: 1.0 / direction.X, Y: 1.0 / direction.Y, Z: 1.0 / direction.Z},
		TMin:         tMin,
		TMax:         tMax,
	}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// InRange reports whether t lies inside the ray's valid parametric range
func (r Ray) InRange(t float64) bool {
	return t >= r.TMin && t <= r.TMax
}
