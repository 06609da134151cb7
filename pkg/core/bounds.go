package core

import "math"

// Bounds3 represents an axis-aligned bounding box
type Bounds3 struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// EmptyBounds returns a box that contains nothing; its union with any box is that box
func EmptyBounds() Bounds3 {
	inf := math.Inf(1)
	return Bounds3{
		Min: Vec3{X: inf, Y: inf, Z: inf},
		Max: Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

// NewBounds3 creates a box spanning two arbitrary corner points
func NewBounds3(a, b Vec3) Bounds3 {
	return Bounds3{Min: MinVec(a, b), Max: MaxVec(a, b)}
}

// NewBoundsFromPoints creates a box that bounds all given points
func NewBoundsFromPoints(points ...Vec3) Bounds3 {
	bounds := EmptyBounds()
	for _, point := range points {
		bounds = bounds.UnionPoint(point)
	}
	return bounds
}

// IsEmpty reports whether the box contains no point at all
func (b Bounds3) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Union returns a box bounding both this box and another
func (b Bounds3) Union(other Bounds3) Bounds3 {
	return Bounds3{Min: MinVec(b.Min, other.Min), Max: MaxVec(b.Max, other.Max)}
}

// UnionPoint returns a box bounding this box and the point
func (b Bounds3) UnionPoint(point Vec3) Bounds3 {
	return Bounds3{Min: MinVec(b.Min, point), Max: MaxVec(b.Max, point)}
}

// Centroid returns the center point of the box
func (b Bounds3) Centroid() Vec3 {
	return b.Min.Add(b.Max).Multiply(0.5)
}

// Diagonal returns the extent of the box along each axis
func (b Bounds3) Diagonal() Vec3 {
	return b.Max.Subtract(b.Min)
}

// SurfaceArea returns the surface area of the box, 0 for an empty box
func (b Bounds3) SurfaceArea() float64 {
	if b.IsEmpty() {
		return 0
	}
	d := b.Diagonal()
	return 2.0 * (d.X*d.Y + d.Y*d.Z + d.Z*d.X)
}

// MaxExtent returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (b Bounds3) MaxExtent() int {
	d := b.Diagonal()
	if d.X > d.Y && d.X > d.Z {
		return 0
	}
	if d.Y > d.Z {
		return 1
	}
	return 2
}

// IntersectP tests whether the ray's valid range overlaps the box (slab method).
// The ray's precomputed inverse direction is used instead of dividing per axis.
func (b Bounds3) IntersectP(ray Ray) bool {
	if b.IsEmpty() {
		return false
	}

	tMin, tMax := ray.TMin, ray.TMax
	for axis := 0; axis < 3; axis++ {
		origin := ray.Origin.Axis(axis)
		inv := ray.InvDirection.Axis(axis)
		lo, hi := b.Min.Axis(axis), b.Max.Axis(axis)

		// Ray parallel to this slab: inside or never
		if math.IsInf(inv, 0) {
			if origin < lo || origin > hi {
				return false
			}
			continue
		}

		t1 := (lo - origin) * inv
		t2 := (hi - origin) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}

	return true
}
