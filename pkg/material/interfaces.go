package material

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// Material describes how a surface reflects and emits light.
//
// Direction conventions: wo is the direction of the ray arriving at the
// surface, wi is the direction light leaves along (towards the next vertex),
// and n is the unit surface normal facing the arriving ray.
type Material interface {
	// HasEmission reports whether the surface is a light source
	HasEmission() bool

	// Emission returns the emitted radiance (zero for non-emitters)
	Emission() core.Vec3

	// Eval evaluates the BSDF for the pair of directions
	Eval(wo, wi, n core.Vec3) core.Vec3

	// Sample draws a unit direction wi from u in [0,1)^2
	Sample(wo, n core.Vec3, u core.Vec2) core.Vec3

	// PDF returns the solid angle density with which Sample produces wi
	PDF(wo, wi, n core.Vec3) float64
}
