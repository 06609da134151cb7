package material

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// Emissive represents a light-emitting surface that also reflects diffusely
type Emissive struct {
	Lambertian
	Emit core.Vec3 // Emitted radiance
}

// NewEmissive creates a new emissive material with the given diffuse albedo
func NewEmissive(albedo, emission core.Vec3) *Emissive {
	return &Emissive{Lambertian: Lambertian{Albedo: albedo}, Emit: emission}
}

// HasEmission reports true unless the emission is black
func (e *Emissive) HasEmission() bool {
	return !e.Emit.IsZero()
}

// Emission returns the emitted radiance
func (e *Emissive) Emission() core.Vec3 {
	return e.Emit
}
