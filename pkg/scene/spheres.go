package scene

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// NewSpheresScene creates diffuse spheres on a floor in front of a back wall,
// lit by a ceiling quad light and a small emissive sphere
func NewSpheresScene() *Scene {
	s := New("spheres", CameraConfig{
		Eye:    core.NewVec3(278, 273, -800),
		FOV:    40,
		Width:  640,
		Height: 480,
	})

	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	blue := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	red := material.NewLambertian(core.NewVec3(0.65, 0.25, 0.2))
	yellow := material.NewLambertian(core.NewVec3(0.48, 0.48, 0.0))

	// Floor and back wall
	s.Add(quadMesh(white,
		quad(v(-400, 0, -400), v(-400, 0, 800), v(1000, 0, 800), v(1000, 0, -400)),
		quad(v(-400, 0, 600), v(-400, 700, 600), v(1000, 700, 600), v(1000, 0, 600)),
	))

	s.Add(
		geometry.NewSphere(core.NewVec3(140, 90, 300), 90, blue),
		geometry.NewSphere(core.NewVec3(300, 120, 380), 120, red),
		geometry.NewSphere(core.NewVec3(440, 60, 220), 60, yellow),
		geometry.NewSphere(core.NewVec3(230, 30, 140), 30, white),
	)

	// Ceiling light, wound so its normal points down
	ceiling := material.NewEmissive(core.NewVec3(0.65, 0.65, 0.65), core.NewVec3(17, 15, 12))
	s.Add(quadMesh(ceiling,
		quad(v(180, 600, 200), v(380, 600, 200), v(380, 600, 400), v(180, 600, 400)),
	))

	// Small warm fill light
	fill := material.NewEmissive(core.NewVec3(0.65, 0.65, 0.65), core.NewVec3(30, 20, 10))
	s.Add(geometry.NewSphere(core.NewVec3(520, 300, 100), 20, fill))

	return s
}

// NewEmptyScene creates a scene without any primitives; every ray escapes
func NewEmptyScene() *Scene {
	return New("empty", CameraConfig{
		Eye:    core.NewVec3(278, 273, -800),
		FOV:    40,
		Width:  256,
		Height: 256,
	})
}
