package scene

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// Default viewpoint of the measured Cornell box data
var cornellCamera = CameraConfig{
	Eye:    core.NewVec3(278, 273, -800),
	FOV:    40,
	Width:  784,
	Height: 784,
}

// NewCornellScene creates the classic Cornell box from its measured geometry,
// with the two blocks and a single area light under the ceiling
func NewCornellScene() *Scene {
	s := New("cornell", cornellCamera)
	white := addCornellShell(s)

	// Short block
	s.Add(quadMesh(white,
		quad(v(130, 165, 65), v(82, 165, 225), v(240, 165, 272), v(290, 165, 114)),
		quad(v(290, 0, 114), v(290, 165, 114), v(240, 165, 272), v(240, 0, 272)),
		quad(v(130, 0, 65), v(130, 165, 65), v(290, 165, 114), v(290, 0, 114)),
		quad(v(82, 0, 225), v(82, 165, 225), v(130, 165, 65), v(130, 0, 65)),
		quad(v(240, 0, 272), v(240, 165, 272), v(82, 165, 225), v(82, 0, 225)),
	))

	// Tall block
	s.Add(quadMesh(white,
		quad(v(423, 330, 247), v(265, 330, 296), v(314, 330, 456), v(472, 330, 406)),
		quad(v(423, 0, 247), v(423, 330, 247), v(472, 330, 406), v(472, 0, 406)),
		quad(v(472, 0, 406), v(472, 330, 406), v(314, 330, 456), v(314, 0, 456)),
		quad(v(314, 0, 456), v(314, 330, 456), v(265, 330, 296), v(265, 0, 296)),
		quad(v(265, 0, 296), v(265, 330, 296), v(423, 330, 247), v(423, 0, 247)),
	))

	return s
}

// addCornellShell adds the walls and the ceiling light of the Cornell box
// and returns the white wall material
func addCornellShell(s *Scene) material.Material {
	red := material.NewLambertian(core.NewVec3(0.63, 0.065, 0.05))
	green := material.NewLambertian(core.NewVec3(0.14, 0.45, 0.091))
	white := material.NewLambertian(core.NewVec3(0.725, 0.71, 0.68))

	// Blend of three measured spectral peaks of the original light
	emission := core.NewVec3(0.747+0.058, 0.747+0.258, 0.747).Multiply(8.0).
		Add(core.NewVec3(0.740+0.287, 0.740+0.160, 0.740).Multiply(15.6)).
		Add(core.NewVec3(0.737+0.642, 0.737+0.159, 0.737).Multiply(18.4))
	light := material.NewEmissive(core.NewVec3(0.65, 0.65, 0.65), emission)

	// Floor, ceiling and back wall
	s.Add(quadMesh(white,
		quad(v(552.8, 0, 0), v(0, 0, 0), v(0, 0, 559.2), v(549.6, 0, 559.2)),
		quad(v(556, 548.8, 0), v(556, 548.8, 559.2), v(0, 548.8, 559.2), v(0, 548.8, 0)),
		quad(v(549.6, 0, 559.2), v(0, 0, 559.2), v(0, 548.8, 559.2), v(556, 548.8, 559.2)),
	))

	// Red wall on the camera's left (+X), green wall on the right
	s.Add(quadMesh(red,
		quad(v(552.8, 0, 0), v(549.6, 0, 559.2), v(556, 548.8, 559.2), v(556, 548.8, 0)),
	))
	s.Add(quadMesh(green,
		quad(v(0, 0, 559.2), v(0, 0, 0), v(0, 548.8, 0), v(0, 548.8, 559.2)),
	))

	// Light just below the ceiling, facing down
	s.Add(quadMesh(light,
		quad(v(343, 548.7, 227), v(343, 548.7, 332), v(213, 548.7, 332), v(213, 548.7, 227)),
	))

	return white
}

func v(x, y, z float64) core.Vec3 {
	return core.NewVec3(x, y, z)
}

func quad(v0, v1, v2, v3 core.Vec3) [4]core.Vec3 {
	return [4]core.Vec3{v0, v1, v2, v3}
}

// quadMesh builds one mesh from planar quads, each split into (v0,v1,v2) and (v0,v2,v3)
func quadMesh(mat material.Material, quads ...[4]core.Vec3) *geometry.TriangleMesh {
	vertices := make([]core.Vec3, 0, 4*len(quads))
	faces := make([]int, 0, 6*len(quads))
	for i, q := range quads {
		vertices = append(vertices, q[:]...)
		base := 4 * i
		faces = append(faces, base, base+1, base+2, base, base+2, base+3)
	}

	mesh, err := geometry.NewTriangleMesh(vertices, faces, mat)
	if err != nil {
		// Indices are generated above and always in range
		panic(err)
	}
	return mesh
}
