package scene

import (
	"fmt"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// Region of the Cornell box a loaded model is fitted into
var meshRegion = core.NewBounds3(core.NewVec3(128, 0, 130), core.NewVec3(428, 330, 430))

// NewMeshScene places a triangle model inside the Cornell box, in place of
// the two blocks. The model is uniformly scaled to fit the free floor area
// and stands on the floor.
func NewMeshScene(name string, vertices []core.Vec3, faces []int) (*Scene, error) {
	fitted, err := FitVertices(vertices, meshRegion)
	if err != nil {
		return nil, err
	}

	s := New(name, cornellCamera)
	addCornellShell(s)

	model := material.NewLambertian(core.NewVec3(0.725, 0.71, 0.68))
	mesh, err := geometry.NewTriangleMesh(fitted, faces, model)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", name, err)
	}
	s.Add(mesh)

	logger.Infof("scene %q: model with %d triangles fitted into %v", name, mesh.TriangleCount(), meshRegion)
	return s, nil
}

// FitVertices uniformly scales and translates vertices so their bounds fit
// inside region, centred horizontally and resting on region.Min.Y
func FitVertices(vertices []core.Vec3, region core.Bounds3) ([]core.Vec3, error) {
	if len(vertices) == 0 {
		return nil, fmt.Errorf("scene: model has no vertices")
	}

	bounds := core.NewBoundsFromPoints(vertices...)
	size := bounds.Diagonal()
	target := region.Diagonal()

	scale := 0.0
	for axis := 0; axis < 3; axis++ {
		if size.Axis(axis) <= 0 {
			continue
		}
		s := target.Axis(axis) / size.Axis(axis)
		if scale == 0 || s < scale {
			scale = s
		}
	}
	if scale == 0 {
		return nil, fmt.Errorf("scene: model is a single point")
	}

	center := bounds.Centroid()
	regionCenter := region.Centroid()
	offset := core.NewVec3(
		regionCenter.X-center.X*scale,
		region.Min.Y-bounds.Min.Y*scale,
		regionCenter.Z-center.Z*scale,
	)

	fitted := make([]core.Vec3, len(vertices))
	for i, p := range vertices {
		fitted[i] = p.Multiply(scale).Add(offset)
	}
	return fitted, nil
}
