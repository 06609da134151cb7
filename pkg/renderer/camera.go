package renderer

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/scene"
)

// Camera is a pinhole camera at a fixed eye position looking down +Z.
// Image x grows towards -X in world space.
type Camera struct {
	eye    core.Vec3
	width  int
	height int
	scale  float64 // tan(fov/2)
	aspect float64
}

// NewCamera creates a camera for an image of the given size
func NewCamera(config scene.CameraConfig, width, height int) *Camera {
	return &Camera{
		eye:    config.Eye,
		width:  width,
		height: height,
		scale:  math.Tan(config.FOV * 0.5 * math.Pi / 180.0),
		aspect: float64(width) / float64(height),
	}
}

// GetRay returns the primary ray through pixel (i, j). offset is the position
// inside the pixel in [0,1)^2; (0.5, 0.5) is the pixel centre.
func (c *Camera) GetRay(i, j int, offset core.Vec2) core.Ray {
	x := (2*(float64(i)+offset.X)/float64(c.width) - 1) * c.aspect * c.scale
	y := (1 - 2*(float64(j)+offset.Y)/float64(c.height)) * c.scale

	dir := core.NewVec3(-x, y, 1).Normalize()
	return core.NewRay(c.eye, dir)
}
