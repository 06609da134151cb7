package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/log"
)

var (
	// ErrUnknownScene is returned by Create for names not in the registry
	ErrUnknownScene = errors.New("scene: unknown scene")
	// ErrNilPrimitive is returned by Preprocess when a nil primitive was added
	ErrNilPrimitive = errors.New("scene: nil primitive")
)

var logger = log.New("scene")

// CameraConfig holds the pinhole camera parameters a scene is meant to be viewed with
type CameraConfig struct {
	Eye    core.Vec3 // Camera position; the camera looks down +Z
	FOV    float64   // Vertical field of view in degrees
	Width  int       // Default image width
	Height int       // Default image height
}

// Scene contains all the elements needed for rendering
type Scene struct {
	Name       string
	Camera     CameraConfig
	Background core.Vec3             // Radiance returned by rays that escape
	Primitives []geometry.Primitive // Objects in the scene

	bvh          *geometry.BVH
	emissive     []geometry.Primitive
	emissiveArea float64
}

// New creates an empty scene
func New(name string, camera CameraConfig) *Scene {
	return &Scene{
		Name:       name,
		Camera:     camera,
		Primitives: make([]geometry.Primitive, 0),
	}
}

// Add appends primitives to the scene. Call Preprocess afterwards.
func (s *Scene) Add(prims ...geometry.Primitive) {
	s.Primitives = append(s.Primitives, prims...)
}

// Preprocess builds the acceleration structure and gathers the emissive
// primitives. The scene is read-only afterwards.
func (s *Scene) Preprocess(maxLeafSize int, split geometry.SplitMethod) error {
	for i, p := range s.Primitives {
		if p == nil {
			return fmt.Errorf("%w at index %d", ErrNilPrimitive, i)
		}
	}

	s.bvh = geometry.NewBVH(s.Primitives, maxLeafSize, split)

	s.emissive = s.emissive[:0]
	s.emissiveArea = 0
	for _, p := range s.Primitives {
		if p.HasEmit() {
			s.emissive = append(s.emissive, p)
			s.emissiveArea += p.Area()
		}
	}

	stats := s.bvh.Stats()
	logger.Infof(
		"scene %q: %d primitives (%d triangles), %d lights with area %.2f",
		s.Name, len(s.Primitives), s.TriangleCount(), len(s.emissive), s.emissiveArea,
	)
	logger.Debugf(
		"BVH (%s): %d nodes, %d leaves, depth %d, built in %s",
		stats.Split, stats.Nodes, stats.Leaves, stats.MaxDepth, stats.BuildTime,
	)

	if len(s.emissive) == 0 {
		logger.Warningf("scene %q has no emissive primitives; only directly visible emitters will contribute", s.Name)
	}

	return nil
}

// Intersect returns the nearest intersection of ray with the scene
func (s *Scene) Intersect(ray core.Ray) geometry.Intersection {
	if s.bvh == nil {
		return geometry.NoHit()
	}
	return s.bvh.Intersect(ray)
}

// SampleLight picks an emissive primitive with probability proportional to its
// area and samples a point on it. The returned pdf is with respect to area
// over all lights (selection probability times the primitive's own pdf), so
// for uniformly sampled primitives it is 1/EmissiveArea().
// ok is false when the scene has no light to sample.
func (s *Scene) SampleLight(sampler core.Sampler) (geometry.Intersection, float64, bool) {
	if len(s.emissive) == 0 || s.emissiveArea <= 0 {
		return geometry.NoHit(), 0, false
	}

	p := sampler.Get1D() * s.emissiveArea
	chosen := s.emissive[len(s.emissive)-1]
	cumulative := 0.0
	for _, light := range s.emissive {
		cumulative += light.Area()
		if p < cumulative {
			chosen = light
			break
		}
	}

	hit, pdf := chosen.Sample(sampler)
	return hit, pdf * chosen.Area() / s.emissiveArea, true
}

// EmissiveArea returns the summed area of all emissive primitives
func (s *Scene) EmissiveArea() float64 {
	return s.emissiveArea
}

// Lights returns the emissive primitives gathered by Preprocess
func (s *Scene) Lights() []geometry.Primitive {
	return s.emissive
}

// BVH returns the acceleration structure, nil before Preprocess
func (s *Scene) BVH() *geometry.BVH {
	return s.bvh
}

// TriangleCount returns the number of primitives with meshes expanded to their triangles
func (s *Scene) TriangleCount() int {
	count := 0
	for _, p := range s.Primitives {
		switch obj := p.(type) {
		case *geometry.TriangleMesh:
			count += obj.TriangleCount()
		default:
			count++
		}
	}
	return count
}
