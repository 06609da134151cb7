package integrator

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/scene"
)

const (
	// DefaultRussianRoulette is the path survival probability per bounce
	DefaultRussianRoulette = 0.8
	// DefaultShadowEpsilon is the slack, in scene units, before a shadow ray reaches the light
	DefaultShadowEpsilon = 0.01
	// DefaultRayEpsilon is the minimum hit distance of rays spawned from a surface
	DefaultRayEpsilon = 1e-3

	minPDF = 1e-8
)

// Config controls the path tracer
type Config struct {
	RussianRoulette float64 // Continuation probability in [0,1]; 0 disables indirect light
	MaxDepth        int     // Maximum number of indirect bounces, 0 for unlimited
	ShadowEpsilon   float64
	RayEpsilon      float64
}

// DefaultConfig returns the standard path tracer settings
func DefaultConfig() Config {
	return Config{
		RussianRoulette: DefaultRussianRoulette,
		ShadowEpsilon:   DefaultShadowEpsilon,
		RayEpsilon:      DefaultRayEpsilon,
	}
}

// PathTracingIntegrator implements unidirectional path tracing with explicit
// area light sampling at every diffuse vertex
type PathTracingIntegrator struct {
	config Config
}

// NewPathTracingIntegrator creates a new path tracing integrator. Zero epsilons
// are replaced with the defaults.
func NewPathTracingIntegrator(config Config) *PathTracingIntegrator {
	if config.ShadowEpsilon <= 0 {
		config.ShadowEpsilon = DefaultShadowEpsilon
	}
	if config.RayEpsilon <= 0 {
		config.RayEpsilon = DefaultRayEpsilon
	}
	return &PathTracingIntegrator{config: config}
}

// Config returns the integrator settings
func (pt *PathTracingIntegrator) Config() Config {
	return pt.config
}

// RayColor implements Integrator
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	return pt.CastRay(ray, s, sampler, 0)
}

// CastRay returns the radiance arriving along ray. depth counts the bounces
// already taken by the path.
func (pt *PathTracingIntegrator) CastRay(ray core.Ray, s *scene.Scene, sampler core.Sampler, depth int) core.Vec3 {
	hit := s.Intersect(ray)
	if !hit.Happened {
		return s.Background
	}

	// Lights are only seen directly; indirect paths skip them
	if hit.Material.HasEmission() {
		return hit.Emit
	}

	wo := ray.Direction.Normalize()
	return pt.shade(s, hit, wo, sampler, depth)
}

// shade returns the light leaving a non-emissive hit towards -wo
func (pt *PathTracingIntegrator) shade(s *scene.Scene, hit geometry.Intersection, wo core.Vec3, sampler core.Sampler, depth int) core.Vec3 {
	direct := core.Vec3{}
	if light, pdf, ok := s.SampleLight(sampler); ok {
		direct = pt.calculateDirectLighting(s, hit, wo, light, pdf)
	}

	indirect := pt.calculateIndirectLighting(s, hit, wo, sampler, depth)
	return direct.Add(indirect)
}

// calculateDirectLighting returns the contribution of one light sample at hit,
// zero if the light is occluded, faces away, or was sampled with ~zero density
func (pt *PathTracingIntegrator) calculateDirectLighting(s *scene.Scene, hit geometry.Intersection, wo core.Vec3, light geometry.Intersection, pdf float64) core.Vec3 {
	if pdf <= minPDF {
		return core.Vec3{}
	}

	toLight := light.Coords.Subtract(hit.Coords)
	distSquared := toLight.LengthSquared()
	if distSquared <= 0 {
		return core.Vec3{}
	}
	dist := math.Sqrt(distSquared)
	ws := toLight.Multiply(1.0 / dist)

	cosSurface := hit.Normal.Dot(ws)
	cosLight := light.Normal.Dot(ws.Negate())
	if cosSurface <= 0 || cosLight <= 0 {
		return core.Vec3{}
	}

	// Visible unless something lies closer than the light (minus slack)
	shadowRay := core.NewRayWithRange(hit.Coords, ws, pt.config.RayEpsilon, dist-pt.config.ShadowEpsilon)
	if s.Intersect(shadowRay).Happened {
		return core.Vec3{}
	}

	brdf := hit.Material.Eval(wo, ws, hit.Normal)
	return light.Emit.MultiplyVec(brdf).Multiply(cosSurface * cosLight / distSquared / pdf)
}

// calculateIndirectLighting continues the path with probability RussianRoulette
// along a BSDF-sampled direction. Bounces that land on a light contribute
// nothing since direct lighting already accounts for them.
func (pt *PathTracingIntegrator) calculateIndirectLighting(s *scene.Scene, hit geometry.Intersection, wo core.Vec3, sampler core.Sampler, depth int) core.Vec3 {
	if !pt.continuePath(sampler, depth) {
		return core.Vec3{}
	}

	mat := hit.Material
	wi := mat.Sample(wo, hit.Normal, sampler.Get2D()).Normalize()
	pdf := mat.PDF(wo, wi, hit.Normal)
	if pdf <= minPDF {
		return core.Vec3{}
	}

	cosine := hit.Normal.Dot(wi)
	if cosine <= 0 {
		return core.Vec3{}
	}

	bounce := core.NewRayWithRange(hit.Coords, wi, pt.config.RayEpsilon, math.Inf(1))
	next := s.Intersect(bounce)

	var incoming core.Vec3
	switch {
	case !next.Happened:
		incoming = s.Background
	case next.Material.HasEmission():
		return core.Vec3{}
	default:
		incoming = pt.shade(s, next, wi, sampler, depth+1)
	}

	brdf := mat.Eval(wo, wi, hit.Normal)
	return incoming.MultiplyVec(brdf).Multiply(cosine / pdf / pt.config.RussianRoulette)
}

// continuePath applies Russian roulette and the optional depth cap
func (pt *PathTracingIntegrator) continuePath(sampler core.Sampler, depth int) bool {
	if pt.config.MaxDepth > 0 && depth >= pt.config.MaxDepth {
		return false
	}
	if pt.config.RussianRoulette <= 0 {
		return false
	}
	return sampler.Get1D() < pt.config.RussianRoulette
}
