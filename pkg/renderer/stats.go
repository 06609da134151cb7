package renderer

import (
	"time"

	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
)

// BandStats describes the work done by one band worker
type BandStats struct {
	Band
	Rays     int64         // Primary rays traced
	Duration time.Duration // Wall time of the worker
}

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width           int
	Height          int
	SamplesPerPixel int
	Workers         int
	PrimaryRays     int64
	RenderTime      time.Duration
	Bands           []BandStats
	BVH             geometry.BVHStats
}

// RaysPerSecond returns the primary ray throughput of the render
func (s RenderStats) RaysPerSecond() float64 {
	if s.RenderTime <= 0 {
		return 0
	}
	return float64(s.PrimaryRays) / s.RenderTime.Seconds()
}

// Share returns the fraction of the frame's rows the band rendered
func (s RenderStats) Share(band BandStats) float64 {
	if s.Height == 0 {
		return 0
	}
	return float64(band.Rows()) / float64(s.Height)
}
