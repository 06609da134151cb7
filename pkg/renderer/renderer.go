package renderer

import (
	"fmt"
	"runtime"
	"time"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/integrator"
	"github.com/df07/go-bvh-pathtracer/pkg/log"
	"github.com/df07/go-bvh-pathtracer/pkg/scene"
)

// Options control a single render
type Options struct {
	Width           int // 0 uses the scene's default
	Height          int // 0 uses the scene's default
	SamplesPerPixel int
	Workers         int   // Number of row bands; 0 uses runtime.NumCPU()
	Seed            int64 // Band i samples with a generator seeded Seed+i
	Jitter          bool  // Random sub-pixel positions instead of pixel centres
	Progress        ProgressFunc
	Logger          log.Logger
}

// Renderer renders a preprocessed scene into a framebuffer
type Renderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	camera     *Camera
	options    Options
	logger     log.Logger
}

// NewRenderer validates the options against the scene and prepares a render
func NewRenderer(s *scene.Scene, integ integrator.Integrator, options Options) (*Renderer, error) {
	if s == nil {
		return nil, ErrNoScene
	}
	if s.BVH() == nil {
		return nil, fmt.Errorf("%w: scene %q was not preprocessed", ErrNoScene, s.Name)
	}
	if integ == nil {
		return nil, fmt.Errorf("%w: no integrator", ErrInvalidConfig)
	}

	if options.Width == 0 {
		options.Width = s.Camera.Width
	}
	if options.Height == 0 {
		options.Height = s.Camera.Height
	}
	if options.Width <= 0 || options.Height <= 0 {
		return nil, fmt.Errorf("%w: image size %dx%d", ErrInvalidConfig, options.Width, options.Height)
	}
	if options.SamplesPerPixel < 1 {
		return nil, fmt.Errorf("%w: samples per pixel must be at least 1, got %d", ErrInvalidConfig, options.SamplesPerPixel)
	}
	if options.Workers <= 0 {
		options.Workers = runtime.NumCPU()
	}

	logger := options.Logger
	if logger == nil {
		logger = log.New("renderer")
	}

	return &Renderer{
		scene:      s,
		integrator: integ,
		camera:     NewCamera(s.Camera, options.Width, options.Height),
		options:    options,
		logger:     logger,
	}, nil
}

// Options returns the resolved render options
func (r *Renderer) Options() Options {
	return r.options
}

// Render traces the whole frame. It blocks until every band has finished and
// returns ErrWorkerFailed, without a frame, if any band failed.
func (r *Renderer) Render() (*Framebuffer, RenderStats, error) {
	width, height := r.options.Width, r.options.Height
	bands := PartitionRows(height, r.options.Workers)

	r.logger.Infof(
		"rendering %q at %dx%d, %d spp, %d bands",
		r.scene.Name, width, height, r.options.SamplesPerPixel, len(bands),
	)

	frame := NewFramebuffer(width, height)
	progress := newProgressTracker(height, r.options.Progress)

	start := time.Now()
	bandStats, err := runBands(bands, func(band Band) int64 {
		return r.renderBand(band, frame, progress)
	})
	elapsed := time.Since(start)

	if err != nil {
		r.logger.Errorf("render of %q failed: %v", r.scene.Name, err)
		return nil, RenderStats{}, err
	}
	progress.finish()

	stats := RenderStats{
		Width:           width,
		Height:          height,
		SamplesPerPixel: r.options.SamplesPerPixel,
		Workers:         len(bands),
		RenderTime:      elapsed,
		Bands:           bandStats,
		BVH:             r.scene.BVH().Stats(),
	}
	for _, b := range bandStats {
		stats.PrimaryRays += b.Rays
		r.logger.Debugf("band %d: rows %d-%d in %s", b.Index, b.StartRow, b.EndRow, b.Duration)
	}

	r.logger.Infof("rendered %d primary rays in %s", stats.PrimaryRays, elapsed)
	return frame, stats, nil
}

// renderBand fills the band's rows of frame; rows of different bands never overlap
func (r *Renderer) renderBand(band Band, frame *Framebuffer, progress *progressTracker) int64 {
	sampler := core.NewSeededSampler(r.options.Seed + int64(band.Index))
	spp := r.options.SamplesPerPixel
	center := core.NewVec2(0.5, 0.5)
	var rays int64

	for j := band.StartRow; j < band.EndRow; j++ {
		for i := 0; i < frame.Width; i++ {
			var sum core.Vec3
			for k := 0; k < spp; k++ {
				offset := center
				if r.options.Jitter {
					offset = sampler.Get2D()
				}
				ray := r.camera.GetRay(i, j, offset)
				sum = sum.Add(r.integrator.RayColor(ray, r.scene, sampler))
			}
			frame.Set(i, j, sum.Multiply(1.0/float64(spp)))
			rays += int64(spp)
		}
		progress.rowDone()
	}

	return rays
}
