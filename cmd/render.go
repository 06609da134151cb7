package cmd

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/df07/go-bvh-pathtracer/pkg/config"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/integrator"
	"github.com/df07/go-bvh-pathtracer/pkg/loaders"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
	"github.com/df07/go-bvh-pathtracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.Output == "" {
		cfg.Output = config.Default().Output
	}
	if cfg.Threads == 0 {
		cfg.Threads = logicalCPUs()
	}
	logHostInfo()

	// Load scene
	sc, err := createScene(cfg.Scene, ctx.String("mesh"))
	if err != nil {
		return err
	}
	split, err := cfg.SplitMethod()
	if err != nil {
		return err
	}
	if err := sc.Preprocess(cfg.MaxLeafSize, split); err != nil {
		return err
	}

	// Create renderer
	r, err := renderer.NewRenderer(sc, integrator.NewPathTracingIntegrator(cfg.Integrator()), renderer.Options{
		Width:           cfg.Width,
		Height:          cfg.Height,
		SamplesPerPixel: cfg.SamplesPerPixel,
		Workers:         cfg.Threads,
		Seed:            cfg.Seed,
		Jitter:          cfg.Jitter,
		Progress:        progressLogger(),
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	frame, stats, err := r.Render()
	if err != nil {
		return err
	}

	if err := frame.Save(cfg.Output); err != nil {
		return err
	}
	logger.Noticef("wrote %dx%d frame to %s", frame.Width, frame.Height, cfg.Output)

	// Display stats
	displayFrameStats(stats)
	displayBVHStats(stats.BVH)

	return nil
}

// createScene builds a built-in scene, or the Cornell box around a PLY model
// when meshPath is set
func createScene(name, meshPath string) (*scene.Scene, error) {
	if meshPath == "" {
		return scene.Create(name)
	}

	mesh, err := loaders.LoadPLY(meshPath)
	if err != nil {
		return nil, err
	}
	base := filepath.Base(meshPath)
	return scene.NewMeshScene(strings.TrimSuffix(base, filepath.Ext(base)), mesh.Vertices, mesh.Faces)
}

// loadConfig reads the optional config file and applies the flags that were
// set explicitly on top of it
func loadConfig(ctx *cli.Context) (config.Render, error) {
	cfg := config.Default()
	if path := ctx.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return cfg, err
		}
	}

	if ctx.IsSet("scene") {
		cfg.Scene = ctx.String("scene")
	}
	if ctx.IsSet("width") {
		cfg.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		cfg.Height = ctx.Int("height")
	}
	if ctx.IsSet("spp") {
		cfg.SamplesPerPixel = ctx.Int("spp")
	}
	if ctx.IsSet("threads") {
		cfg.Threads = ctx.Int("threads")
	}
	if ctx.IsSet("split") {
		cfg.Split = ctx.String("split")
	}
	if ctx.IsSet("rr") {
		cfg.RussianRoulette = ctx.Float64("rr")
	}
	if ctx.IsSet("max-depth") {
		cfg.MaxDepth = ctx.Int("max-depth")
	}
	if ctx.IsSet("max-leaf-size") {
		cfg.MaxLeafSize = ctx.Int("max-leaf-size")
	}
	if ctx.IsSet("seed") {
		cfg.Seed = ctx.Int64("seed")
	}
	if ctx.IsSet("jitter") {
		cfg.Jitter = ctx.Bool("jitter")
	}
	if ctx.IsSet("out") {
		cfg.Output = ctx.String("out")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// progressLogger logs render progress in 10% steps
func progressLogger() renderer.ProgressFunc {
	lastStep := -1
	return func(fraction float64) {
		step := int(math.Floor(fraction * 10))
		if step > lastStep {
			lastStep = step
			logger.Infof("rendering: %3.0f%%", fraction*100)
		}
	}
}

func displayFrameStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Band", "Rows", "% of frame", "Primary rays", "Render time"})
	for _, band := range stats.Bands {
		table.Append([]string{
			fmt.Sprintf("%d", band.Index),
			fmt.Sprintf("%d-%d", band.StartRow, band.EndRow),
			fmt.Sprintf("%02.1f %%", 100*stats.Share(band)),
			fmt.Sprintf("%d", band.Rays),
			band.Duration.String(),
		})
	}
	table.SetFooter([]string{
		"", "", "TOTAL",
		fmt.Sprintf("%d", stats.PrimaryRays),
		stats.RenderTime.String(),
	})

	table.Render()
	logger.Noticef(
		"frame statistics (%dx%d, %d spp, %.0f rays/s)\n%s",
		stats.Width, stats.Height, stats.SamplesPerPixel, stats.RaysPerSecond(), buf.String(),
	)
}

func displayBVHStats(stats geometry.BVHStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Split", "Primitives", "Nodes", "Leaves", "Max depth", "Build time"})
	table.Append([]string{
		stats.Split.String(),
		fmt.Sprintf("%d", stats.Primitives),
		fmt.Sprintf("%d", stats.Nodes),
		fmt.Sprintf("%d", stats.Leaves),
		fmt.Sprintf("%d", stats.MaxDepth),
		stats.BuildTime.String(),
	})

	table.Render()
	logger.Noticef("BVH statistics\n%s", buf.String())
}
