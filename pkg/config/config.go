package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/integrator"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("config: invalid render configuration")

// Render holds the runtime settings of a render
type Render struct {
	Scene           string  `json:"scene"`
	Width           int     `json:"width"`  // 0 uses the scene's default
	Height          int     `json:"height"` // 0 uses the scene's default
	SamplesPerPixel int     `json:"spp"`
	Threads         int     `json:"threads"` // 0 uses one worker per logical CPU
	Split           string  `json:"split"`   // "sah" or "midpoint"
	RussianRoulette float64 `json:"rr"`      // Path continuation probability
	MaxDepth        int     `json:"maxDepth"`
	MaxLeafSize     int     `json:"maxLeafSize"`
	Seed            int64   `json:"seed"`
	Jitter          bool    `json:"jitter"` // Random sub-pixel offsets instead of pixel centres
	Output          string  `json:"output"` // .ppm or .png
}

// Default returns the default render settings
func Default() Render {
	return Render{
		Scene:           "cornell",
		SamplesPerPixel: 16,
		Threads:         16,
		Split:           geometry.SplitSAH.String(),
		RussianRoulette: integrator.DefaultRussianRoulette,
		MaxLeafSize:     1,
		Output:          "binary.ppm",
	}
}

// LoadFile reads a JSON file on top of the defaults. Unknown keys are rejected.
func LoadFile(path string) (Render, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks every field and reports the first problem found
func (r Render) Validate() error {
	switch {
	case r.Width < 0 || r.Height < 0:
		return fmt.Errorf("%w: image size %dx%d must not be negative", ErrInvalid, r.Width, r.Height)
	case r.SamplesPerPixel < 1:
		return fmt.Errorf("%w: spp must be at least 1, got %d", ErrInvalid, r.SamplesPerPixel)
	case r.Threads < 0:
		return fmt.Errorf("%w: threads must not be negative, got %d", ErrInvalid, r.Threads)
	case r.RussianRoulette < 0 || r.RussianRoulette > 1:
		return fmt.Errorf("%w: rr must be within [0, 1], got %g", ErrInvalid, r.RussianRoulette)
	case r.MaxDepth < 0:
		return fmt.Errorf("%w: maxDepth must not be negative, got %d", ErrInvalid, r.MaxDepth)
	case r.RussianRoulette >= 1 && r.MaxDepth == 0:
		return fmt.Errorf("%w: rr=1 never terminates paths, set maxDepth", ErrInvalid)
	}

	if _, err := r.SplitMethod(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if r.Output != "" {
		switch strings.ToLower(filepath.Ext(r.Output)) {
		case ".ppm", ".png":
		default:
			return fmt.Errorf("%w: output %q must end in .ppm or .png", ErrInvalid, r.Output)
		}
	}

	return nil
}

// SplitMethod parses the configured BVH split method
func (r Render) SplitMethod() (geometry.SplitMethod, error) {
	return geometry.ParseSplitMethod(r.Split)
}

// Integrator returns the path tracer settings
func (r Render) Integrator() integrator.Config {
	cfg := integrator.DefaultConfig()
	cfg.RussianRoulette = r.RussianRoulette
	cfg.MaxDepth = r.MaxDepth
	return cfg
}
