package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-bvh-pathtracer/pkg/config"
	"github.com/df07/go-bvh-pathtracer/pkg/log"
	"github.com/df07/go-bvh-pathtracer/pkg/scene"
	"github.com/labstack/echo/v4"
)

// Request limits
const (
	MaxImageSize = 1024
	MaxSamples   = 4096
	MaxThreads   = 256
	MaxDepth     = 1000
)

// Server handles web requests for the path tracer
type Server struct {
	port     int
	echo     *echo.Echo
	defaults config.Render
	logger   log.Logger
}

// NewServer creates a new web server. Render requests start from defaults
// and override it with their query parameters.
func NewServer(port int, defaults config.Render) *Server {
	s := &Server{
		port:     port,
		echo:     echo.New(),
		defaults: defaults,
		logger:   log.New("web"),
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(corsMiddleware)

	api := s.echo.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/scenes", s.handleScenes)
	api.GET("/render", s.handleRender)
	api.GET("/inspect", s.handleInspect)

	return s
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves requests until the listener fails
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Noticef("starting web server on http://localhost%s", addr)
	return s.echo.Start(addr)
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET")
		return next(c)
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes with their default image size
func (s *Server) handleScenes(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"scenes": scene.List(),
		"limits": map[string]int{
			"width":  MaxImageSize,
			"height": MaxImageSize,
			"spp":    MaxSamples,
		},
	})
}

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseRenderConfig applies the query parameters on top of the server defaults
func (s *Server) parseRenderConfig(values url.Values) (config.Render, error) {
	cfg := s.defaults
	var err error

	if name := values.Get("scene"); name != "" {
		cfg.Scene = name
	}
	if split := values.Get("split"); split != "" {
		cfg.Split = split
	}
	if cfg.Width, err = parseIntParam(values, "width", min(cfg.Width, MaxImageSize), 0, MaxImageSize); err != nil {
		return cfg, err
	}
	if cfg.Height, err = parseIntParam(values, "height", min(cfg.Height, MaxImageSize), 0, MaxImageSize); err != nil {
		return cfg, err
	}
	if cfg.SamplesPerPixel, err = parseIntParam(values, "spp", min(cfg.SamplesPerPixel, MaxSamples), 1, MaxSamples); err != nil {
		return cfg, err
	}
	if cfg.Threads, err = parseIntParam(values, "threads", min(cfg.Threads, MaxThreads), 0, MaxThreads); err != nil {
		return cfg, err
	}
	if cfg.MaxDepth, err = parseIntParam(values, "maxDepth", cfg.MaxDepth, 0, MaxDepth); err != nil {
		return cfg, err
	}
	if cfg.RussianRoulette, err = parseFloatParam(values, "rr", cfg.RussianRoulette, 0, 1); err != nil {
		return cfg, err
	}
	if seed := values.Get("seed"); seed != "" {
		if cfg.Seed, err = strconv.ParseInt(seed, 10, 64); err != nil {
			return cfg, fmt.Errorf("invalid seed: %s", seed)
		}
	}
	cfg.Jitter = values.Get("jitter") == "true" || (values.Get("jitter") == "" && cfg.Jitter)

	// The web server never writes files
	cfg.Output = ""

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
