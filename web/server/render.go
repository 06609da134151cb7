package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/df07/go-bvh-pathtracer/pkg/config"
	"github.com/df07/go-bvh-pathtracer/pkg/integrator"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
	"github.com/df07/go-bvh-pathtracer/pkg/scene"
	"github.com/labstack/echo/v4"
)

// SSEEvent represents a single server-sent event
type SSEEvent struct {
	Type string // "console", "progress", "complete", "error"
	Data string // JSON-encoded data
}

// ProgressUpdate is sent whenever more rows of the frame are finished
type ProgressUpdate struct {
	Fraction  float64 `json:"fraction"`
	ElapsedMs int64   `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	RenderTimeMs  int64   `json:"renderTimeMs"`
	PrimaryRays   int64   `json:"primaryRays"`
	RaysPerSecond float64 `json:"raysPerSecond"`
	Workers       int     `json:"workers"`
	Primitives    int     `json:"primitives"`
	Triangles     int     `json:"triangles"`
	BVHNodes      int     `json:"bvhNodes"`
	BVHDepth      int     `json:"bvhDepth"`
	Split         string  `json:"split"`
}

// CompleteUpdate carries the finished frame
type CompleteUpdate struct {
	Scene           string `json:"scene"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	SamplesPerPixel int    `json:"samplesPerPixel"`
	ImageData       string `json:"imageData"` // Base64 encoded PNG
	Stats           Stats  `json:"stats"`
}

type renderResult struct {
	frame *renderer.Framebuffer
	stats renderer.RenderStats
	err   error
}

// handleRender renders one frame and streams progress, console output and
// the final image as server-sent events
func (s *Server) handleRender(c echo.Context) error {
	s.setSSEHeaders(c)

	cfg, err := s.parseRenderConfig(c.QueryParams())
	if err != nil {
		return s.writeSSEError(c, fmt.Sprintf("Invalid request: %v", err))
	}

	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, s.logger, consoleChan)

	// Progress is best effort; the render never waits on the client
	progressChan := make(chan float64, 64)
	progress := func(fraction float64) {
		select {
		case progressChan <- fraction:
		default:
		}
	}

	sceneObj, r, err := s.setupRenderer(cfg, webLogger, progress)
	if err != nil {
		return s.writeSSEError(c, err.Error())
	}

	startTime := time.Now()
	resultChan := make(chan renderResult, 1)
	go func() {
		frame, stats, err := r.Render()
		resultChan <- renderResult{frame: frame, stats: stats, err: err}
	}()

	ctx := c.Request().Context()
	for {
		select {
		case fraction := <-progressChan:
			if err := s.writeProgress(c, fraction, startTime); err != nil {
				return nil
			}

		case msg := <-consoleChan:
			if err := s.writeJSONEvent(c, "console", msg); err != nil {
				return nil
			}

		case result := <-resultChan:
			s.drain(c, progressChan, consoleChan, startTime)
			if result.err != nil {
				return s.writeSSEError(c, fmt.Sprintf("Rendering failed: %v", result.err))
			}
			return s.writeComplete(c, cfg, sceneObj, result)

		case <-ctx.Done():
			// Client disconnected; the render finishes in the background
			return nil
		}
	}
}

// setupRenderer creates and preprocesses the scene and builds the renderer
func (s *Server) setupRenderer(cfg config.Render, logger *WebLogger, progress renderer.ProgressFunc) (*scene.Scene, *renderer.Renderer, error) {
	sceneObj, err := scene.Create(cfg.Scene)
	if err != nil {
		return nil, nil, err
	}

	split, err := cfg.SplitMethod()
	if err != nil {
		return nil, nil, err
	}
	if err := sceneObj.Preprocess(cfg.MaxLeafSize, split); err != nil {
		return nil, nil, err
	}

	width, height := cfg.Width, cfg.Height
	if width == 0 {
		width = min(sceneObj.Camera.Width, MaxImageSize)
	}
	if height == 0 {
		height = min(sceneObj.Camera.Height, MaxImageSize)
	}

	r, err := renderer.NewRenderer(sceneObj, integrator.NewPathTracingIntegrator(cfg.Integrator()), renderer.Options{
		Width:           width,
		Height:          height,
		SamplesPerPixel: cfg.SamplesPerPixel,
		Workers:         cfg.Threads,
		Seed:            cfg.Seed,
		Jitter:          cfg.Jitter,
		Progress:        progress,
		Logger:          logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return sceneObj, r, nil
}

// drain flushes events queued before the render returned
func (s *Server) drain(c echo.Context, progressChan <-chan float64, consoleChan <-chan ConsoleMessage, startTime time.Time) {
	for {
		select {
		case fraction := <-progressChan:
			_ = s.writeProgress(c, fraction, startTime)
		case msg := <-consoleChan:
			_ = s.writeJSONEvent(c, "console", msg)
		default:
			return
		}
	}
}

func (s *Server) writeProgress(c echo.Context, fraction float64, startTime time.Time) error {
	return s.writeJSONEvent(c, "progress", ProgressUpdate{
		Fraction:  fraction,
		ElapsedMs: time.Since(startTime).Milliseconds(),
	})
}

func (s *Server) writeComplete(c echo.Context, cfg config.Render, sceneObj *scene.Scene, result renderResult) error {
	var buf bytes.Buffer
	if err := result.frame.WritePNG(&buf); err != nil {
		return s.writeSSEError(c, fmt.Sprintf("Encoding image failed: %v", err))
	}

	stats := result.stats
	return s.writeJSONEvent(c, "complete", CompleteUpdate{
		Scene:           sceneObj.Name,
		Width:           stats.Width,
		Height:          stats.Height,
		SamplesPerPixel: stats.SamplesPerPixel,
		ImageData:       base64.StdEncoding.EncodeToString(buf.Bytes()),
		Stats: Stats{
			RenderTimeMs:  stats.RenderTime.Milliseconds(),
			PrimaryRays:   stats.PrimaryRays,
			RaysPerSecond: stats.RaysPerSecond(),
			Workers:       stats.Workers,
			Primitives:    len(sceneObj.Primitives),
			Triangles:     sceneObj.TriangleCount(),
			BVHNodes:      stats.BVH.Nodes,
			BVHDepth:      stats.BVH.MaxDepth,
			Split:         cfg.Split,
		},
	})
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(c echo.Context) {
	h := c.Response().Header()
	h.Set(echo.HeaderContentType, "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)
}

func (s *Server) writeJSONEvent(c echo.Context, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Errorf("marshaling %s event: %v", event, err)
		return err
	}
	return s.writeSSEEvent(c, SSEEvent{Type: event, Data: string(data)})
}

// writeSSEError sends an error event. The HTTP status stays 200 because the
// stream has already started.
func (s *Server) writeSSEError(c echo.Context, message string) error {
	s.logger.Warningf("render request failed: %s", message)
	data, _ := json.Marshal(map[string]string{"error": message})
	_ = s.writeSSEEvent(c, SSEEvent{Type: "error", Data: string(data)})
	return nil
}

// writeSSEEvent sends a generic SSE event
func (s *Server) writeSSEEvent(c echo.Context, event SSEEvent) error {
	w := c.Response()
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
		return err
	}
	w.Flush()
	return nil
}
