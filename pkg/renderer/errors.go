package renderer

import "errors"

var (
	// ErrInvalidConfig is returned for impossible render options
	ErrInvalidConfig = errors.New("renderer: invalid render configuration")
	// ErrNoScene is returned when there is no preprocessed scene to render
	ErrNoScene = errors.New("renderer: no scene to render")
	// ErrWorkerFailed is returned when a band worker panicked; no frame is produced
	ErrWorkerFailed = errors.New("renderer: worker failed")
)
