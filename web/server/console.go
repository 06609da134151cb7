package server

import (
	"fmt"
	"time"

	"github.com/df07/go-bvh-pathtracer/pkg/log"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "notice", "warning", "error"
}

// WebLogger implements log.Logger by forwarding every message to a backing
// logger and to the console channel of one render
type WebLogger struct {
	renderID    string
	backend     log.Logger
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a new web logger for a specific render. backend may be nil.
func NewWebLogger(renderID string, backend log.Logger, consoleChan chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{
		renderID:    renderID,
		backend:     backend,
		consoleChan: consoleChan,
	}
}

func (wl *WebLogger) send(level, message string) {
	if wl.consoleChan == nil {
		return
	}

	select {
	case wl.consoleChan <- ConsoleMessage{
		Message:   message,
		Timestamp: time.Now(),
		Level:     level,
	}:
	default:
		// Channel full, skip (don't block the render)
	}
}

func (wl *WebLogger) Debug(v ...interface{}) {
	if wl.backend != nil {
		wl.backend.Debugf("[%s] %s", wl.renderID, fmt.Sprint(v...))
	}
	wl.send("debug", fmt.Sprint(v...))
}

func (wl *WebLogger) Debugf(format string, v ...interface{}) {
	wl.Debug(fmt.Sprintf(format, v...))
}

func (wl *WebLogger) Info(v ...interface{}) {
	if wl.backend != nil {
		wl.backend.Infof("[%s] %s", wl.renderID, fmt.Sprint(v...))
	}
	wl.send("info", fmt.Sprint(v...))
}

func (wl *WebLogger) Infof(format string, v ...interface{}) {
	wl.Info(fmt.Sprintf(format, v...))
}

func (wl *WebLogger) Notice(v ...interface{}) {
	if wl.backend != nil {
		wl.backend.Noticef("[%s] %s", wl.renderID, fmt.Sprint(v...))
	}
	wl.send("notice", fmt.Sprint(v...))
}

func (wl *WebLogger) Noticef(format string, v ...interface{}) {
	wl.Notice(fmt.Sprintf(format, v...))
}

func (wl *WebLogger) Warning(v ...interface{}) {
	if wl.backend != nil {
		wl.backend.Warningf("[%s] %s", wl.renderID, fmt.Sprint(v...))
	}
	wl.send("warning", fmt.Sprint(v...))
}

func (wl *WebLogger) Warningf(format string, v ...interface{}) {
	wl.Warning(fmt.Sprintf(format, v...))
}

func (wl *WebLogger) Error(v ...interface{}) {
	if wl.backend != nil {
		wl.backend.Errorf("[%s] %s", wl.renderID, fmt.Sprint(v...))
	}
	wl.send("error", fmt.Sprint(v...))
}

func (wl *WebLogger) Errorf(format string, v ...interface{}) {
	wl.Error(fmt.Sprintf(format, v...))
}
