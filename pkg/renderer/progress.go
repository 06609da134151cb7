package renderer

import (
	"sync"
	"sync/atomic"
)

// ProgressFunc receives the fraction of rows completed, in [0, 1]
type ProgressFunc func(fraction float64)

// progressTracker counts completed rows across workers and forwards a
// non-decreasing fraction to the callback
type progressTracker struct {
	total    int64
	done     atomic.Int64
	mu       sync.Mutex
	last     float64
	callback ProgressFunc
}

func newProgressTracker(totalRows int, callback ProgressFunc) *progressTracker {
	return &progressTracker{total: int64(totalRows), callback: callback, last: -1}
}

// rowDone records a finished row; safe for concurrent use
func (p *progressTracker) rowDone() {
	p.done.Add(1)
	if p.callback == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fraction := float64(p.done.Load()) / float64(p.total)
	if fraction > 1 {
		fraction = 1
	}
	if fraction > p.last {
		p.last = fraction
		p.callback(fraction)
	}
}

// finish reports completion exactly once more if 1.0 was not already reported
func (p *progressTracker) finish() {
	if p.callback == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.last < 1 {
		p.last = 1
		p.callback(1)
	}
}

// Rows returns the number of rows completed so far
func (p *progressTracker) Rows() int64 {
	return p.done.Load()
}
