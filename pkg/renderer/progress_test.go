package renderer

import (
	"sync"
	"testing"
)

func TestProgressTracker_MonotonicAndComplete(t *testing.T) {
	var reported []float64
	tracker := newProgressTracker(100, func(fraction float64) {
		// Callbacks are serialized by the tracker
		reported = append(reported, fraction)
	})

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				tracker.rowDone()
			}
		}()
	}
	wg.Wait()
	tracker.finish()

	if tracker.Rows() != 100 {
		t.Errorf("Expected 100 rows, got %d", tracker.Rows())
	}
	if len(reported) == 0 {
		t.Fatal("Expected progress callbacks")
	}
	for i := 1; i < len(reported); i++ {
		if reported[i] <= reported[i-1] {
			t.Fatalf("Progress is not increasing at %d: %v", i, reported)
		}
	}
	if reported[len(reported)-1] != 1 {
		t.Errorf("Expected final progress 1.0, got %f", reported[len(reported)-1])
	}

	// finish after reaching 1.0 must not report again
	count := len(reported)
	tracker.finish()
	if len(reported) != count {
		t.Error("finish reported completion twice")
	}
}

func TestProgressTracker_NilCallback(t *testing.T) {
	tracker := newProgressTracker(3, nil)
	tracker.rowDone()
	tracker.finish()
	if tracker.Rows() != 1 {
		t.Errorf("Expected 1 row, got %d", tracker.Rows())
	}
}
