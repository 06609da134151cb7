package renderer

import (
	"math"
	"testing"
	"time"
)

func TestRenderStats(t *testing.T) {
	stats := RenderStats{
		Height:      10,
		PrimaryRays: 5000,
		RenderTime:  2 * time.Second,
	}

	if got := stats.RaysPerSecond(); math.Abs(got-2500) > 1e-9 {
		t.Errorf("Expected 2500 rays/s, got %f", got)
	}

	band := BandStats{Band: Band{Index: 1, StartRow: 3, EndRow: 7}}
	if got := stats.Share(band); math.Abs(got-0.4) > 1e-12 {
		t.Errorf("Expected share 0.4, got %f", got)
	}

	if (RenderStats{}).RaysPerSecond() != 0 || (RenderStats{}).Share(band) != 0 {
		t.Error("Empty stats should report zero")
	}
}
