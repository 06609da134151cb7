package renderer

import (
	"fmt"
	"sync"
	"time"
)

// Band is a contiguous range of image rows [StartRow, EndRow) rendered by one worker
type Band struct {
	Index    int
	StartRow int
	EndRow   int
}

// Rows returns the number of rows in the band
func (b Band) Rows() int {
	return b.EndRow - b.StartRow
}

// PartitionRows splits height rows into min(workers, height) bands of
// height/workers rows each. The last band also takes the remaining rows.
func PartitionRows(height, workers int) []Band {
	if height <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > height {
		workers = height
	}

	rowsPerBand := height / workers
	bands := make([]Band, workers)
	for i := range bands {
		bands[i] = Band{
			Index:    i,
			StartRow: i * rowsPerBand,
			EndRow:   (i + 1) * rowsPerBand,
		}
	}
	bands[workers-1].EndRow = height
	return bands
}

// bandFunc renders one band and returns the number of primary rays it traced
type bandFunc func(band Band) int64

// runBands starts one goroutine per band and waits for all of them. A panic in
// a worker is recovered and reported as ErrWorkerFailed once every worker has
// returned.
func runBands(bands []Band, render bandFunc) ([]BandStats, error) {
	stats := make([]BandStats, len(bands))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for _, band := range bands {
		wg.Add(1)
		go func(band Band) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("%w: band %d (rows %d-%d): %v", ErrWorkerFailed, band.Index, band.StartRow, band.EndRow, rec)
					}
					mu.Unlock()
				}
			}()

			start := time.Now()
			rays := render(band)

			// Each goroutine writes only its own slot
			stats[band.Index] = BandStats{
				Band:     band,
				Rays:     rays,
				Duration: time.Since(start),
			}
		}(band)
	}

	wg.Wait()
	return stats, firstErr
}
