// ABOUTME: Per-trial extremum statistics computed in parallel
// ABOUTME: Feeds threshold auto-rejection and the workbench trial table

package epoch

import "epoch-select/pool"

// Extremum holds the reduced extremum values of one trial, computed over
// all channels and time points of the (already channel-excluded) data.
type Extremum struct {
	MaxAbs     float64
	PeakToPeak float64
}

// statsChunkSize trades scheduling overhead against load balance; trials
// are cheap to reduce individually, so workers take them in batches.
const statsChunkSize = 32

// ComputeStats returns the extremum values for every trial. The reduction
// is pure and runs across a worker pool; the caller applies any resulting
// state change on its own thread.
func ComputeStats(t *Trials) []Extremum {
	n := t.Len()
	stats := make([]Extremum, n)

	if n == 0 {
		return stats
	}

	workers := pool.NewWorkerPool(n/statsChunkSize + 1)
	defer workers.Close()

	for start := 0; start < n; start += statsChunkSize {
		end := start + statsChunkSize
		if end > n {
			end = n
		}

		workers.Submit(func() {
			for i := start; i < end; i++ {
				stats[i] = Extremum{
					MaxAbs:     t.MaxAbs(i),
					PeakToPeak: t.PeakToPeak(i),
				}
			}
		})
	}

	workers.Wait()

	return stats
}
