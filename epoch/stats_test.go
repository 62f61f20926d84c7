// ABOUTME: Tests for concurrent per-trial extremum computation
// ABOUTME: Verifies pooled results match direct per-trial computation

package epoch

import (
	"math/rand"
	"testing"
)

func TestComputeStatsMatchesDirect(t *testing.T) {
	// Enough trials to span several worker chunks
	const nTrials = 100

	rng := rand.New(rand.NewSource(42))

	tr := &Trials{
		Channels:     []string{"a", "b"},
		SamplingRate: 100,
		Triggers:     make([]int, nTrials),
		Data:         make([][][]float64, nTrials),
	}

	for i := range tr.Data {
		tr.Triggers[i] = i
		tr.Data[i] = make([][]float64, 2)
		for c := range tr.Data[i] {
			samples := make([]float64, 16)
			for s := range samples {
				samples[s] = rng.NormFloat64()
			}
			tr.Data[i][c] = samples
		}
	}

	stats := ComputeStats(tr)
	if len(stats) != nTrials {
		t.Fatalf("Expected %d stats, got %d", nTrials, len(stats))
	}

	for i := range stats {
		if stats[i].MaxAbs != tr.MaxAbs(i) {
			t.Errorf("Trial %d: MaxAbs = %v, want %v", i, stats[i].MaxAbs, tr.MaxAbs(i))
		}

		if stats[i].PeakToPeak != tr.PeakToPeak(i) {
			t.Errorf("Trial %d: PeakToPeak = %v, want %v", i, stats[i].PeakToPeak, tr.PeakToPeak(i))
		}
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	tr := &Trials{Channels: []string{"a"}, SamplingRate: 100}

	stats := ComputeStats(tr)
	if len(stats) != 0 {
		t.Errorf("Expected no stats for empty trial set, got %d", len(stats))
	}
}
