// ABOUTME: Defines the Trials container for M/EEG epoch data
// ABOUTME: Provides channel exclusion and per-trial extremum reductions

// Package epoch holds multichannel trial data and the reductions the
// rejection workbench needs: channel-exclusion projections, per-trial
// extremum values (max absolute, peak-to-peak), and averages across
// accepted trials.
package epoch

import (
	"errors"
	"fmt"
	"math"
)

// Trials is an ordered, fixed-size set of epochs. Each trial holds one
// sample row per channel; all trials share the same channel list and
// sample count.
type Trials struct {
	Channels     []string      // Channel names, in recording order
	SamplingRate float64       // Samples per second
	Triggers     []int         // Immutable per-trial identity codes
	Data         [][][]float64 // [trial][channel][sample]
}

// Len returns the number of trials.
func (t *Trials) Len() int {
	return len(t.Data)
}

// NumChannels returns the number of channels per trial.
func (t *Trials) NumChannels() int {
	return len(t.Channels)
}

// NumSamples returns the number of samples per channel, or 0 for an
// empty trial set.
func (t *Trials) NumSamples() int {
	if len(t.Data) == 0 || len(t.Data[0]) == 0 {
		return 0
	}

	return len(t.Data[0][0])
}

// Validate checks that the trial set is rectangular: every trial has one
// row per channel and every row has the same sample count, and the
// trigger column matches the trial count.
func (t *Trials) Validate() error {
	if len(t.Data) == 0 {
		return errors.New("trial set is empty")
	}

	if len(t.Triggers) != len(t.Data) {
		return fmt.Errorf("have %d triggers for %d trials", len(t.Triggers), len(t.Data))
	}

	nSamples := t.NumSamples()
	for i, trial := range t.Data {
		if len(trial) != len(t.Channels) {
			return fmt.Errorf("trial %d has %d channels, want %d", i, len(trial), len(t.Channels))
		}

		for c, row := range trial {
			if len(row) != nSamples {
				return fmt.Errorf("trial %d channel %d has %d samples, want %d", i, c, len(row), nSamples)
			}
		}
	}

	return nil
}

// ChannelIndex returns the index of the named channel.
func (t *Trials) ChannelIndex(name string) (int, bool) {
	for i, ch := range t.Channels {
		if ch == name {
			return i, true
		}
	}

	return 0, false
}

// DropChannels returns a projection of the trial set with the given
// channel indices removed. Sample rows are shared with the receiver, so
// the projection is cheap; callers must treat the data as read-only.
// Out-of-range indices are ignored.
func (t *Trials) DropChannels(bad []int) *Trials {
	if len(bad) == 0 {
		return t
	}

	drop := make(map[int]bool, len(bad))
	for _, ch := range bad {
		if ch >= 0 && ch < len(t.Channels) {
			drop[ch] = true
		}
	}

	if len(drop) == 0 {
		return t
	}

	keep := make([]int, 0, len(t.Channels)-len(drop))
	for i := range t.Channels {
		if !drop[i] {
			keep = append(keep, i)
		}
	}

	channels := make([]string, len(keep))
	for i, c := range keep {
		channels[i] = t.Channels[c]
	}

	data := make([][][]float64, len(t.Data))
	for i, trial := range t.Data {
		rows := make([][]float64, len(keep))
		for j, c := range keep {
			rows[j] = trial[c]
		}
		data[i] = rows
	}

	return &Trials{
		Channels:     channels,
		SamplingRate: t.SamplingRate,
		Triggers:     t.Triggers,
		Data:         data,
	}
}

// MaxAbs returns the maximum absolute sample value of trial i, reduced
// across all channels and time points.
func (t *Trials) MaxAbs(i int) float64 {
	var max float64

	for _, row := range t.Data[i] {
		for _, v := range row {
			if a := math.Abs(v); a > max {
				max = a
			}
		}
	}

	return max
}

// PeakToPeak returns the largest per-channel peak-to-peak range of
// trial i: max over channels of (max over time - min over time).
func (t *Trials) PeakToPeak(i int) float64 {
	var max float64

	for _, row := range t.Data[i] {
		if len(row) == 0 {
			continue
		}

		lo, hi := row[0], row[0]
		for _, v := range row[1:] {
			if v < lo {
				lo = v
			}

			if v > hi {
				hi = v
			}
		}

		if p2p := hi - lo; p2p > max {
			max = p2p
		}
	}

	return max
}

// Average returns the channel-by-time mean over the trials where
// include is true. Returns false when no trial is included.
func (t *Trials) Average(include []bool) ([][]float64, bool) {
	count := 0
	for i := 0; i < t.Len(); i++ {
		if i < len(include) && include[i] {
			count++
		}
	}

	if count == 0 {
		return nil, false
	}

	nChannels := t.NumChannels()
	nSamples := t.NumSamples()

	sum := make([][]float64, nChannels)
	for c := range sum {
		sum[c] = make([]float64, nSamples)
	}

	for i, trial := range t.Data {
		if i >= len(include) || !include[i] {
			continue
		}

		for c, row := range trial {
			for s, v := range row {
				sum[c][s] += v
			}
		}
	}

	for c := range sum {
		for s := range sum[c] {
			sum[c][s] /= float64(count)
		}
	}

	return sum, true
}
