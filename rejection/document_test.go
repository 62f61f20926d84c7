// ABOUTME: Tests for the session document
// ABOUTME: Initial state, mutation entry point, bad channels, notifications

package rejection

import (
	"path/filepath"
	"testing"

	"epoch-select/epoch"
)

// trialsWithAmps builds a single-channel trial set where trial i has
// max absolute amplitude amps[i] and peak-to-peak range 1.5*amps[i].
func trialsWithAmps(amps ...float64) *epoch.Trials {
	tr := &epoch.Trials{
		Channels:     []string{"MEG 001"},
		SamplingRate: 100,
		Triggers:     make([]int, len(amps)),
		Data:         make([][][]float64, len(amps)),
	}

	for i, amp := range amps {
		tr.Triggers[i] = 10 + i
		tr.Data[i] = [][]float64{{amp, -amp / 2}}
	}

	return tr
}

// multiChannelTrials builds a two-channel set where the second channel
// carries large artifacts, for bad-channel tests.
func multiChannelTrials(amps ...float64) *epoch.Trials {
	tr := &epoch.Trials{
		Channels:     []string{"MEG 001", "MEG 002"},
		SamplingRate: 100,
		Triggers:     make([]int, len(amps)),
		Data:         make([][][]float64, len(amps)),
	}

	for i, amp := range amps {
		tr.Triggers[i] = 10 + i
		tr.Data[i] = [][]float64{
			{amp, -amp / 2},
			{amp * 100, -amp * 50},
		}
	}

	return tr
}

// recorder is a test observer capturing every notification
type recorder struct {
	changed    [][]int
	pathMoves  int
	savedFlips []bool
}

func (r *recorder) CasesChanged(indices []int) {
	r.changed = append(r.changed, append([]int(nil), indices...))
}

func (r *recorder) PathChanged() {
	r.pathMoves++
}

func (r *recorder) SavedChanged(saved bool) {
	r.savedFlips = append(r.savedFlips, saved)
}

func TestNewDocumentFresh(t *testing.T) {
	doc, err := NewDocument(trialsWithAmps(1, 2, 3), "")
	if err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}

	if doc.Len() != 3 {
		t.Fatalf("Len = %d, want 3", doc.Len())
	}

	for i := 0; i < doc.Len(); i++ {
		if !doc.AcceptAt(i) {
			t.Errorf("Trial %d should start accepted", i)
		}

		if doc.TagAt(i) != "" {
			t.Errorf("Trial %d should start untagged, got %q", i, doc.TagAt(i))
		}
	}

	if doc.Path() != "" {
		t.Errorf("Fresh document should have no path, got %q", doc.Path())
	}
}

func TestNewDocumentMissingFileIsDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subject01.txt")

	doc, err := NewDocument(trialsWithAmps(1, 2), path)
	if err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}

	if doc.Path() != path {
		t.Errorf("Path = %q, want %q", doc.Path(), path)
	}
}

func TestNewDocumentPreloadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subject01.txt")
	triggers := []int{10, 11, 12}
	accept := []bool{true, false, true}
	tags := []string{"", "manual", ""}

	if err := writeRejectionFile(path, triggers, accept, tags, nil); err != nil {
		t.Fatal(err)
	}

	doc, err := NewDocument(trialsWithAmps(1, 2, 3), path)
	if err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}

	if doc.AcceptAt(1) {
		t.Error("Trial 1 should be rejected after preload")
	}

	if doc.TagAt(1) != "manual" {
		t.Errorf("Trial 1 tag = %q, want manual", doc.TagAt(1))
	}
}

func TestNewDocumentRejectsMismatchedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subject01.txt")

	// File written for a different trial count
	if err := writeRejectionFile(path, []int{10, 11}, []bool{true, true}, []string{"", ""}, nil); err != nil {
		t.Fatal(err)
	}

	if _, err := NewDocument(trialsWithAmps(1, 2, 3), path); err == nil {
		t.Error("Expected error for mismatched initial file")
	}
}

func TestSetCasesNotifies(t *testing.T) {
	doc, err := NewDocument(trialsWithAmps(1, 2, 3), "")
	if err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	doc.AddObserver(rec)

	doc.SetCases([]int{1}, []bool{false}, []string{"manual"})

	if doc.AcceptAt(1) || doc.TagAt(1) != "manual" {
		t.Error("SetCases did not apply state")
	}

	if len(rec.changed) != 1 || len(rec.changed[0]) != 1 || rec.changed[0][0] != 1 {
		t.Errorf("CasesChanged payload = %v, want [[1]]", rec.changed)
	}

	// Whole-set write reports every index
	doc.SetCases(nil, []bool{true, true, true}, nil)
	if len(rec.changed) != 2 || len(rec.changed[1]) != 3 {
		t.Errorf("Whole-set CasesChanged payload = %v", rec.changed)
	}
}

func TestSetCasesNilTagsLeavesTags(t *testing.T) {
	doc, err := NewDocument(trialsWithAmps(1, 2), "")
	if err != nil {
		t.Fatal(err)
	}

	doc.SetCases([]int{0}, []bool{false}, []string{"manual"})
	doc.SetCases([]int{0}, []bool{true}, nil)

	if doc.TagAt(0) != "manual" {
		t.Errorf("Tag = %q, want manual (nil tags must not clear)", doc.TagAt(0))
	}
}

func TestSetBadChannels(t *testing.T) {
	doc, err := NewDocument(multiChannelTrials(1, 2), "")
	if err != nil {
		t.Fatal(err)
	}

	if err := doc.SetBadChannels([]int{1}, false); err != nil {
		t.Fatalf("SetBadChannels failed: %v", err)
	}

	if doc.CleanTrials().NumChannels() != 1 {
		t.Errorf("Clean view has %d channels, want 1", doc.CleanTrials().NumChannels())
	}

	names := doc.BadChannelNames()
	if len(names) != 1 || names[0] != "MEG 002" {
		t.Errorf("BadChannelNames = %v, want [MEG 002]", names)
	}

	// Duplicate add is a no-op
	if err := doc.SetBadChannels([]int{1}, false); err != nil {
		t.Fatal(err)
	}
	if len(doc.BadChannels()) != 1 {
		t.Errorf("Duplicate add grew the set: %v", doc.BadChannels())
	}

	// Reset clears
	if err := doc.SetBadChannels(nil, true); err != nil {
		t.Fatal(err)
	}
	if len(doc.BadChannels()) != 0 {
		t.Errorf("Reset left channels: %v", doc.BadChannels())
	}
	if doc.CleanTrials().NumChannels() != 2 {
		t.Error("Reset did not restore the full channel set")
	}

	// Out of range
	if err := doc.SetBadChannels([]int{7}, false); err == nil {
		t.Error("Expected error for out-of-range channel index")
	}
}

func TestGrandAverageEmptySelection(t *testing.T) {
	doc, err := NewDocument(trialsWithAmps(1, 2), "")
	if err != nil {
		t.Fatal(err)
	}

	doc.SetCases(nil, []bool{false, false}, nil)

	if _, err := doc.GrandAverage(); err != ErrEmptySelection {
		t.Errorf("GrandAverage error = %v, want ErrEmptySelection", err)
	}
}

func TestSetPathNormalizesAndNotifies(t *testing.T) {
	doc, err := NewDocument(trialsWithAmps(1), "")
	if err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	doc.AddObserver(rec)

	doc.SetPath("subject01")

	if doc.Path() != "subject01.txt" {
		t.Errorf("Path = %q, want subject01.txt", doc.Path())
	}

	if rec.pathMoves != 1 {
		t.Errorf("PathChanged fired %d times, want 1", rec.pathMoves)
	}
}
