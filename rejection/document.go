// ABOUTME: Session state for epoch rejection decisions
// ABOUTME: Accept/tag/trigger columns, bad channels, path, and observers

// Package rejection implements the document/undo-history core of the
// epoch-rejection workbench: per-trial accept/reject/tag state, a
// reversible command log with a last-saved marker, the session
// controller that builds change records from user intents, and the
// rejection-file codec.
package rejection

import (
	"fmt"

	"epoch-select/epoch"
)

// Observer is the typed notification sink for session state changes.
// The workbench view implements it to redraw affected trials, refresh
// the title path, and flip the dirty indicator.
//
// Callbacks run synchronously, in registration order, after each
// successful mutation. They must not mutate the session re-entrantly
// (no Do/Undo/Redo from inside a callback). Registration lasts for the
// session lifetime; there is no unsubscribe.
type Observer interface {
	// CasesChanged reports the indices whose accept flag or tag was
	// just written.
	CasesChanged(indices []int)

	// PathChanged reports that the session's destination path changed.
	PathChanged()

	// SavedChanged reports a flip of the "all changes saved" state.
	SavedChanged(saved bool)
}

// Document holds the rejection state for one fixed trial set. The trial
// count never changes during a session, and all accept/tag mutations go
// through SetCases, which the history's change records call. Only the
// Model may construct those records.
type Document struct {
	trials *epoch.Trials
	clean  *epoch.Trials // trials with bad channels removed

	accept   []bool
	tags     []string
	triggers []int

	badChannels []int

	path string

	observers []Observer
}

// NewDocument creates the session state over a trial set with every
// trial accepted and no tags. If path names an existing rejection file
// it is read as the initial state; the session then starts out saved
// relative to that file. A path pointing at a missing file just becomes
// the save destination.
func NewDocument(trials *epoch.Trials, path string) (*Document, error) {
	n := trials.Len()

	accept := make([]bool, n)
	for i := range accept {
		accept[i] = true
	}

	doc := &Document{
		trials:   trials,
		clean:    trials,
		accept:   accept,
		tags:     make([]string, n),
		triggers: append([]int(nil), trials.Triggers...),
	}

	if path != "" {
		doc.path = normalizePath(path)

		state, err := readRejectionFile(doc.path, doc.triggers)
		switch {
		case err == nil:
			copy(doc.accept, state.Accept)
			copy(doc.tags, state.Tags)
		case isNotExist(err):
			// Fresh session; the path is just the save destination.
		default:
			return nil, fmt.Errorf("initial rejection file: %w", err)
		}
	}

	return doc, nil
}

// Len returns the number of trials in the session.
func (d *Document) Len() int {
	return len(d.accept)
}

// AcceptAt reports whether trial i is currently accepted.
func (d *Document) AcceptAt(i int) bool {
	return d.accept[i]
}

// TagAt returns the tag of trial i.
func (d *Document) TagAt(i int) string {
	return d.tags[i]
}

// Accept returns a copy of the accept column.
func (d *Document) Accept() []bool {
	return append([]bool(nil), d.accept...)
}

// Tags returns a copy of the tag column.
func (d *Document) Tags() []string {
	return append([]string(nil), d.tags...)
}

// Triggers returns a copy of the immutable trigger column.
func (d *Document) Triggers() []int {
	return append([]int(nil), d.triggers...)
}

// Path returns the current save destination, or "" when none is set.
func (d *Document) Path() string {
	return d.path
}

// Trials returns the full trial set.
func (d *Document) Trials() *epoch.Trials {
	return d.trials
}

// CleanTrials returns the trial set with bad channels removed. This is
// the view threshold rejection and summaries operate on; it is never
// part of the persisted accept/tag state.
func (d *Document) CleanTrials() *epoch.Trials {
	return d.clean
}

// BadChannels returns a copy of the excluded channel indices in the
// order they were added.
func (d *Document) BadChannels() []int {
	return append([]int(nil), d.badChannels...)
}

// BadChannelNames returns the names of the excluded channels.
func (d *Document) BadChannelNames() []string {
	names := make([]string, len(d.badChannels))
	for i, ch := range d.badChannels {
		names[i] = d.trials.Channels[ch]
	}

	return names
}

// AddObserver registers a notification sink for the session lifetime.
func (d *Document) AddObserver(o Observer) {
	d.observers = append(d.observers, o)
}

// SetCases overwrites the accept flags (and tags, when tags is non-nil)
// of the given trials and notifies observers with the affected index
// set. indices nil means the whole trial set, with accept/tags spanning
// all trials; otherwise accept[k] (and tags[k]) belongs to indices[k].
//
// This is the only state-mutating entry point. It performs no
// legality checks: change records always carry valid prior state, and
// they are the only callers.
func (d *Document) SetCases(indices []int, accept []bool, tags []string) {
	if indices == nil {
		copy(d.accept, accept)
		if tags != nil {
			copy(d.tags, tags)
		}
	} else {
		for k, i := range indices {
			d.accept[i] = accept[k]
			if tags != nil {
				d.tags[i] = tags[k]
			}
		}
	}

	changed := indices
	if changed == nil {
		changed = make([]int, len(d.accept))
		for i := range changed {
			changed[i] = i
		}
	}

	for _, o := range d.observers {
		o.CasesChanged(changed)
	}
}

// SetBadChannels adds channel indices to the exclusion set; with reset
// the set is cleared first. The derived clean view is recomputed. Bad
// channels are session configuration, not document state: they bypass
// the undo history and are persisted only as save metadata.
func (d *Document) SetBadChannels(channels []int, reset bool) error {
	if reset {
		d.badChannels = d.badChannels[:0]
	}

	for _, ch := range channels {
		if ch < 0 || ch >= d.trials.NumChannels() {
			return fmt.Errorf("%w: channel index %d out of range", ErrInvalidArgument, ch)
		}

		known := false
		for _, have := range d.badChannels {
			if have == ch {
				known = true

				break
			}
		}

		if !known {
			d.badChannels = append(d.badChannels, ch)
		}
	}

	d.clean = d.trials.DropChannels(d.badChannels)

	return nil
}

// GrandAverage returns the channel-by-time mean over all accepted
// trials of the clean (bad-channel-excluded) view. Fails with
// ErrEmptySelection when no trial is accepted.
func (d *Document) GrandAverage() ([][]float64, error) {
	avg, ok := d.clean.Average(d.accept)
	if !ok {
		return nil, ErrEmptySelection
	}

	return avg, nil
}

// SetPath updates the save destination, appending the tabular default
// extension when the path has none, and notifies observers.
func (d *Document) SetPath(path string) {
	d.path = normalizePath(path)

	for _, o := range d.observers {
		o.PathChanged()
	}
}

// save writes the current state to the document's path.
func (d *Document) save() error {
	return writeRejectionFile(d.path, d.triggers, d.accept, d.tags, d.BadChannelNames())
}
