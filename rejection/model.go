// ABOUTME: Session controller building change records from user intents
// ABOUTME: Manual toggle, threshold auto-rejection, clear, load, save

package rejection

import (
	"fmt"
	"math"
	"strconv"

	"epoch-select/epoch"
)

// Method selects how the threshold is applied to a trial's signal.
type Method string

// Recognized threshold methods. MethodAbsolute compares the maximum
// absolute sample value; MethodPeakToPeak compares the largest
// per-channel peak-to-peak range.
const (
	MethodAbsolute   Method = "absolute"
	MethodPeakToPeak Method = "p2p"
)

// ParseMethod resolves a method name, accepting the short and long
// aliases used by older tooling.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "absolute", "abs":
		return MethodAbsolute, nil
	case "p2p", "peak-to-peak":
		return MethodPeakToPeak, nil
	default:
		return "", fmt.Errorf("%w: method %q (want absolute or p2p)", ErrInvalidArgument, s)
	}
}

// ThresholdConfig parameterizes threshold auto-rejection. Above and
// Below are tri-state: nil leaves the corresponding trials unchanged,
// otherwise the pointed-to value is the accept flag written to that
// group. The usual pass is Above=false (reject exceeding trials) with
// Below=true (re-accept everything within the threshold).
type ThresholdConfig struct {
	Threshold float64
	Method    Method
	Above     *bool
	Below     *bool
}

// tag returns the tag written to every trial the rejection changes,
// e.g. "absolute_2e-12".
func (c ThresholdConfig) tag() string {
	return string(c.Method) + "_" + strconv.FormatFloat(c.Threshold, 'g', -1, 64)
}

// Model is the session controller: the only component that constructs
// change records, and the only path through which session state
// mutates. The GUI drives it and queries it; it owns the document and
// the history.
type Model struct {
	doc     *Document
	history *History
}

// NewModel creates a controller over doc with a fresh history.
func NewModel(doc *Document) *Model {
	return &Model{
		doc:     doc,
		history: NewHistory(doc),
	}
}

// Doc returns the session state (read-only use by views).
func (m *Model) Doc() *Document {
	return m.doc
}

// Subscribe registers an observer for case, path, and saved-state
// notifications, for the session lifetime.
func (m *Model) Subscribe(o Observer) {
	m.doc.AddObserver(o)
	m.history.AddObserver(o)
}

// CanUndo reports whether an undo would succeed.
func (m *Model) CanUndo() bool { return m.history.CanUndo() }

// CanRedo reports whether a redo would succeed.
func (m *Model) CanRedo() bool { return m.history.CanRedo() }

// IsSaved reports whether the session matches its last persisted state.
func (m *Model) IsSaved() bool { return m.history.IsSaved() }

// Undo reverts the most recent edit. Returns false when the history is
// empty.
func (m *Model) Undo() bool { return m.history.Undo() }

// Redo re-applies the most recently undone edit. Returns false when
// there is nothing to redo.
func (m *Model) Redo() bool { return m.history.Redo() }

// SetCase overwrites the accept flag of one trial, and its tag when
// tag is non-nil. A nil tag leaves the tag column untouched, which is
// distinct from setting the tag to "".
func (m *Model) SetCase(index int, accept bool, tag *string, desc string) error {
	if index < 0 || index >= m.doc.Len() {
		return fmt.Errorf("%w: trial index %d out of range", ErrInvalidArgument, index)
	}

	a := &ChangeAction{
		Desc:      desc,
		Indices:   []int{index},
		OldAccept: []bool{m.doc.AcceptAt(index)},
		NewAccept: []bool{accept},
	}

	if tag != nil {
		a.TagsSet = true
		a.OldTags = []string{m.doc.TagAt(index)}
		a.NewTags = []string{*tag}
	}

	m.history.Do(a)

	return nil
}

// ToggleAccept flips the accept flag of one trial, tagging it with the
// given reason (typically "manual").
func (m *Model) ToggleAccept(index int, tag string) error {
	if index < 0 || index >= m.doc.Len() {
		return fmt.Errorf("%w: trial index %d out of range", ErrInvalidArgument, index)
	}

	state := !m.doc.AcceptAt(index)
	desc := fmt.Sprintf("Epoch %d %v", index, state)

	return m.SetCase(index, state, &tag, desc)
}

// AutoReject marks trials against a threshold criterion. The per-trial
// extremum is computed over the bad-channel-excluded view, reduced
// across channels and time. Only trials whose accept flag actually
// changes enter the change record; they all receive the tag
// "<method>_<threshold>". Returns the number of changed trials.
//
// The comparison itself is pure and side-effect free; state mutates
// only when the resulting record is executed.
func (m *Model) AutoReject(cfg ThresholdConfig) (int, error) {
	if cfg.Method != MethodAbsolute && cfg.Method != MethodPeakToPeak {
		return 0, fmt.Errorf("%w: method %q (want absolute or p2p)", ErrInvalidArgument, cfg.Method)
	}

	if math.IsNaN(cfg.Threshold) || math.IsInf(cfg.Threshold, 0) || cfg.Threshold <= 0 {
		return 0, fmt.Errorf("%w: threshold %v (want a positive finite value)", ErrInvalidArgument, cfg.Threshold)
	}

	clean := m.doc.CleanTrials()
	stats := epoch.ComputeStats(clean)

	newAccept := m.doc.Accept()
	for i := range newAccept {
		value := stats[i].MaxAbs
		if cfg.Method == MethodPeakToPeak {
			value = stats[i].PeakToPeak
		}

		if value <= cfg.Threshold {
			newAccept[i] = applyMark(cfg.Below, newAccept[i])
		} else {
			newAccept[i] = applyMark(cfg.Above, newAccept[i])
		}
	}

	var changed []int
	for i, accept := range newAccept {
		if accept != m.doc.AcceptAt(i) {
			changed = append(changed, i)
		}
	}

	if len(changed) == 0 {
		return 0, nil
	}

	tag := cfg.tag()
	a := &ChangeAction{
		Desc:      fmt.Sprintf("Threshold-%s", cfg.Method),
		Indices:   changed,
		OldAccept: make([]bool, len(changed)),
		NewAccept: make([]bool, len(changed)),
		OldTags:   make([]string, len(changed)),
		NewTags:   make([]string, len(changed)),
		TagsSet:   true,
	}

	for k, i := range changed {
		a.OldAccept[k] = m.doc.AcceptAt(i)
		a.NewAccept[k] = newAccept[i]
		a.OldTags[k] = m.doc.TagAt(i)
		a.NewTags[k] = tag
	}

	m.history.Do(a)

	return len(changed), nil
}

// applyMark resolves the tri-state policy for one trial: nil keeps the
// prior accept value, otherwise the mark is the new accept value.
func applyMark(mark *bool, prior bool) bool {
	if mark == nil {
		return prior
	}

	return *mark
}

// Clear forces every currently rejected trial back to accepted, tagged
// "clear". When nothing is rejected this is a true no-op: no record is
// pushed and the saved state is untouched. Returns the number of
// trials cleared.
func (m *Model) Clear() int {
	var rejected []int
	for i := 0; i < m.doc.Len(); i++ {
		if !m.doc.AcceptAt(i) {
			rejected = append(rejected, i)
		}
	}

	if len(rejected) == 0 {
		return 0
	}

	a := &ChangeAction{
		Desc:      "Clear",
		Indices:   rejected,
		OldAccept: make([]bool, len(rejected)),
		NewAccept: make([]bool, len(rejected)),
		OldTags:   make([]string, len(rejected)),
		NewTags:   make([]string, len(rejected)),
		TagsSet:   true,
	}

	for k, i := range rejected {
		a.OldAccept[k] = false
		a.NewAccept[k] = true
		a.OldTags[k] = m.doc.TagAt(i)
		a.NewTags[k] = "clear"
	}

	m.history.Do(a)

	return len(rejected)
}

// Load replaces the whole session state with the contents of a
// rejection file. Validation failures leave document and history
// completely unchanged. A successful load immediately marks the
// session saved relative to the loaded file.
func (m *Model) Load(path string) error {
	path = normalizePath(path)

	state, err := readRejectionFile(path, m.doc.Triggers())
	if err != nil {
		return err
	}

	a := &ChangeAction{
		Desc:      "Load File",
		Indices:   nil, // whole trial set
		OldAccept: m.doc.Accept(),
		NewAccept: state.Accept,
		OldTags:   m.doc.Tags(),
		NewTags:   state.Tags,
		TagsSet:   true,
		OldPath:   m.doc.Path(),
		NewPath:   path,
		PathSet:   true,
	}

	m.history.Do(a)
	m.history.MarkSaved()

	return nil
}

// Save writes the current state to the session path and marks the
// history saved. Saving creates no change record: it does not alter
// session state.
func (m *Model) Save() error {
	if m.doc.Path() == "" {
		return fmt.Errorf("%w: no save path set", ErrInvalidArgument)
	}

	if err := m.doc.save(); err != nil {
		return err
	}

	m.history.MarkSaved()

	return nil
}

// SaveAs sets a new session path and saves to it.
func (m *Model) SaveAs(path string) error {
	m.doc.SetPath(path)

	return m.Save()
}
