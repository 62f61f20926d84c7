// ABOUTME: Linear undo/redo log of change records with a saved marker
// ABOUTME: Tracks whether the document matches its last persisted state

package rejection

// History executes, undoes, and redoes change records against a
// document. It keeps two stacks, done (top = most recent applied
// record) and undone, plus a marker identifying the record that was on
// top of done at the last successful save. Executing a fresh record
// discards the undone stack: the history is linear, never branching.
type History struct {
	doc *Document

	done   []*ChangeAction
	undone []*ChangeAction

	// savedAt is the record on top of done when MarkSaved was last
	// called; nil means the empty history is the saved state (which is
	// also the initial state of every session).
	savedAt   *ChangeAction
	lastSaved bool

	observers []Observer
}

// NewHistory creates an empty history over doc. A fresh history is in
// the saved state.
func NewHistory(doc *Document) *History {
	return &History{
		doc:       doc,
		lastSaved: true,
	}
}

// AddObserver registers a sink for saved-state flips.
func (h *History) AddObserver(o Observer) {
	h.observers = append(h.observers, o)
}

// Do applies a record, pushes it onto the done stack, and discards any
// redo branch.
func (h *History) Do(a *ChangeAction) {
	a.Do(h.doc)
	h.done = append(h.done, a)
	h.undone = h.undone[:0]
	h.notifySaved()
}

// Undo reverts the most recent record. Returns false (without touching
// any state) when there is nothing to undo.
func (h *History) Undo() bool {
	if len(h.done) == 0 {
		return false
	}

	a := h.done[len(h.done)-1]
	h.done = h.done[:len(h.done)-1]
	a.Undo(h.doc)
	h.undone = append(h.undone, a)
	h.notifySaved()

	return true
}

// Redo re-applies the most recently undone record. Returns false when
// there is nothing to redo.
func (h *History) Redo() bool {
	if len(h.undone) == 0 {
		return false
	}

	a := h.undone[len(h.undone)-1]
	h.undone = h.undone[:len(h.undone)-1]
	a.Do(h.doc)
	h.done = append(h.done, a)
	h.notifySaved()

	return true
}

// CanUndo reports whether an undo would succeed.
func (h *History) CanUndo() bool {
	return len(h.done) > 0
}

// CanRedo reports whether a redo would succeed.
func (h *History) CanRedo() bool {
	return len(h.undone) > 0
}

// MarkSaved records that the current history position represents the
// last persisted state.
func (h *History) MarkSaved() {
	h.savedAt = h.top()
	h.notifySaved()
}

// IsSaved reports whether the current history position is the one
// recorded by MarkSaved. Undoing back to the marked record makes the
// session saved again even if later edits were made and then undone.
func (h *History) IsSaved() bool {
	return h.top() == h.savedAt
}

// top returns the record on top of the done stack, or nil when empty.
func (h *History) top() *ChangeAction {
	if len(h.done) == 0 {
		return nil
	}

	return h.done[len(h.done)-1]
}

// notifySaved fires SavedChanged only when the boolean state flips.
func (h *History) notifySaved() {
	saved := h.IsSaved()
	if saved == h.lastSaved {
		return
	}

	h.lastSaved = saved
	for _, o := range h.observers {
		o.SavedChanged(saved)
	}
}
