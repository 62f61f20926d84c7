// ABOUTME: Tests for the undo/redo history and its saved marker
// ABOUTME: Linear-history discipline and saved-state transitivity

package rejection

import "testing"

// rejectAction builds a single-trial reject record against doc's
// current state.
func rejectAction(doc *Document, index int) *ChangeAction {
	return &ChangeAction{
		Indices:   []int{index},
		OldAccept: []bool{doc.AcceptAt(index)},
		NewAccept: []bool{false},
	}
}

func TestHistoryDoUndoRedo(t *testing.T) {
	doc, err := NewDocument(trialsWithAmps(1, 2, 3), "")
	if err != nil {
		t.Fatal(err)
	}
	h := NewHistory(doc)

	h.Do(rejectAction(doc, 0))
	h.Do(rejectAction(doc, 1))

	if !h.Undo() {
		t.Fatal("Undo failed with two records")
	}
	if !doc.AcceptAt(1) || doc.AcceptAt(0) {
		t.Error("Undo restored wrong state")
	}

	if !h.Redo() {
		t.Fatal("Redo failed after undo")
	}
	if doc.AcceptAt(1) {
		t.Error("Redo did not re-apply the record")
	}
}

func TestHistoryEmptyNoOps(t *testing.T) {
	doc, err := NewDocument(trialsWithAmps(1), "")
	if err != nil {
		t.Fatal(err)
	}
	h := NewHistory(doc)

	if h.Undo() {
		t.Error("Undo on empty history should return false")
	}

	if h.Redo() {
		t.Error("Redo on empty history should return false")
	}

	if h.CanUndo() || h.CanRedo() {
		t.Error("Empty history should report no undo/redo")
	}

	if !h.IsSaved() {
		t.Error("Fresh history should be saved")
	}
}

func TestHistoryDoDiscardsRedo(t *testing.T) {
	doc, err := NewDocument(trialsWithAmps(1, 2), "")
	if err != nil {
		t.Fatal(err)
	}
	h := NewHistory(doc)

	h.Do(rejectAction(doc, 0))
	h.Undo()

	if !h.CanRedo() {
		t.Fatal("Expected a redo branch after undo")
	}

	h.Do(rejectAction(doc, 1))

	if h.CanRedo() {
		t.Error("New record must discard the redo branch")
	}
}

func TestHistorySavedMarkerTransitive(t *testing.T) {
	doc, err := NewDocument(trialsWithAmps(1, 2, 3), "")
	if err != nil {
		t.Fatal(err)
	}
	h := NewHistory(doc)

	h.Do(rejectAction(doc, 0))
	h.MarkSaved()

	if !h.IsSaved() {
		t.Fatal("Expected saved right after MarkSaved")
	}

	h.Do(rejectAction(doc, 1))
	h.Do(rejectAction(doc, 2))

	if h.IsSaved() {
		t.Error("Expected unsaved after further edits")
	}

	// Undoing back to the marked position restores saved
	h.Undo()
	h.Undo()

	if !h.IsSaved() {
		t.Error("Expected saved after undoing back to the marked record")
	}

	// And moving away again flips it back
	h.Redo()

	if h.IsSaved() {
		t.Error("Expected unsaved after redoing past the marked record")
	}
}

func TestHistorySavedAtEmpty(t *testing.T) {
	doc, err := NewDocument(trialsWithAmps(1), "")
	if err != nil {
		t.Fatal(err)
	}
	h := NewHistory(doc)

	h.Do(rejectAction(doc, 0))

	if h.IsSaved() {
		t.Error("Expected unsaved after first edit")
	}

	// Undoing the only edit returns to the initial (saved) state
	h.Undo()

	if !h.IsSaved() {
		t.Error("Expected saved after undoing back to the empty history")
	}
}

func TestHistorySavedNotificationsFlipOnly(t *testing.T) {
	doc, err := NewDocument(trialsWithAmps(1, 2, 3), "")
	if err != nil {
		t.Fatal(err)
	}
	h := NewHistory(doc)

	rec := &recorder{}
	h.AddObserver(rec)

	h.Do(rejectAction(doc, 0)) // saved -> unsaved
	h.Do(rejectAction(doc, 1)) // still unsaved, no event
	h.MarkSaved()              // unsaved -> saved
	h.MarkSaved()              // still saved, no event

	want := []bool{false, true}
	if len(rec.savedFlips) != len(want) {
		t.Fatalf("SavedChanged events = %v, want %v", rec.savedFlips, want)
	}

	for i, v := range want {
		if rec.savedFlips[i] != v {
			t.Errorf("SavedChanged event %d = %v, want %v", i, rec.savedFlips[i], v)
		}
	}
}
