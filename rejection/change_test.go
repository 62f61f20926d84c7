// ABOUTME: Tests for reversible change records
// ABOUTME: Do/Undo inversion, tag tri-state, and path restore rules

package rejection

import "testing"

func TestChangeActionDoUndo(t *testing.T) {
	doc, err := NewDocument(trialsWithAmps(1, 2, 3), "")
	if err != nil {
		t.Fatal(err)
	}

	a := &ChangeAction{
		Desc:      "reject trial 1",
		Indices:   []int{1},
		OldAccept: []bool{true},
		NewAccept: []bool{false},
		OldTags:   []string{""},
		NewTags:   []string{"manual"},
		TagsSet:   true,
	}

	a.Do(doc)

	if doc.AcceptAt(1) || doc.TagAt(1) != "manual" {
		t.Error("Do did not apply new state")
	}

	a.Undo(doc)

	if !doc.AcceptAt(1) || doc.TagAt(1) != "" {
		t.Error("Undo did not restore old state")
	}
}

func TestChangeActionTagsNotSet(t *testing.T) {
	doc, err := NewDocument(trialsWithAmps(1), "")
	if err != nil {
		t.Fatal(err)
	}

	doc.SetCases([]int{0}, []bool{false}, []string{"absolute_2e-12"})

	// An accept-only edit must leave the existing tag alone
	a := &ChangeAction{
		Indices:   []int{0},
		OldAccept: []bool{false},
		NewAccept: []bool{true},
	}

	a.Do(doc)
	if doc.TagAt(0) != "absolute_2e-12" {
		t.Errorf("Do with TagsSet=false cleared tag: %q", doc.TagAt(0))
	}

	a.Undo(doc)
	if doc.TagAt(0) != "absolute_2e-12" {
		t.Errorf("Undo with TagsSet=false cleared tag: %q", doc.TagAt(0))
	}
}

func TestChangeActionPathUndo(t *testing.T) {
	doc, err := NewDocument(trialsWithAmps(1), "old.txt")
	if err != nil {
		t.Fatal(err)
	}

	a := &ChangeAction{
		Indices:   []int{0},
		OldAccept: []bool{true},
		NewAccept: []bool{true},
		OldPath:   "old.txt",
		NewPath:   "new.txt",
		PathSet:   true,
	}

	a.Do(doc)
	if doc.Path() != "new.txt" {
		t.Errorf("Path after Do = %q, want new.txt", doc.Path())
	}

	a.Undo(doc)
	if doc.Path() != "old.txt" {
		t.Errorf("Path after Undo = %q, want old.txt", doc.Path())
	}
}

func TestChangeActionPathUndoKeepsNewWhenNoOldPath(t *testing.T) {
	doc, err := NewDocument(trialsWithAmps(1), "")
	if err != nil {
		t.Fatal(err)
	}

	a := &ChangeAction{
		Indices:   []int{0},
		OldAccept: []bool{true},
		NewAccept: []bool{true},
		OldPath:   "",
		NewPath:   "new.txt",
		PathSet:   true,
	}

	a.Do(doc)
	a.Undo(doc)

	// The session had no destination before; losing the new one again
	// would leave it unsaveable.
	if doc.Path() != "new.txt" {
		t.Errorf("Path after Undo = %q, want new.txt", doc.Path())
	}
}
