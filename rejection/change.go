// ABOUTME: Reversible change records for accept/tag/path edits
// ABOUTME: Each record knows how to apply itself forward and backward

package rejection

// ChangeAction describes one reversible edit to the document: which
// trials changed, their accept flags and tags before and after, and
// optionally a path change. Records are built by the Model from the
// document's actual pre-edit state, which makes Undo an exact inverse
// of Do.
//
// Tags are tri-state: TagsSet false means the edit does not touch the
// tag column at all (OldTags/NewTags are ignored), which is distinct
// from setting every tag to the empty string.
type ChangeAction struct {
	Desc string

	// Indices lists the affected trials. nil means the whole trial
	// set, in which case the accept/tag slices span all trials.
	Indices []int

	OldAccept []bool
	NewAccept []bool

	OldTags []string
	NewTags []string
	TagsSet bool

	// PathSet records a document path change (used by load-file
	// actions). OldPath may be empty when the session had no path
	// before the edit; Undo then leaves the new path in place.
	OldPath string
	NewPath string
	PathSet bool
}

// Do applies the record's new state to the document.
func (a *ChangeAction) Do(doc *Document) {
	var tags []string
	if a.TagsSet {
		tags = a.NewTags
	}

	doc.SetCases(a.Indices, a.NewAccept, tags)

	if a.PathSet {
		doc.SetPath(a.NewPath)
	}
}

// Undo restores the record's old state on the document.
func (a *ChangeAction) Undo(doc *Document) {
	var tags []string
	if a.TagsSet {
		tags = a.OldTags
	}

	doc.SetCases(a.Indices, a.OldAccept, tags)

	if a.PathSet && a.OldPath != "" {
		doc.SetPath(a.OldPath)
	}
}
