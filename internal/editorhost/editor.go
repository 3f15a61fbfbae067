package editorhost

// Edit is a replacement of the native byte range [Start, End) with
// Replacement text.
type Edit struct {
	Start       uint64
	End         uint64
	Replacement string
}

// ChangeEvent is what OnChange callbacks receive: the batch of changes the
// editor just applied, in native offsets.
type ChangeEvent struct {
	Changes []Change
}

// Change is one native-offset replacement reported by the editor.
type Change struct {
	Start uint64
	End   uint64
	Text  string
}

// ChangeFunc is invoked on every editor content change, including ones the
// sync engine itself just applied via ApplyEdit.
type ChangeFunc func(ChangeEvent)

// Editor is the capability the sync engine requires from a bound text
// editor buffer.
type Editor interface {
	// Text returns the editor's current content.
	Text() string

	// ApplyEdit applies edits atomically and reports whether they were
	// accepted. A false return means the buffer moved under the edit
	// (e.g. its version advanced between snapshot and apply) and the
	// caller should recompute the edit against current content and retry.
	ApplyEdit(edits []Edit) bool

	// OnChange registers cb to be called after every applied change,
	// local or engine-driven. The returned func unregisters it.
	OnChange(cb ChangeFunc) (unregister func())
}
