package editorhost

import (
	"sort"
	"sync"

	"github.com/dshills/docsync/internal/engine/buffer"
)

// MemEditor is an in-memory Editor backed by the rope-based Buffer, used
// by tests and the demo binary in place of a real editor integration.
type MemEditor struct {
	mu           sync.Mutex
	buf          *buffer.Buffer
	observers    map[int]ChangeFunc
	nextObserver int
	forceRejectN int
}

// NewMemEditor creates a MemEditor seeded with initial, preserving
// whichever line ending style initial already uses.
func NewMemEditor(initial string) *MemEditor {
	le := buffer.DetectLineEnding(initial)
	return &MemEditor{
		buf:       buffer.NewBufferFromString(initial, buffer.WithLineEnding(le)),
		observers: make(map[int]ChangeFunc),
	}
}

// Text returns the buffer's current content.
func (e *MemEditor) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Text()
}

// ForceRejectNext makes the next n ApplyEdit calls fail without mutating
// the buffer, simulating a buffer that moved under the edit — a
// test-only hook standing in for real concurrent-editor races.
func (e *MemEditor) ForceRejectNext(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.forceRejectN = n
}

// ApplyEdit applies edits atomically via the buffer's reverse-order batch
// apply, reporting false (without mutating) if a forced rejection is
// pending or the batch is invalid against current content.
func (e *MemEditor) ApplyEdit(edits []Edit) bool {
	e.mu.Lock()
	if e.forceRejectN > 0 {
		e.forceRejectN--
		e.mu.Unlock()
		return false
	}

	bufEdits := make([]buffer.Edit, len(edits))
	for i, ed := range edits {
		bufEdits[i] = buffer.NewEdit(buffer.NewRange(buffer.ByteOffset(ed.Start), buffer.ByteOffset(ed.End)), ed.Replacement)
	}
	// Buffer.ApplyEdits requires highest-offset-first ordering.
	sort.Slice(bufEdits, func(i, j int) bool { return bufEdits[i].Range.Start > bufEdits[j].Range.Start })

	if err := e.buf.ApplyEdits(bufEdits); err != nil {
		e.mu.Unlock()
		return false
	}

	cbs := make([]ChangeFunc, 0, len(e.observers))
	for _, cb := range e.observers {
		cbs = append(cbs, cb)
	}
	e.mu.Unlock()

	changes := make([]Change, len(edits))
	for i, ed := range edits {
		changes[i] = Change{Start: ed.Start, End: ed.End, Text: ed.Replacement}
	}
	ev := ChangeEvent{Changes: changes}
	for _, cb := range cbs {
		cb(ev)
	}
	return true
}

// OnChange registers cb; the returned func unregisters it.
func (e *MemEditor) OnChange(cb ChangeFunc) func() {
	e.mu.Lock()
	id := e.nextObserver
	e.nextObserver++
	e.observers[id] = cb
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.observers, id)
		e.mu.Unlock()
	}
}

var _ Editor = (*MemEditor)(nil)
