package crdttext

import (
	"sync"

	"github.com/google/uuid"
)

// charNode is one character of a MemText, ordered by Position (fractional
// indexing lets an insertion slot itself between two existing nodes without
// renumbering the rest of the document), and tombstoned rather than
// spliced out on delete — the same shape the pack's document CRDTs use to
// let concurrent edits converge without a central sequence counter.
type charNode struct {
	id       uuid.UUID
	char     rune
	position float64
	deleted  bool
}

// MemText is an in-memory stand-in for a shared CRDT text, used by tests
// and the demo binary in place of a real multi-peer implementation. It
// backs Insert/Delete with a tombstoned, fractionally-positioned character
// list and fires observers once per Transact batch.
type MemText struct {
	mu    sync.Mutex
	id    uuid.UUID
	nodes []charNode

	observers map[uuid.UUID]Observer
	inTxn     bool
	txnDelta  Delta
	txnCursor int
}

// NewMemText creates an empty MemText.
func NewMemText() *MemText {
	return &MemText{
		id:        uuid.New(),
		observers: make(map[uuid.UUID]Observer),
	}
}

// NewMemTextFromString creates a MemText pre-populated with s.
func NewMemTextFromString(s string) *MemText {
	t := NewMemText()
	for i, r := range []rune(s) {
		t.nodes = append(t.nodes, charNode{id: uuid.New(), char: r, position: float64(i + 1)})
	}
	return t
}

// ToString returns the current visible (non-tombstoned) content.
func (t *MemText) ToString() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visibleLocked()
}

func (t *MemText) visibleLocked() string {
	runes := make([]rune, 0, len(t.nodes))
	for _, n := range t.nodes {
		if !n.deleted {
			runes = append(runes, n.char)
		}
	}
	return string(runes)
}

// Insert inserts s at the given visible-character offset.
func (t *MemText) Insert(offset int, s string) error {
	t.mu.Lock()
	t.insertLocked(offset, s)
	fire, delta, local := t.recordLocked(offset, Insert(s), offset+len(s))
	t.mu.Unlock()
	if fire {
		t.fire(delta, local)
	}
	return nil
}

func (t *MemText) insertLocked(offset int, s string) {
	seen := 0
	insertAt := len(t.nodes)
	for i, n := range t.nodes {
		if n.deleted {
			continue
		}
		if seen == offset {
			insertAt = i
			break
		}
		seen++
	}

	var before, after float64
	if insertAt > 0 {
		before = t.nodes[insertAt-1].position
	}
	if insertAt < len(t.nodes) {
		after = t.nodes[insertAt].position
	} else {
		after = before + float64(len([]rune(s))+1)
	}

	newNodes := make([]charNode, 0, len(s))
	step := (after - before) / float64(len([]rune(s))+1)
	for i, r := range []rune(s) {
		newNodes = append(newNodes, charNode{
			id:       uuid.New(),
			char:     r,
			position: before + step*float64(i+1),
		})
	}
	tail := make([]charNode, len(t.nodes)-insertAt)
	copy(tail, t.nodes[insertAt:])
	t.nodes = append(t.nodes[:insertAt], append(newNodes, tail...)...)
}

// Delete tombstones length visible characters starting at offset.
func (t *MemText) Delete(offset, length int) error {
	t.mu.Lock()
	t.deleteLocked(offset, length)
	fire, delta, local := t.recordLocked(offset, Delete(length), offset)
	t.mu.Unlock()
	if fire {
		t.fire(delta, local)
	}
	return nil
}

func (t *MemText) deleteLocked(offset, length int) {
	seen := 0
	remaining := length
	for i := range t.nodes {
		if t.nodes[i].deleted {
			continue
		}
		if seen < offset {
			seen++
			continue
		}
		if remaining == 0 {
			break
		}
		t.nodes[i].deleted = true
		remaining--
	}
}

// recordLocked must be called with t.mu held. offset is the absolute
// position op applies at, in the document as it stands after every op
// already recorded in this batch; cursorAfter is where ToChanges' own
// running cursor lands once op has been processed (offset+len(inserted)
// for an insert, offset for a delete, mirroring Delta.ToChanges'
// cursor-advance rules exactly). Before appending op, a Retain spanning
// the gap between the batch's current cursor and offset is emitted so
// ToChanges can recover op's absolute position — without it, every op
// would decode as if it occurred at offset 0.
//
// recordLocked either buffers the ops into the enclosing transaction's
// delta, or reports that the caller should fire a single-op-batch event
// once it has released the lock.
func (t *MemText) recordLocked(offset int, op DeltaOp, cursorAfter int) (fire bool, delta Delta, local bool) {
	if t.inTxn {
		if gap := offset - t.txnCursor; gap > 0 {
			t.txnDelta = append(t.txnDelta, Retain(gap))
		}
		t.txnDelta = append(t.txnDelta, op)
		t.txnCursor = cursorAfter
		return false, nil, false
	}

	var ops Delta
	if offset > 0 {
		ops = append(ops, Retain(offset))
	}
	ops = append(ops, op)
	return true, ops, true
}

// Transact runs fn as one atomic batch. Observers see a single Event with
// the accumulated delta once fn returns nil; on error the batch's nodes
// are left applied (this reference implementation has no rollback log) but
// no Event fires, matching the "transaction aborts" failure semantics the
// caller relies on for its own text mirror.
func (t *MemText) Transact(fn func() error) error {
	return t.transact(true, fn)
}

// SimulateRemote runs fn as one atomic batch exactly like Transact, but
// fires observers with Transaction.Local == false. MemText has no real
// peers, so this is how tests and the demo binary stand in for "another
// collaborator committed this change and its delta just arrived."
func (t *MemText) SimulateRemote(fn func() error) error {
	return t.transact(false, fn)
}

func (t *MemText) transact(local bool, fn func() error) error {
	t.mu.Lock()
	if t.inTxn {
		t.mu.Unlock()
		return fn()
	}
	t.inTxn = true
	t.txnDelta = nil
	t.txnCursor = 0
	t.mu.Unlock()

	err := fn()

	t.mu.Lock()
	delta := t.txnDelta
	t.inTxn = false
	t.txnDelta = nil
	t.mu.Unlock()

	if err != nil {
		return err
	}
	if len(delta) > 0 {
		t.fire(delta, local)
	}
	return nil
}

// fire must be called without t.mu held.
func (t *MemText) fire(delta Delta, local bool) {
	t.mu.Lock()
	cbs := make([]Observer, 0, len(t.observers))
	for _, cb := range t.observers {
		cbs = append(cbs, cb)
	}
	t.mu.Unlock()

	ev := Event{Delta: delta, Transaction: Transaction{Local: local}}
	for _, cb := range cbs {
		cb(ev)
	}
}

// Observe registers cb; the returned func unregisters it.
func (t *MemText) Observe(cb Observer) func() {
	t.mu.Lock()
	id := uuid.New()
	t.observers[id] = cb
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.observers, id)
		t.mu.Unlock()
	}
}

var _ Text = (*MemText)(nil)
