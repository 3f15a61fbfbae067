package echotrack

import (
	"errors"
	"sort"
	"sync"

	"github.com/dshills/docsync/internal/crdttext"
)

// ErrOverlappingEdit is returned when a change list is not a valid
// non-overlapping, ascending-by-start sequence.
var ErrOverlappingEdit = errors.New("echotrack: overlapping edit")

// Change is a native-offset replacement of [Start, End) with Text.
type Change struct {
	Start uint64
	End   uint64
	Text  string
}

// ChangeSet records one recorded edit: the text before it was applied and
// the text after.
type ChangeSet struct {
	Before string
	After  string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithCapacityHint preallocates the pending list for expected concurrency;
// it does not bound the tracker the way the teacher's ring-buffer history
// does, since an entry here lives only for the duration of the applyFn
// call it was recorded for, rather than being retained for later
// inspection.
func WithCapacityHint(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.pending = make([]ChangeSet, 0, n)
		}
	}
}

// Tracker records in-flight remote edits and decides whether a
// subsequently observed editor change is an echo of one of them.
type Tracker struct {
	mu      sync.Mutex
	pending []ChangeSet
}

// NewTracker constructs an empty Tracker.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ShouldApply reports whether changes (as reported by the editor) should
// be forwarded to the CRDT. It returns false — an echo — when applying
// changes to any recorded ChangeSet's Before text reproduces that
// ChangeSet's After text exactly; comparing resulting text rather than raw
// events because editors coalesce and reorder adjacent edits. This is a
// read-only check: a ChangeSet is removed only by the ApplyChanges call
// that recorded it, once its applyFn completes, never as a side effect of
// a match here.
func (t *Tracker) ShouldApply(changes []Change) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, cs := range t.pending {
		synthesized, err := ApplyTextChanges(cs.Before, changes)
		if err != nil {
			continue
		}
		if synthesized == cs.After {
			return false
		}
	}
	return true
}

// ApplyTextChanges splices changes into text in ascending-start order and
// returns the resulting string. It returns ErrOverlappingEdit if any
// change's start falls before the previous change's end.
func ApplyTextChanges(text string, changes []Change) (string, error) {
	if len(changes) == 0 {
		return text, nil
	}

	sorted := make([]Change, len(changes))
	copy(sorted, changes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var b []byte
	var cursor uint64
	var prevEnd uint64
	for i, c := range sorted {
		if i > 0 && c.Start < prevEnd {
			return "", ErrOverlappingEdit
		}
		if c.Start > uint64(len(text)) || c.End > uint64(len(text)) || c.Start > c.End {
			return "", ErrOverlappingEdit
		}
		b = append(b, text[cursor:c.Start]...)
		b = append(b, c.Text...)
		cursor = c.End
		prevEnd = c.End
	}
	b = append(b, text[cursor:]...)
	return string(b), nil
}

// ApplyChanges records a ChangeSet{Before: doc, After: result-of-changes}
// before invoking applyFn, so the record is in place the instant the
// editor applies the edit — any echo of this same change that ShouldApply
// observes while applyFn is still running matches against it. The record
// is removed unconditionally once applyFn returns, whether it succeeded
// or failed, per §7: a pending ChangeSet must never outlive the callback
// that it was recorded for, or a later, unrelated edit could be wrongly
// matched against a stale entry. It returns the synthesized "after" text
// and applyFn's error.
func (t *Tracker) ApplyChanges(doc string, changes []Change, applyFn func() error) (string, error) {
	after, err := ApplyTextChanges(doc, changes)
	if err != nil {
		return "", err
	}

	cs := ChangeSet{Before: doc, After: after}
	t.mu.Lock()
	t.pending = append(t.pending, cs)
	t.mu.Unlock()

	applyErr := applyFn()
	t.remove(cs)
	if applyErr != nil {
		return "", applyErr
	}
	return after, nil
}

// ApplyDelta converts delta into a Change list using the same cumulative-
// retain procedure the normalized document uses, then calls ApplyChanges.
func (t *Tracker) ApplyDelta(delta crdttext.Delta, doc string, applyFn func() error) (string, []Change, error) {
	changes := fromCRDTChanges(delta.ToChanges())
	after, err := t.ApplyChanges(doc, changes, applyFn)
	return after, changes, err
}

func fromCRDTChanges(in []crdttext.Change) []Change {
	out := make([]Change, len(in))
	for i, c := range in {
		out[i] = Change{Start: c.Start, End: c.End, Text: c.Text}
	}
	return out
}

func (t *Tracker) remove(target ChangeSet) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, cs := range t.pending {
		if cs == target {
			t.pending = append(t.pending[:i], t.pending[i+1:]...)
			return
		}
	}
}

// Pending returns a snapshot of currently in-flight ChangeSets, chiefly
// for tests.
func (t *Tracker) Pending() []ChangeSet {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]ChangeSet, len(t.pending))
	copy(out, t.pending)
	return out
}
