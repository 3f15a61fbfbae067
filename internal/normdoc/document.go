package normdoc

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/dshills/docsync/internal/crdttext"
	"github.com/dshills/docsync/internal/echotrack"
	"github.com/dshills/docsync/internal/lineindex"
)

// ErrOverlappingEdit is returned by UpdateChanges when a change list is not
// a valid ascending, non-overlapping sequence.
var ErrOverlappingEdit = echotrack.ErrOverlappingEdit

// Change is a native-offset replacement of [Start, End) with Text. It is
// the same type the change tracker operates on, so callers never convert
// between the two packages' vocabularies.
type Change = echotrack.Change

// Position is a 0-based line/character pair. Per the external interface
// this core is agnostic about whether character counts UTF-16 code units
// or bytes; callers that need UTF-16 semantics should measure Text in that
// unit before constructing a Position.
type Position struct {
	Line      uint32
	Character uint32
}

// Option configures a Document at construction.
type Option func(*Document)

// WithInitialNative seeds the document's native mirror and its hasCR
// detection from text, instead of the CRDT's own (always LF-only) string.
// This is the common case: an editor buffer already holds CRLF content and
// is being bound to a freshly created or freshly opened shared text.
func WithInitialNative(text string) Option {
	return func(d *Document) {
		d.text = text
		d.hasCR = containsCR(text)
	}
}

// Document is the normalized view of a shared CRDT text bound to a local
// editor buffer. All methods are safe for concurrent use, though the
// sync engine that owns a Document drives it from a single cooperative
// loop per §5.
type Document struct {
	mu sync.Mutex

	crdt  crdttext.Text
	text  string
	hasCR bool

	idx      lineindex.Index
	idxValid bool
}

// New creates a Document bound to crdt. Its initial native text is read
// from crdt.ToString() and hasCR is detected from that text, unless
// overridden by WithInitialNative.
func New(crdt crdttext.Text, opts ...Option) *Document {
	d := &Document{crdt: crdt}
	initial := crdt.ToString()
	d.text = initial
	d.hasCR = containsCR(initial)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func containsCR(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '\r' {
			return true
		}
	}
	return false
}

// Text returns the current native text mirror.
func (d *Document) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}

// HasCR reports the line-ending style captured at construction, used to
// decide whether remote insert text is rewritten with CRLF.
func (d *Document) HasCR() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasCR
}

// CRDTText returns the shared text's current content, for drift detection
// against Text() during resync.
func (d *Document) CRDTText() string {
	return d.crdt.ToString()
}

func (d *Document) ensureIndexLocked() lineindex.Index {
	if !d.idxValid {
		d.idx = lineindex.Build(d.text)
		d.idxValid = true
	}
	return d.idx
}

// OriginalOffset converts a normalized (CRDT) offset to a native (editor)
// offset using the line table.
func (d *Document) OriginalOffset(n uint64) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	idx := d.ensureIndexLocked()
	entry, _ := idx.FindLine(n, lineindex.Normalized)
	return entry.NativeOffset + (n - entry.NormalizedOffset)
}

// NormalizedOffset converts a native offset to a normalized offset,
// symmetric with OriginalOffset.
func (d *Document) NormalizedOffset(o uint64) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	idx := d.ensureIndexLocked()
	entry, _ := idx.FindLine(o, lineindex.Native)
	return entry.NormalizedOffset + (o - entry.NativeOffset)
}

// OriginalOffsetAt converts a position to a native offset.
func (d *Document) OriginalOffsetAt(pos Position) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	idx := d.ensureIndexLocked()
	return idx.OffsetAt(int(pos.Line), uint64(pos.Character), lineindex.Native)
}

// NormalizedOffsetAt converts a position to a normalized offset.
func (d *Document) NormalizedOffsetAt(pos Position) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	idx := d.ensureIndexLocked()
	return idx.OffsetAt(int(pos.Line), uint64(pos.Character), lineindex.Normalized)
}

// PositionAtNormalized composes OriginalOffset with the index's
// PositionAt to locate a normalized offset within the native text.
func (d *Document) PositionAtNormalized(n uint64) Position {
	d.mu.Lock()
	defer d.mu.Unlock()
	idx := d.ensureIndexLocked()
	entry, _ := idx.FindLine(n, lineindex.Normalized)
	native := entry.NativeOffset + (n - entry.NormalizedOffset)
	line, char := idx.PositionAt(native)
	return Position{Line: uint32(line), Character: uint32(char)}
}

// TranslateDelta converts a CRDT delta into native-offset Changes, per the
// observer-path procedure: normalized offsets are mapped through the line
// table and insert text is rewritten to the document's captured CRLF
// style so remote edits preserve the editor's own line-ending convention.
func (d *Document) TranslateDelta(delta crdttext.Delta) []Change {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := d.ensureIndexLocked()
	raw := delta.ToChanges()
	out := make([]Change, len(raw))
	for i, c := range raw {
		startEntry, _ := idx.FindLine(c.Start, lineindex.Normalized)
		endEntry, _ := idx.FindLine(c.End, lineindex.Normalized)
		out[i] = Change{
			Start: startEntry.NativeOffset + (c.Start - startEntry.NormalizedOffset),
			End:   endEntry.NativeOffset + (c.End - endEntry.NormalizedOffset),
			Text:  Normalize(c.Text, d.hasCR),
		}
	}
	return out
}

// ApplyNativeOnly splices changes into the native mirror without touching
// the CRDT. Used by the sync engine once a remote-originated change has
// already been recorded by the change tracker and applied to the editor.
func (d *Document) ApplyNativeOnly(changes []Change) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	after, err := echotrack.ApplyTextChanges(d.text, changes)
	if err != nil {
		return err
	}
	d.text = after
	d.idxValid = false
	return nil
}

// ResyncTo replaces the native mirror with crdtText without propagating
// anything back to the CRDT, returning the text that was replaced.
func (d *Document) ResyncTo(crdtText string) (old string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	old = d.text
	d.text = crdtText
	d.idxValid = false
	return old
}

// UpdateFullText replaces the entire document, pushing normalize(newText)
// into the CRDT as a single delete-then-insert transaction. On CRDT
// failure the native mirror is left untouched.
func (d *Document) UpdateFullText(newText string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.crdt.Transact(func() error {
		cur := d.crdt.ToString()
		if cur != "" {
			if err := d.crdt.Delete(0, utf8.RuneCountInString(cur)); err != nil {
				return err
			}
		}
		norm := Normalize(newText, false)
		if norm != "" {
			if err := d.crdt.Insert(0, norm); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", crdttext.ErrTransactionFailed, err)
	}

	d.text = newText
	d.idxValid = false
	return nil
}

// UpdateChanges applies changes (ascending, non-overlapping, native
// offsets against the text as it stands before this call) to the native
// mirror in place and pushes the equivalent normalized delete/insert pairs
// into the CRDT inside one transaction, per §4.2's algorithm:
//
//  1. sort by ascending start, rejecting overlaps
//  2. for each change, compute the normalized span it covers via a single
//     left-to-right scan (the line index was just invalidated and a cached
//     lookup would be unsafe)
//  3. splice the native text and advance a running delta cursor
//
// On CRDT failure the native mirror is left exactly as it was before the
// call.
func (d *Document) UpdateChanges(changes []Change) error {
	if len(changes) == 0 {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	sorted := make([]Change, len(changes))
	copy(sorted, changes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start < sorted[i-1].End {
			return ErrOverlappingEdit
		}
	}

	type crdtOp struct {
		deleteAt, deleteLen int
		insertAt            int
		insertText          string
	}

	text := d.text
	var delta int64
	ops := make([]crdtOp, 0, len(sorted))

	for _, c := range sorted {
		start := applyDelta(c.Start, delta)
		end := applyDelta(c.End, delta)
		if start > uint64(len(text)) || end > uint64(len(text)) || start > end {
			return errors.New("normdoc: change out of range")
		}

		ns := countNormalized(text, 0, int(start))
		ne := ns + countNormalized(text, int(start), int(end))

		text = text[:start] + c.Text + text[end:]
		delta += int64(len(c.Text)) - int64(end-start)

		ops = append(ops, crdtOp{
			deleteAt:   ns,
			deleteLen:  ne - ns,
			insertAt:   ns,
			insertText: Normalize(c.Text, false),
		})
	}

	if d.crdt != nil {
		err := d.crdt.Transact(func() error {
			for _, op := range ops {
				if op.deleteLen > 0 {
					if err := d.crdt.Delete(op.deleteAt, op.deleteLen); err != nil {
						return err
					}
				}
				if op.insertText != "" {
					if err := d.crdt.Insert(op.insertAt, op.insertText); err != nil {
						return err
					}
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("%w: %v", crdttext.ErrTransactionFailed, err)
		}
	}

	d.text = text
	d.idxValid = false
	return nil
}

func applyDelta(x uint64, delta int64) uint64 {
	return uint64(int64(x) + delta)
}
