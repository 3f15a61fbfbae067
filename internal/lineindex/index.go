package lineindex

import "sort"

// Space selects which coordinate system an offset or query is expressed in.
type Space uint8

const (
	// Native is the editor's own representation (may use CRLF).
	Native Space = iota
	// Normalized is the CRDT's canonical representation (LF only).
	Normalized
)

// Entry pairs the native and normalized byte offsets of a single line start.
type Entry struct {
	NativeOffset     uint64
	NormalizedOffset uint64
}

// Offset returns the entry's offset in the requested space.
func (e Entry) Offset(space Space) uint64 {
	if space == Normalized {
		return e.NormalizedOffset
	}
	return e.NativeOffset
}

// Index is a sorted table of line-start offsets built from a single scan of
// native text. It is strictly monotonically increasing in both columns.
type Index struct {
	entries          []Entry
	nativeLength     uint64
	normalizedLength uint64
}

// Build scans text left to right and constructs the line-offset table.
//
// The table always starts with {0,0}. For every newline encountered, a CRLF
// pair advances the running normalization offset by one (since CRLF collapses
// to a single LF in normalized space); the entry pushed for the following
// line records the normalized offset after that collapse.
//
// normalizedLength is derived directly from the final scan counter (total
// bytes minus total CRLF pairs seen) rather than from the
// "native_length + #lines − normalization_offset" formula in the original
// design note, which over-counts by the number of newlines — see DESIGN.md.
func Build(text string) Index {
	entries := []Entry{{NativeOffset: 0, NormalizedOffset: 0}}

	var normOffset uint64
	for i := 0; i < len(text); i++ {
		if text[i] != '\n' {
			continue
		}
		if i > 0 && text[i-1] == '\r' {
			normOffset++
		}
		nativeStart := uint64(i + 1)
		entries = append(entries, Entry{
			NativeOffset:     nativeStart,
			NormalizedOffset: nativeStart - normOffset,
		})
	}

	nativeLength := uint64(len(text))
	return Index{
		entries:          entries,
		nativeLength:     nativeLength,
		normalizedLength: nativeLength - normOffset,
	}
}

// Entries returns the cached table. Callers must not mutate the result.
func (ix Index) Entries() []Entry {
	return ix.entries
}

// LineCount returns the number of line-start entries in the table.
func (ix Index) LineCount() int {
	return len(ix.entries)
}

// Length returns the total document length in the given space.
func (ix Index) Length(space Space) uint64 {
	if space == Normalized {
		return ix.normalizedLength
	}
	return ix.nativeLength
}

// FindLine returns the line entry containing offset in the given space, and
// its index. The chosen line is the last entry whose offset is <= offset.
func (ix Index) FindLine(offset uint64, space Space) (Entry, int) {
	n := len(ix.entries)
	high := sort.Search(n, func(i int) bool {
		return ix.entries[i].Offset(space) > offset
	})
	idx := high - 1
	if idx < 0 {
		idx = 0
	}
	return ix.entries[idx], idx
}

// eolLenNative returns the byte length of the line terminator (0, 1, or 2)
// that follows the line starting at idx, derived from the gap between
// consecutive entries in both spaces (CRLF collapses to one LF byte in
// normalized space, so the native/normalized delta reveals its width).
// Returns 0 for the last line (no trailing terminator).
func (ix Index) eolLenNative(idx int) uint64 {
	if idx+1 >= len(ix.entries) {
		return 0
	}
	cur, next := ix.entries[idx], ix.entries[idx+1]
	nativeLineLen := next.NativeOffset - cur.NativeOffset
	normalizedLineLen := next.NormalizedOffset - cur.NormalizedOffset
	// normalizedLineLen counts exactly one '\n' for the terminator; the
	// native terminator is whatever's left over.
	return nativeLineLen - (normalizedLineLen - 1)
}

// contentEnd returns the native offset of the end of visible content on the
// line at idx — i.e. the offset just before its line terminator begins.
func (ix Index) contentEnd(idx int) uint64 {
	if idx+1 >= len(ix.entries) {
		return ix.nativeLength
	}
	next := ix.entries[idx+1]
	return next.NativeOffset - ix.eolLenNative(idx)
}

// PositionAt converts a native byte offset to a (line, character) position.
// If the offset lands inside a line's EOL sequence, it is pulled back to the
// end of visible content on that line — clamped to the line's start, never
// crossing into the previous line (resolves the spec's open ambiguity about
// clamping past a lone "\r\n" line).
func (ix Index) PositionAt(nativeOffset uint64) (line int, character uint64) {
	entry, idx := ix.FindLine(nativeOffset, Native)

	end := ix.contentEnd(idx)
	offset := nativeOffset
	if offset > end {
		offset = end
	}
	if offset < entry.NativeOffset {
		offset = entry.NativeOffset
	}
	return idx, offset - entry.NativeOffset
}

// OffsetAt converts a (line, character) position to an offset in the given
// space, clamped to [0, Length(space)].
//
//   - line >= LineCount()  -> Length(space)
//   - line < 0             -> 0
//   - character beyond the line's length -> min(line_start+character, Length(space))
func (ix Index) OffsetAt(line int, character uint64, space Space) uint64 {
	if line < 0 {
		return 0
	}
	if line >= len(ix.entries) {
		return ix.Length(space)
	}

	base := ix.entries[line].Offset(space)
	total := ix.Length(space)
	offset := base + character
	if offset > total {
		offset = total
	}
	return offset
}
