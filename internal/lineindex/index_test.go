package lineindex

import "testing"

func TestBuildEmpty(t *testing.T) {
	ix := Build("")
	if ix.LineCount() != 1 {
		t.Fatalf("expected 1 entry, got %d", ix.LineCount())
	}
	if ix.Length(Native) != 0 || ix.Length(Normalized) != 0 {
		t.Fatalf("expected zero length, got native=%d normalized=%d", ix.Length(Native), ix.Length(Normalized))
	}
}

func TestBuildSingleLF(t *testing.T) {
	// A single-character document containing only "\n" has two line
	// entries {0,0} and {1,1} — spec §8 Boundaries.
	ix := Build("\n")
	entries := ix.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0] != (Entry{0, 0}) {
		t.Errorf("entry0 = %+v, want {0,0}", entries[0])
	}
	if entries[1] != (Entry{1, 1}) {
		t.Errorf("entry1 = %+v, want {1,1}", entries[1])
	}
}

func TestBuildCRLFOnly(t *testing.T) {
	// A CRLF-only document of length 2 has two line-start entries ({0,0}
	// and {2,1}), native_length=2,
	// normalized_length=1 — spec §8 Boundaries.
	ix := Build("\r\n")
	if ix.LineCount() != 2 {
		t.Fatalf("expected 2 entries (start + after CRLF), got %d", ix.LineCount())
	}
	if ix.Length(Native) != 2 {
		t.Errorf("native length = %d, want 2", ix.Length(Native))
	}
	if ix.Length(Normalized) != 1 {
		t.Errorf("normalized length = %d, want 1", ix.Length(Normalized))
	}
}

func TestBuildMixedLineEndings(t *testing.T) {
	text := "a\r\nb\nc"
	ix := Build(text)
	entries := ix.Entries()
	want := []Entry{
		{0, 0},
		{3, 2}, // after "a\r\n": native 3, normalized 2 (one CRLF collapsed)
		{5, 4}, // after "b\n"
	}
	if len(entries) != len(want) {
		t.Fatalf("entries = %+v, want %+v", entries, want)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entries[%d] = %+v, want %+v", i, entries[i], want[i])
		}
	}
	if ix.Length(Native) != uint64(len(text)) {
		t.Errorf("native length = %d, want %d", ix.Length(Native), len(text))
	}
	if ix.Length(Normalized) != 5 { // "a\nb\nc"
		t.Errorf("normalized length = %d, want 5", ix.Length(Normalized))
	}
}

func TestMonotonic(t *testing.T) {
	ix := Build("one\r\ntwo\nthree\r\nfour")
	entries := ix.Entries()
	for i := 1; i < len(entries); i++ {
		if entries[i].NativeOffset <= entries[i-1].NativeOffset {
			t.Fatalf("native offsets not strictly increasing at %d: %+v", i, entries)
		}
		if entries[i].NormalizedOffset <= entries[i-1].NormalizedOffset {
			t.Fatalf("normalized offsets not strictly increasing at %d: %+v", i, entries)
		}
	}
}

func TestPositionAtRoundTrip(t *testing.T) {
	text := "hello\nworld\nfoo"
	ix := Build(text)

	for offset := 0; offset <= len(text); offset++ {
		line, char := ix.PositionAt(uint64(offset))
		got := ix.OffsetAt(line, char, Native)
		if got != uint64(offset) {
			// With LF-only text no offset falls inside a multi-byte EOL
			// sequence, so every offset maps back to itself.
			t.Errorf("round trip of offset %d gave %d (line %d, char %d)", offset, got, line, char)
		}
	}

	// Spot-check a few concrete positions.
	line, char := ix.PositionAt(0)
	if line != 0 || char != 0 {
		t.Errorf("PositionAt(0) = (%d,%d), want (0,0)", line, char)
	}
	line, char = ix.PositionAt(6) // start of "world"
	if line != 1 || char != 0 {
		t.Errorf("PositionAt(6) = (%d,%d), want (1,0)", line, char)
	}
	line, char = ix.PositionAt(uint64(len(text)))
	if line != 2 || char != 3 {
		t.Errorf("PositionAt(end) = (%d,%d), want (2,3)", line, char)
	}
}

func TestPositionAtPullsBackFromEOL(t *testing.T) {
	// Offset landing on the '\n' itself pulls back to end of visible content.
	ix := Build("ab\ncd")
	line, char := ix.PositionAt(2) // the '\n' byte
	if line != 0 || char != 2 {
		t.Errorf("PositionAt(2) = (%d,%d), want (0,2) [pulled back before EOL]", line, char)
	}
}

func TestPositionAtPullsBackFromCRLF(t *testing.T) {
	// A lone "\r\n" line: offsets on '\r' or '\n' both clamp to line start,
	// never crossing below it (resolves the spec's open ambiguity).
	ix := Build("\r\nx")
	line, char := ix.PositionAt(0)
	if line != 0 || char != 0 {
		t.Errorf("PositionAt(0) = (%d,%d), want (0,0)", line, char)
	}
	line, char = ix.PositionAt(1)
	if line != 0 || char != 0 {
		t.Errorf("PositionAt(1) = (%d,%d), want (0,0)", line, char)
	}
}

func TestOffsetAtClampsNegativeAndOverflow(t *testing.T) {
	ix := Build("ab\ncd\n")
	if got := ix.OffsetAt(-1, 0, Native); got != 0 {
		t.Errorf("OffsetAt(-1,...) = %d, want 0", got)
	}
	if got := ix.OffsetAt(100, 0, Native); got != ix.Length(Native) {
		t.Errorf("OffsetAt(100,...) = %d, want %d", got, ix.Length(Native))
	}
	if got := ix.OffsetAt(0, 1000, Native); got != ix.Length(Native) {
		t.Errorf("OffsetAt(0, huge char) = %d, want %d (clamped to doc length)", got, ix.Length(Native))
	}
}

func TestFindLine(t *testing.T) {
	ix := Build("aa\nbb\ncc")
	entry, idx := ix.FindLine(4, Native) // inside "bb"
	if idx != 1 || entry.NativeOffset != 3 {
		t.Errorf("FindLine(4) = (%+v, %d), want (NativeOffset 3, idx 1)", entry, idx)
	}
}
