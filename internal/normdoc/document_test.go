package normdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/docsync/internal/crdttext"
)

func TestOffsetRoundTrip(t *testing.T) {
	crdt := crdttext.NewMemTextFromString("hello\nworld\nfoo")
	doc := New(crdt)

	for n := uint64(0); n <= uint64(len(crdt.ToString())); n++ {
		native := doc.OriginalOffset(n)
		back := doc.NormalizedOffset(native)
		assert.Equal(t, n, back, "offset %d", n)
	}
}

func TestLineEndingPreservationScenario(t *testing.T) {
	// Spec scenario 2: editor text "a\r\nb", CRDT text "a\nb", CRDT delta
	// [retain 2, insert "X"] must translate to native {start:3,end:3,text:"X"}.
	crdt := crdttext.NewMemTextFromString("a\nb")
	doc := New(crdt, WithInitialNative("a\r\nb"))

	delta := crdttext.Delta{crdttext.Retain(2), crdttext.Insert("X")}
	changes := doc.TranslateDelta(delta)

	require.Len(t, changes, 1)
	assert.Equal(t, uint64(3), changes[0].Start)
	assert.Equal(t, uint64(3), changes[0].End)
	assert.Equal(t, "X", changes[0].Text)
}

func TestNewlineNormalizationOutbound(t *testing.T) {
	// Spec scenario 3: editor change {start:1,end:1,text:"\r\n"} must push
	// insert("\n") into the CRDT at the corresponding normalized offset.
	crdt := crdttext.NewMemTextFromString("ab")
	doc := New(crdt, WithInitialNative("ab"))

	err := doc.UpdateChanges([]Change{{Start: 1, End: 1, Text: "\r\n"}})
	require.NoError(t, err)

	assert.Equal(t, "a\nb", crdt.ToString())
	assert.Equal(t, "a\r\nb", doc.Text())
}

func TestUpdateChangesOverlapRejected(t *testing.T) {
	crdt := crdttext.NewMemTextFromString("abcdef")
	doc := New(crdt)

	err := doc.UpdateChanges([]Change{
		{Start: 0, End: 3, Text: "X"},
		{Start: 2, End: 4, Text: "Y"},
	})
	require.ErrorIs(t, err, ErrOverlappingEdit)
	// Native mirror untouched.
	assert.Equal(t, "abcdef", doc.Text())
}

func TestResyncToReplacesMirrorWithoutPropagating(t *testing.T) {
	crdt := crdttext.NewMemTextFromString("bar")
	doc := New(crdt, WithInitialNative("foo"))

	old := doc.ResyncTo(crdt.ToString())
	assert.Equal(t, "foo", old)
	assert.Equal(t, "bar", doc.Text())
	assert.Equal(t, "bar", crdt.ToString())
}

func TestBoundarySingleNewline(t *testing.T) {
	crdt := crdttext.NewMemTextFromString("\n")
	doc := New(crdt)
	assert.Equal(t, uint64(0), doc.OriginalOffset(0))
	assert.Equal(t, uint64(1), doc.OriginalOffset(1))
}
