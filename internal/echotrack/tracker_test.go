package echotrack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyTextChangesEmpty(t *testing.T) {
	got, err := ApplyTextChanges("abcdef", nil)
	require.NoError(t, err)
	assert.Equal(t, "abcdef", got)
}

func TestApplyTextChangesSplice(t *testing.T) {
	got, err := ApplyTextChanges("hello\nworld", []Change{{Start: 5, End: 5, Text: "X"}})
	require.NoError(t, err)
	assert.Equal(t, "helloX\nworld", got)
}

func TestApplyTextChangesOverlapRejected(t *testing.T) {
	_, err := ApplyTextChanges("abcdef", []Change{
		{Start: 0, End: 3, Text: "X"},
		{Start: 2, End: 4, Text: "Y"},
	})
	require.ErrorIs(t, err, ErrOverlappingEdit)
}

func TestShouldApplySuppressesEcho(t *testing.T) {
	tr := NewTracker()
	before := "hello\nworld"
	after, err := tr.ApplyChanges(before, []Change{{Start: 5, End: 5, Text: "X"}}, func() error {
		// While the ChangeSet is pending, the same edit re-reported by the
		// editor must be recognized as an echo — and ShouldApply must not
		// mutate the pending set doing so, since the same echo can be
		// reported more than once before the callback returns.
		assert.False(t, tr.ShouldApply([]Change{{Start: 5, End: 5, Text: "X"}}))
		assert.False(t, tr.ShouldApply([]Change{{Start: 5, End: 5, Text: "X"}}))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "helloX\nworld", after)

	// ApplyChanges removed the record unconditionally once the callback
	// returned, so the same change list is no longer recognized as an echo.
	assert.True(t, tr.ShouldApply([]Change{{Start: 5, End: 5, Text: "X"}}))
	assert.Empty(t, tr.Pending())
}

func TestApplyChangesRemovesRecordOnSuccess(t *testing.T) {
	tr := NewTracker()
	_, err := tr.ApplyChanges("abc", []Change{{Start: 1, End: 1, Text: "X"}}, func() error { return nil })
	require.NoError(t, err)
	assert.Empty(t, tr.Pending(), "a successfully applied ChangeSet must not linger in pending")
}

func TestApplyChangesRemovesRecordOnError(t *testing.T) {
	tr := NewTracker()
	wantErr := assertError("boom")
	_, err := tr.ApplyChanges("abc", []Change{{Start: 1, End: 1, Text: "X"}}, func() error {
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)
	assert.Empty(t, tr.Pending())
}

func TestShouldApplyGenuineRemoteChange(t *testing.T) {
	tr := NewTracker()
	_, err := tr.ApplyChanges("abc", []Change{{Start: 0, End: 0, Text: "Z"}}, func() error { return nil })
	require.NoError(t, err)

	assert.True(t, tr.ShouldApply([]Change{{Start: 3, End: 3, Text: "!"}}))
}

type simpleError string

func (e simpleError) Error() string { return string(e) }

func assertError(msg string) error { return simpleError(msg) }
