package crdttext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertEmitsRetainForNonZeroOffset(t *testing.T) {
	text := NewMemTextFromString("hello\nworld")

	var got Event
	unobserve := text.Observe(func(ev Event) { got = ev })
	defer unobserve()

	require.NoError(t, text.Insert(5, "X"))
	assert.Equal(t, "helloX\nworld", text.ToString())

	changes := got.Delta.ToChanges()
	require.Len(t, changes, 1)
	assert.Equal(t, uint64(5), changes[0].Start)
	assert.Equal(t, uint64(5), changes[0].End)
	assert.Equal(t, "X", changes[0].Text)
	assert.True(t, got.Transaction.Local)
}

func TestDeleteEmitsRetainForNonZeroOffset(t *testing.T) {
	text := NewMemTextFromString("hello world")

	var got Event
	text.Observe(func(ev Event) { got = ev })

	require.NoError(t, text.Delete(5, 6))
	assert.Equal(t, "hello", text.ToString())

	changes := got.Delta.ToChanges()
	require.Len(t, changes, 1)
	assert.Equal(t, uint64(5), changes[0].Start)
	assert.Equal(t, uint64(11), changes[0].End)
}

func TestInsertAtZeroOffsetEmitsNoLeadingRetain(t *testing.T) {
	text := NewMemTextFromString("world")

	var got Event
	text.Observe(func(ev Event) { got = ev })

	require.NoError(t, text.Insert(0, "hello "))
	assert.Equal(t, "hello world", text.ToString())

	require.Len(t, got.Delta, 1)
	assert.Equal(t, OpInsert, got.Delta[0].Kind)

	changes := got.Delta.ToChanges()
	require.Len(t, changes, 1)
	assert.Equal(t, uint64(0), changes[0].Start)
}

func TestTransactBatchesMultipleOpsWithCorrectPositions(t *testing.T) {
	text := NewMemTextFromString("hello world")

	var got Event
	text.Observe(func(ev Event) { got = ev })

	err := text.Transact(func() error {
		if err := text.Delete(0, 6); err != nil {
			return err
		}
		return text.Insert(0, "goodbye ")
	})
	require.NoError(t, err)
	assert.Equal(t, "goodbye world", text.ToString())

	changes := got.Delta.ToChanges()
	require.Len(t, changes, 2)
	assert.Equal(t, uint64(0), changes[0].Start)
	assert.Equal(t, uint64(6), changes[0].End)
	assert.Equal(t, uint64(0), changes[1].Start)
	assert.Equal(t, "goodbye ", changes[1].Text)
}

func TestSimulateRemoteMarksTransactionNonLocal(t *testing.T) {
	text := NewMemTextFromString("ab")

	var got Event
	text.Observe(func(ev Event) { got = ev })

	require.NoError(t, text.SimulateRemote(func() error {
		return text.Insert(2, "c")
	}))

	assert.False(t, got.Transaction.Local)
	changes := got.Delta.ToChanges()
	require.Len(t, changes, 1)
	assert.Equal(t, uint64(2), changes[0].Start)
}
