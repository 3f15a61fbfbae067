package docsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/docsync/internal/crdttext"
	"github.com/dshills/docsync/internal/editorhost"
	"github.com/dshills/docsync/internal/syncconfig"
)

func TestEchoSuppressionScenario(t *testing.T) {
	crdt := crdttext.NewMemTextFromString("hello\nworld")
	editor := editorhost.NewMemEditor("hello\nworld")
	eng := New(editor, crdt)
	defer eng.Close()

	err := crdt.SimulateRemote(func() error {
		return crdt.Insert(5, "X")
	})
	require.NoError(t, err)

	assert.Equal(t, "helloX\nworld", editor.Text())
	assert.Equal(t, StateIdle, eng.State())

	// The editor re-reported the very edit the engine applied on its behalf
	// through OnChange while the engine was ApplyingRemote; that echo must
	// not have been forwarded back to the CRDT as a second insert.
	assert.Equal(t, "helloX\nworld", crdt.ToString())
}

func TestGenuineLocalEditPropagates(t *testing.T) {
	crdt := crdttext.NewMemTextFromString("ab")
	editor := editorhost.NewMemEditor("ab")
	eng := New(editor, crdt)
	defer eng.Close()

	editor.ApplyEdit([]editorhost.Edit{{Start: 1, End: 1, Replacement: "Z"}})

	assert.Equal(t, "aZb", editor.Text())
	assert.Equal(t, "aZb", crdt.ToString())
}

func TestResyncAfterDriftScenario(t *testing.T) {
	crdt := crdttext.NewMemTextFromString("bar")
	editor := editorhost.NewMemEditor("bar")
	eng := New(editor, crdt)
	defer eng.Close()

	// A direct (non-SimulateRemote) CRDT write is treated as this
	// process's own transaction and ignored by the observer, so the
	// editor is left out of sync — out-of-band drift.
	require.NoError(t, crdt.Delete(0, 3))
	require.NoError(t, crdt.Insert(0, "bar-upstream"))
	require.NotEqual(t, editor.Text(), crdt.ToString())

	before := crdt.ToString()
	eng.Reconcile()

	assert.Equal(t, crdt.ToString(), editor.Text())
	assert.Equal(t, before, crdt.ToString(), "resync must not write back to the CRDT")
	assert.Equal(t, StateIdle, eng.State())
}

func TestRetryExhaustionSchedulesResyncWithoutRaising(t *testing.T) {
	crdt := crdttext.NewMemTextFromString("hello")
	editor := editorhost.NewMemEditor("hello")
	cfg := syncconfig.Default()
	cfg.MaxEditRetries = 3
	eng := New(editor, crdt, WithConfig(cfg))
	defer eng.Close()

	editor.ForceRejectNext(3)

	require.NotPanics(t, func() {
		err := crdt.SimulateRemote(func() error {
			return crdt.Insert(0, "X")
		})
		require.NoError(t, err)
	})

	// The editor never accepted the edit, so its text is unchanged, and
	// no error reached the caller of SimulateRemote.
	assert.Equal(t, "hello", editor.Text())
	assert.Equal(t, StateIdle, eng.State())
}
