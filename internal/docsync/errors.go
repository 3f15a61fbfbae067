package docsync

import (
	"errors"

	"github.com/dshills/docsync/internal/crdttext"
	"github.com/dshills/docsync/internal/echotrack"
)

// ErrOverlappingEdit is a ProgrammerError: callers must not submit
// overlapping edits. Surfaced synchronously, never retried.
var ErrOverlappingEdit = echotrack.ErrOverlappingEdit

// ErrEditorRejectedEdit is a TransientEditorFailure: the editor's
// ApplyEdit reported that the buffer moved under the edit. Retried up to
// Config.MaxEditRetries; once exhausted it is downgraded to a scheduled
// resync rather than surfaced to the caller.
var ErrEditorRejectedEdit = errors.New("docsync: editor rejected edit")

// ErrTransactionFailed is a TransportError from the CRDT side. It is
// propagated to the caller unchanged; the engine never retries CRDT
// writes.
var ErrTransactionFailed = crdttext.ErrTransactionFailed

// ErrDisposed is a LifecycleError returned by Close when the engine has
// already been closed. After Close, Reconcile and the editor and CRDT
// event handlers return without doing anything and report no error.
var ErrDisposed = errors.New("docsync: engine disposed")
