package docsync

import (
	"sync"
	"time"

	"github.com/dshills/docsync/internal/applog"
	"github.com/dshills/docsync/internal/crdttext"
	"github.com/dshills/docsync/internal/echotrack"
	"github.com/dshills/docsync/internal/editorhost"
	"github.com/dshills/docsync/internal/normdoc"
	"github.com/dshills/docsync/internal/syncconfig"
)

// Option configures an Engine at construction.
type Option func(*Engine)

// WithConfig overrides the engine's tunables (spec §6). A non-nil cfg
// replaces syncconfig.Default() as a whole, so every field, zero or not,
// is taken from cfg as given; a nil cfg keeps the defaults.
func WithConfig(cfg *syncconfig.Config) Option {
	return func(e *Engine) {
		if cfg != nil {
			e.cfg = cfg
		}
	}
}

// WithLogger overrides the engine's logger.
func WithLogger(log *applog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// Engine binds one editor buffer to one CRDT text and keeps them
// converged. All operations run on one event loop per bound document per
// spec §5; the mutex below serializes state transitions and bookkeeping
// rather than modeling real contention.
type Engine struct {
	mu    sync.Mutex
	state State

	doc     *normdoc.Document
	editor  editorhost.Editor
	crdt    crdttext.Text
	tracker *echotrack.Tracker
	cfg     *syncconfig.Config
	log     *applog.Logger

	disposed bool

	unobserveCRDT    func()
	unregisterEditor func()

	debounceMu     sync.Mutex
	debounceTimer  *time.Timer
	firstPendingAt time.Time

	// resyncMu serializes the Resync critical section so only one
	// full-text replacement runs at a time, independent of the state
	// mutex above (spec §5).
	resyncMu sync.Mutex

	stopCh chan struct{}
}

// New binds editor to crdtText and starts the engine's observers and
// timers. The document's initial native text is the editor's current
// content, preserving its line-ending style.
func New(editor editorhost.Editor, crdtText crdttext.Text, opts ...Option) *Engine {
	doc := normdoc.New(crdtText, normdoc.WithInitialNative(editor.Text()))

	e := &Engine{
		state:   StateIdle,
		doc:     doc,
		editor:  editor,
		crdt:    crdtText,
		tracker: echotrack.NewTracker(),
		cfg:     syncconfig.Default(),
		log:     applog.Default().WithComponent("docsync"),
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.unobserveCRDT = crdtText.Observe(e.onCRDTEvent)
	e.unregisterEditor = editor.OnChange(e.onEditorChange)

	go e.runForcedTimer()

	return e
}

// State returns the engine's current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Document exposes the bound normalized document, chiefly for tests and
// the demo binary.
func (e *Engine) Document() *normdoc.Document {
	return e.doc
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

func (e *Engine) isDisposed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disposed
}

// Close unsubscribes from both the editor and the CRDT, stops all timers,
// and marks the engine disposed. Pending callbacks that are already
// running are allowed to finish; no further events are processed.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return ErrDisposed
	}
	e.disposed = true
	e.mu.Unlock()

	close(e.stopCh)
	if e.unobserveCRDT != nil {
		e.unobserveCRDT()
	}
	if e.unregisterEditor != nil {
		e.unregisterEditor()
	}

	e.debounceMu.Lock()
	if e.debounceTimer != nil {
		e.debounceTimer.Stop()
	}
	e.debounceMu.Unlock()

	return nil
}

// onEditorChange handles a content change reported by the bound editor —
// either the user typing, or the engine's own ApplyEdit call echoing back
// through the same OnChange hook. Only genuine user edits observed while
// Idle are forwarded to the CRDT.
func (e *Engine) onEditorChange(ev editorhost.ChangeEvent) {
	if e.isDisposed() {
		return
	}

	e.mu.Lock()
	idle := e.state == StateIdle
	e.mu.Unlock()
	if !idle {
		// The engine's own ApplyEdit call during ApplyingRemote/Resyncing
		// fires this same hook; should_apply would reach the same
		// conclusion, but the state check avoids even computing it.
		return
	}

	changes := toDocChanges(ev.Changes)
	if !e.tracker.ShouldApply(changes) {
		return
	}

	e.setState(StateApplyingLocal)
	if err := e.doc.UpdateChanges(changes); err != nil {
		e.log.Error("docsync: local update failed: %v", err)
	}
	e.setState(StateIdle)

	e.touchDebounce()
}

// onCRDTEvent handles a committed CRDT transaction. Transactions this
// engine itself produced (Transaction.Local == true) are ignored by
// design — they are the observer firing for the ApplyingLocal write this
// engine just made.
func (e *Engine) onCRDTEvent(ev crdttext.Event) {
	if ev.Transaction.Local {
		return
	}
	if e.isDisposed() {
		return
	}

	e.setState(StateApplyingRemote)
	e.applyRemoteWithRetry(ev.Delta)
	e.setState(StateIdle)

	e.touchDebounce()
}

// applyRemoteWithRetry pushes one CRDT delta into the editor, retrying up
// to Config.MaxEditRetries times with freshly recomputed native offsets
// if the editor rejects the edit. The original normalized delta is
// preserved across retries; only its native translation is recomputed.
// Exhausting retries schedules a resync instead of raising to the caller.
func (e *Engine) applyRemoteWithRetry(delta crdttext.Delta) {
	for attempt := 0; attempt < e.cfg.MaxEditRetries; attempt++ {
		changes := e.doc.TranslateDelta(delta)
		before := e.doc.Text()

		_, err := e.tracker.ApplyChanges(before, changes, func() error {
			if !e.editor.ApplyEdit(toEditorEdits(changes)) {
				return ErrEditorRejectedEdit
			}
			return e.doc.ApplyNativeOnly(changes)
		})

		if err == nil {
			return
		}
		if err == ErrEditorRejectedEdit {
			continue
		}

		e.log.Error("docsync: remote apply failed: %v", err)
		return
	}

	e.log.Warn("docsync: exhausted %d retries applying remote edit, scheduling resync", e.cfg.MaxEditRetries)
	e.touchDebounce()
}

// touchDebounce (re)starts the trailing-edge reconciliation timer,
// capping the total delay at Config.ResyncMaxWait since the first
// pending touch — the same coalescing shape as the teacher's
// DebouncedWatcher.
func (e *Engine) touchDebounce() {
	e.debounceMu.Lock()
	defer e.debounceMu.Unlock()

	now := time.Now()
	if e.debounceTimer == nil {
		e.firstPendingAt = now
		e.debounceTimer = time.AfterFunc(e.cfg.ResyncDebounce(), e.fireDebounce)
		return
	}

	delay := e.cfg.ResyncDebounce()
	if elapsed := now.Sub(e.firstPendingAt); elapsed+delay > e.cfg.ResyncMaxWait() {
		delay = e.cfg.ResyncMaxWait() - elapsed
		if delay < 0 {
			delay = 0
		}
	}
	e.debounceTimer.Reset(delay)
}

func (e *Engine) fireDebounce() {
	e.debounceMu.Lock()
	e.debounceTimer = nil
	e.debounceMu.Unlock()
	e.Reconcile()
}

func (e *Engine) runForcedTimer() {
	ticker := time.NewTicker(e.cfg.ResyncTimer())
	defer ticker.Stop()
	for {
		select {
		case <-e.stopCh:
			return
		case <-ticker.C:
			e.Reconcile()
		}
	}
}

// Reconcile compares the editor's text against the CRDT's text and, if
// they've diverged, replaces the editor buffer wholesale with the CRDT's
// content without propagating anything back to the CRDT. Safe to call
// directly (e.g. from tests) in addition to the automatic debounce and
// forced timers.
func (e *Engine) Reconcile() {
	if e.isDisposed() {
		return
	}

	e.resyncMu.Lock()
	defer e.resyncMu.Unlock()

	editorText := e.editor.Text()
	crdtNative := normdoc.Normalize(e.crdt.ToString(), e.doc.HasCR())
	if editorText == crdtNative {
		return
	}

	e.setState(StateResyncing)
	e.editor.ApplyEdit([]editorhost.Edit{{
		Start:       0,
		End:         uint64(len(editorText)),
		Replacement: crdtNative,
	}})
	e.doc.ResyncTo(crdtNative)
	e.setState(StateIdle)
}
