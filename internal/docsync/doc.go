// Package docsync binds one editor buffer to one shared CRDT text: it
// routes local edits through the change tracker into the CRDT, routes
// remote CRDT events through the tracker into the editor, and resolves
// drift between the two by full-text resync.
//
// Its state machine and debounced reconciliation are grounded on the
// teacher's project/watcher.DebouncedWatcher (timer+mutex coalescing) and
// lsp.DocumentManager (per-document debounced sync bookkeeping).
package docsync
