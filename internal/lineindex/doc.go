// Package lineindex computes a sorted table mapping line starts to both their
// native (editor-side) and normalized (CRDT-side) byte offsets.
//
// The table is the only structure that permits O(log n) line/column queries
// without re-scanning the whole document on every keystroke. Building it is a
// single left-to-right scan over the native text; querying it is binary
// search. Callers that mutate the underlying text are expected to discard the
// Index and rebuild — Index itself is immutable, mirroring the rope
// package's copy-on-write style.
package lineindex
