// Package crdttext defines the capability surface the sync engine expects
// from a shared CRDT text (a Yjs-compatible text type in the system this
// core was built for) and supplies an in-memory reference implementation of
// that surface for tests and the demo binary.
//
// The real CRDT is an external collaborator; this package does not attempt
// to implement a convergent replicated sequence. MemText stores fractional
// character positions with tombstones, grounded on the pack's
// document-CRDT implementations. It is a single replica with no way to
// merge another replica's state; SimulateRemote stands in for edits that
// arrive from other peers.
package crdttext
