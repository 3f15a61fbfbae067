// Package normdoc owns the local string mirror of a shared CRDT text and
// translates positions and offsets between the editor's native
// representation (which may use CRLF) and the CRDT's canonical LF-only
// representation.
//
// It is grounded on the teacher's engine/buffer package: the same
// in-place, lock-guarded mutation style and line-ending vocabulary
// (LineEnding, normalizeLineEndings), generalized from a rope-backed
// editor buffer to a plain string mirror sitting in front of a CRDT
// instead of a terminal renderer.
package normdoc
