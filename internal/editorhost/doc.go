// Package editorhost defines the capability the sync engine expects from a
// local text editor buffer and supplies an in-memory reference
// implementation, built on the teacher's engine/buffer package, for tests
// and the demo binary.
package editorhost
