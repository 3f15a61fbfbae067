package crdttext

import "errors"

// ErrTransactionFailed wraps any error raised while a Transact callback
// was running. No observer event fires for the failed batch; whether writes
// made before the error remain depends on the Text implementation (MemText
// keeps them).
var ErrTransactionFailed = errors.New("crdttext: transaction failed")

// Transaction carries metadata about the batch an observer callback fired
// for. Local is true when the transaction originated from this process's
// own Transact call; the sync engine ignores those events by design.
type Transaction struct {
	Local bool
}

// Event is what an Observer callback receives: the delta describing what
// changed and the transaction it changed within.
type Event struct {
	Delta       Delta
	Transaction Transaction
}

// Observer is notified once per committed transaction.
type Observer func(Event)

// Text is the capability the sync engine requires from a shared CRDT text.
// It corresponds to the subset of a Yjs Y.Text this core actually uses.
type Text interface {
	// ToString returns the text's current content.
	ToString() string

	// Insert inserts s at offset.
	Insert(offset int, s string) error

	// Delete removes length characters starting at offset.
	Delete(offset, length int) error

	// Transact runs fn as one atomic batch; observers fire once for the
	// whole batch when fn returns nil, with Transaction.Local set to true.
	Transact(fn func() error) error

	// Observe registers cb to be called on every committed transaction,
	// including this peer's own (Transaction.Local == true).
	Observe(cb Observer) (unobserve func())
}
