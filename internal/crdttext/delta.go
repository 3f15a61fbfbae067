package crdttext

// OpKind identifies which operation a Delta entry performs.
type OpKind uint8

const (
	// OpRetain advances the cursor by N characters without modification.
	OpRetain OpKind = iota
	// OpInsert inserts a string at the cursor.
	OpInsert
	// OpInsertEmbed inserts an opaque embedded value (e.g. an image or
	// widget reference) the core forwards without interpreting.
	OpInsertEmbed
	// OpDelete removes N characters starting at the cursor.
	OpDelete
)

// DeltaOp is one entry of a Delta: retain(n) | insert(s) | insertEmbed(v) | delete(n).
type DeltaOp struct {
	Kind     OpKind
	N        int
	Text     string
	Embedded any
}

// Retain builds a retain operation.
func Retain(n int) DeltaOp { return DeltaOp{Kind: OpRetain, N: n} }

// Insert builds a text-insert operation.
func Insert(s string) DeltaOp { return DeltaOp{Kind: OpInsert, Text: s} }

// InsertEmbed builds an opaque embedded-insert operation. The core forwards
// it without interpreting its payload.
func InsertEmbed(v any) DeltaOp { return DeltaOp{Kind: OpInsertEmbed, Embedded: v} }

// Delete builds a delete operation.
func Delete(n int) DeltaOp { return DeltaOp{Kind: OpDelete, N: n} }

// Delta is an ordered list of retain/insert/delete operations over a
// sequence, applied left to right with a running cursor.
type Delta []DeltaOp

// Change is the editor-facing shape of one replacement: [start, end) in
// native or normalized offsets replaced by text, depending on context.
type Change struct {
	Start uint64
	End   uint64
	Text  string
}

// ToChanges converts a Delta into a list of Changes relative to the
// running cursor position, per the cumulative-retain procedure: only
// Insert and Delete affect the resulting change list; InsertEmbed is
// dropped since the core has no representation for opaque content in a
// plain-text mirror.
func (d Delta) ToChanges() []Change {
	var changes []Change
	var cursor uint64
	for _, op := range d {
		switch op.Kind {
		case OpRetain:
			cursor += uint64(op.N)
		case OpInsert:
			changes = append(changes, Change{Start: cursor, End: cursor, Text: op.Text})
			cursor += uint64(len(op.Text))
		case OpDelete:
			changes = append(changes, Change{Start: cursor, End: cursor + uint64(op.N)})
		case OpInsertEmbed:
			// Opaque content the plain-text core cannot represent; skip.
		}
	}
	return changes
}
