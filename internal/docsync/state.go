package docsync

// State is the sync engine's state for one bound document.
type State uint8

const (
	// StateIdle means no pending remote edit and no pending local edit.
	StateIdle State = iota
	// StateApplyingRemote means a CRDT observer fired and the engine is
	// inside the editor's ApplyEdit call on its behalf.
	StateApplyingRemote
	// StateApplyingLocal means the engine is inside a CRDT transaction
	// writing user edits.
	StateApplyingLocal
	// StateResyncing means a drift between editor and CRDT text was
	// detected and the engine is replacing the editor buffer wholesale.
	StateResyncing
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateApplyingRemote:
		return "applying_remote"
	case StateApplyingLocal:
		return "applying_local"
	case StateResyncing:
		return "resyncing"
	default:
		return "unknown"
	}
}
