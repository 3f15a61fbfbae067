package docsync

import (
	"github.com/dshills/docsync/internal/editorhost"
	"github.com/dshills/docsync/internal/normdoc"
)

func toDocChanges(in []editorhost.Change) []normdoc.Change {
	out := make([]normdoc.Change, len(in))
	for i, c := range in {
		out[i] = normdoc.Change{Start: c.Start, End: c.End, Text: c.Text}
	}
	return out
}

func toEditorEdits(in []normdoc.Change) []editorhost.Edit {
	out := make([]editorhost.Edit, len(in))
	for i, c := range in {
		out[i] = editorhost.Edit{Start: c.Start, End: c.End, Replacement: c.Text}
	}
	return out
}
