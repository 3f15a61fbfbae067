package normdoc

import "strings"

// Normalize rewrites every line ending in text to "\n" (useCRLF=false) or to
// "\r\n" (useCRLF=true). The CRDT side of this system always stores
// useCRLF=false; useCRLF=true is used only when rewriting remote insert
// text back into the editor's own line-ending style.
func Normalize(text string, useCRLF bool) string {
	s := strings.ReplaceAll(text, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if useCRLF {
		s = strings.ReplaceAll(s, "\n", "\r\n")
	}
	return s
}

// countNormalized returns the number of bytes in text[from:to] that are not
// a bare '\r' — i.e. the length that range would occupy once CRLF pairs
// collapse to a single '\n'. Used to compute the normalized span a native
// change covers while the line index is invalid and a direct lookup would
// be unsafe.
func countNormalized(text string, from, to int) int {
	n := 0
	for i := from; i < to; i++ {
		if text[i] != '\r' {
			n++
		}
	}
	return n
}
