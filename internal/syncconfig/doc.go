// Package syncconfig loads the sync engine's four recognized tunables
// from defaults, an optional TOML file, and environment variables, in
// that order of increasing precedence — the same koanf-based layering
// the teacher's tally config package uses.
package syncconfig
