// Package echotrack answers the question a bound editor cannot answer on
// its own: is this didChange event the user typing, or the editor echoing
// back an edit the sync engine just applied on the remote edit's behalf?
//
// It is adapted from the teacher's engine/tracking package — same
// ordered-list-of-recorded-changes shape, same "record before invoking the
// callback, remove after" lifecycle — repurposed from AI-context history
// toward echo suppression: comparing synthesized results rather than raw
// events, since editors coalesce and reorder adjacent edits unpredictably.
package echotrack
