// Package history records reversible edits to a markings.Pair.
//
// Every structural edit (add or update, remove, merge) is wrapped in a
// Command that captures what it needs to invert itself exactly once.
// Removal and merge renumber labels on both canvases, so commands never
// remember other markings by label: they key them by their first
// correspondence id and look the label back up after the inverse runs.
//
// History keeps the undo and redo stacks. Executing a new command discards
// any redo entries.
package history
