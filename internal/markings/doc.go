// Package markings owns the two per-canvas marking registries and the
// coordination between them: label allocation, merge and unmerge of
// corresponding markings, and global label compaction.
//
// All operations are synchronous and assume a single thread of control.
// Registry mutations are copy-on-write: a transform runs on a deep copy of
// the marking sequence and the copy is swapped in only when the transform
// returns, so a panic part-way leaves the previous state untouched. A port
// that needs concurrent access must serialize every mutating call across
// both registries through one lock held around the Pair.
package markings
