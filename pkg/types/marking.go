// Marking entity: a labeled shape with a set of correspondence ids.
package types

import (
	"errors"
	"slices"
)

// Marking validation errors.
var (
	ErrInvalidLabel   = errors.New("label must be positive")
	ErrInvalidMarking = errors.New("invalid marking")
	ErrNotFound       = errors.New("marking not found")
	ErrDuplicateLabel = errors.New("label used twice on one canvas")
)

// Merge refusal errors.
var (
	ErrSameCanvas    = errors.New("markings are on the same canvas")
	ErrAlreadyPaired = errors.New("marking already paired")
)

// Marking is one annotated shape on a canvas.
type Marking struct {
	// Label is a small positive integer, unique within one canvas.
	Label int

	// IDs holds the correspondence identifiers. Order is preserved but the
	// slice is semantically a set (see DedupeIDs).
	IDs []string

	// TypeID references the user-defined marking type.
	TypeID string

	// Shape is the kind-specific payload.
	Shape Shape
}

// Kind returns the kind of the marking's shape, or "" when it has none.
func (m Marking) Kind() Kind {
	if m.Shape == nil {
		return ""
	}
	return m.Shape.Kind()
}

// FirstID returns the first correspondence id. Commands use it as the
// identity-stable key of a marking because labels get renumbered.
func (m Marking) FirstID() (string, bool) {
	if len(m.IDs) == 0 {
		return "", false
	}
	return m.IDs[0], true
}

// HasID reports whether id is one of the marking's correspondence ids.
func (m Marking) HasID(id string) bool {
	return slices.Contains(m.IDs, id)
}

// WithHeader returns a deep copy of m with the label and ids replaced. The
// shape is copied verbatim whatever its kind.
func (m Marking) WithHeader(label int, ids []string) Marking {
	out := Marking{
		Label:  label,
		IDs:    slices.Clone(ids),
		TypeID: m.TypeID,
	}
	if m.Shape != nil {
		out.Shape = m.Shape.clone()
	}
	return out
}

// Clone returns a deep copy of m.
func (m Marking) Clone() Marking {
	return m.WithHeader(m.Label, m.IDs)
}

// Validate checks the header fields of the marking.
func (m Marking) Validate() error {
	if m.Label <= 0 {
		return ErrInvalidLabel
	}
	if len(m.IDs) == 0 || m.Shape == nil {
		return ErrInvalidMarking
	}
	return nil
}

// DedupeIDs returns ids with duplicates removed, keeping first occurrences
// in order. The result never aliases the input.
func DedupeIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// CloneMarkings deep-copies a marking slice.
func CloneMarkings(ms []Marking) []Marking {
	if ms == nil {
		return nil
	}
	out := make([]Marking, len(ms))
	for i, m := range ms {
		out[i] = m.Clone()
	}
	return out
}
