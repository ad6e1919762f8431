package markings

import (
	"slices"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/pairmark/pkg/types"
)

// Registry holds the ordered markings of one canvas together with its
// selection, the uncommitted temporary marking and a change version token.
// Order matters: the last element is the most recently added marking.
type Registry struct {
	canvas    types.CanvasID
	pair      *Pair
	markings  []types.Marking
	selected  int // 0 means no selection; labels are positive.
	temporary *types.Marking
	version   string
	labels    *LabelAllocator
}

func newRegistry(canvas types.CanvasID, p *Pair) *Registry {
	r := &Registry{
		canvas:  canvas,
		pair:    p,
		version: newVersion(),
	}
	r.labels = newLabelAllocator(r)
	return r
}

// newVersion generates an opaque change token (UUID v7).
func newVersion() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Canvas returns the canvas this registry belongs to.
func (r *Registry) Canvas() types.CanvasID { return r.canvas }

// Version returns the current change version token.
func (r *Registry) Version() string { return r.version }

// Labels returns the registry's label allocator.
func (r *Registry) Labels() *LabelAllocator { return r.labels }

// Len returns the number of markings.
func (r *Registry) Len() int { return len(r.markings) }

// Markings returns a deep copy of the marking sequence.
func (r *Registry) Markings() []types.Marking {
	return types.CloneMarkings(r.markings)
}

// Find returns a copy of the marking with the given label.
func (r *Registry) Find(label int) (types.Marking, bool) {
	i := r.Index(label)
	if i < 0 {
		return types.Marking{}, false
	}
	return r.markings[i].Clone(), true
}

// Index returns the position of the marking with the given label, or -1.
func (r *Registry) Index(label int) int {
	return indexOf(r.markings, label)
}

// HasLabel reports whether a marking with the given label exists.
func (r *Registry) HasLabel(label int) bool {
	return r.Index(label) >= 0
}

func (r *Registry) opposite() *Registry {
	return r.pair.Registry(r.canvas.Opposite())
}

func indexOf(ms []types.Marking, label int) int {
	return slices.IndexFunc(ms, func(m types.Marking) bool { return m.Label == label })
}

func withoutLabel(ms []types.Marking, label int) []types.Marking {
	return slices.DeleteFunc(ms, func(m types.Marking) bool { return m.Label == label })
}

// commit runs transform on a deep copy of the markings and swaps the result
// in, then regenerates the version token.
func (r *Registry) commit(transform func(draft []types.Marking) []types.Marking) {
	next := transform(types.CloneMarkings(r.markings))
	r.markings = next
	r.version = newVersion()
}

// setMarkings is the interactive mutation path: it notifies the change
// detector with both registries' versions.
func (r *Registry) setMarkings(transform func(draft []types.Marking) []types.Marking) {
	r.commit(transform)
	r.pair.notifyChanges()
}

// setMarkingsForLoading bypasses change detection but still publishes the
// last marking to the last-added sink.
func (r *Registry) setMarkingsForLoading(transform func(draft []types.Marking) []types.Marking) {
	r.commit(transform)
	if n := len(r.markings); n > 0 {
		r.pair.ctx.setLastAdded(&LastAdded{Marking: r.markings[n-1], Canvas: r.canvas})
	}
}

// SelectedLabel returns the selected label, if any.
func (r *Registry) SelectedLabel() (int, bool) {
	return r.selected, r.selected > 0
}

// SetSelectedLabel selects the marking label for overwrite. A non-positive
// label clears the selection.
func (r *Registry) SetSelectedLabel(label int) {
	if label < 0 {
		label = 0
	}
	r.selected = label
}

// ClearSelection clears the selection.
func (r *Registry) ClearSelection() {
	r.selected = 0
}

// TemporaryMarking returns the uncommitted in-progress marking, if any.
func (r *Registry) TemporaryMarking() (types.Marking, bool) {
	if r.temporary == nil {
		return types.Marking{}, false
	}
	return r.temporary.Clone(), true
}

// SetTemporaryMarking replaces the temporary marking; nil clears it.
func (r *Registry) SetTemporaryMarking(m *types.Marking) {
	if m == nil {
		r.temporary = nil
		return
	}
	cp := m.Clone()
	r.temporary = &cp
}

// UpdateTemporaryMarking applies update to a copy of the temporary marking.
// Does nothing when there is no temporary marking.
func (r *Registry) UpdateTemporaryMarking(update func(m *types.Marking)) {
	if r.temporary == nil {
		return
	}
	cp := r.temporary.Clone()
	update(&cp)
	r.temporary = &cp
}

// FindIDsByLabel returns the correspondence ids recorded under label,
// looking at this registry first and the opposite registry second.
func (r *Registry) FindIDsByLabel(label int) ([]string, bool) {
	if m, ok := r.Find(label); ok {
		return m.IDs, true
	}
	if m, ok := r.opposite().Find(label); ok {
		return m.IDs, true
	}
	return nil, false
}

// reconcile rebuilds m with the ids already recorded under its label, so an
// edit never drops ids gathered by earlier merges.
func (r *Registry) reconcile(m types.Marking) types.Marking {
	ids := m.IDs
	if existing, ok := r.FindIDsByLabel(m.Label); ok && len(existing) > 0 {
		ids = existing
	}
	return m.WithHeader(m.Label, types.DedupeIDs(ids))
}

// AddOne adds m, replacing any marking with the same label. Ids already
// recorded under that label on either canvas win over m's ids. Clears the
// selection.
func (r *Registry) AddOne(m types.Marking) {
	prepared := r.reconcile(m)
	r.setMarkings(func(draft []types.Marking) []types.Marking {
		draft = withoutLabel(draft, prepared.Label)
		return append(draft, prepared)
	})
	r.selected = 0
	r.pair.resetAllocators()
	r.pair.ctx.setLastAdded(&LastAdded{Marking: prepared, Canvas: r.canvas})
}

// AddMany adds every marking with the same id reconciliation as AddOne and a
// single version bump. Existing markings sharing a label with the batch are
// replaced; within the batch the later entry wins.
func (r *Registry) AddMany(ms []types.Marking) {
	if len(ms) == 0 {
		return
	}
	prepared := make([]types.Marking, 0, len(ms))
	for _, m := range ms {
		p := r.reconcile(m)
		if i := indexOf(prepared, p.Label); i >= 0 {
			prepared = slices.Delete(prepared, i, i+1)
		}
		prepared = append(prepared, p)
	}
	r.setMarkings(func(draft []types.Marking) []types.Marking {
		for _, p := range prepared {
			draft = withoutLabel(draft, p.Label)
		}
		return append(draft, prepared...)
	})
	r.pair.resetAllocators()
	last := prepared[len(prepared)-1]
	r.pair.ctx.setLastAdded(&LastAdded{Marking: last, Canvas: r.canvas})
}

// RestoreOne puts m back at position index exactly as given, replacing any
// marking with the same label. Command inverses use it to keep the
// sequence order intact.
func (r *Registry) RestoreOne(m types.Marking, index int) {
	restored := m.Clone()
	r.setMarkings(func(draft []types.Marking) []types.Marking {
		draft = withoutLabel(draft, restored.Label)
		index = max(0, min(index, len(draft)))
		return slices.Insert(draft, index, restored)
	})
	r.pair.resetAllocators()
}

// Relabel assigns every marking the label returned by label, which gets
// the marking's position and a copy of it, keeping the current label when
// label reports false. Selection and allocators are left to the caller.
// Nothing is committed when no label changes.
func (r *Registry) Relabel(label func(i int, m types.Marking) (int, bool)) {
	next := make(map[int]int)
	for i, m := range r.markings {
		if l, ok := label(i, m.Clone()); ok && l != m.Label {
			next[i] = l
		}
	}
	if len(next) == 0 {
		return
	}
	r.setMarkings(func(draft []types.Marking) []types.Marking {
		for i, l := range next {
			draft[i].Label = l
		}
		return draft
	})
}

// RemoveOneByLabel removes the marking with label. When the label has no
// counterpart on the opposite canvas it disappears from both, so labels are
// compacted across both registries; otherwise only the allocators are reset.
func (r *Registry) RemoveOneByLabel(label int) {
	if r.selected == label {
		r.selected = 0
	}
	r.pair.ctx.setLastAdded(nil)
	r.pair.ctx.SetPendingMerge(nil)

	r.setMarkings(func(draft []types.Marking) []types.Marking {
		return withoutLabel(draft, label)
	})

	if !r.opposite().HasLabel(label) {
		r.pair.CompactLabelsAcrossBoth()
		return
	}
	r.pair.resetAllocators()
}

// Reset removes every marking through the interactive path.
func (r *Registry) Reset() {
	r.clearTransient()
	r.setMarkings(func([]types.Marking) []types.Marking { return nil })
	r.pair.resetAllocators()
}

// ResetForLoading empties the registry without signalling unsaved changes.
func (r *Registry) ResetForLoading() {
	r.clearTransient()
	r.setMarkingsForLoading(func([]types.Marking) []types.Marking { return nil })
	r.pair.resetAllocators()
}

// AddManyForLoading appends ms as-is, without id reconciliation and without
// signalling unsaved changes. The last loaded marking becomes last-added.
func (r *Registry) AddManyForLoading(ms []types.Marking) {
	loaded := types.CloneMarkings(ms)
	r.setMarkingsForLoading(func(draft []types.Marking) []types.Marking {
		return append(draft, loaded...)
	})
	r.pair.resetAllocators()
}

// clearTransient drops the selection, the temporary marking and any slot
// in the shared context that points at this canvas.
func (r *Registry) clearTransient() {
	r.selected = 0
	r.temporary = nil
	if p, ok := r.pair.ctx.PendingMerge(); ok && p.Canvas == r.canvas {
		r.pair.ctx.SetPendingMerge(nil)
	}
	if l, ok := r.pair.ctx.LastAdded(); ok && l.Canvas == r.canvas {
		r.pair.ctx.setLastAdded(nil)
	}
}
