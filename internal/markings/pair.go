package markings

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/mesh-intelligence/pairmark/pkg/types"
)

// Pair coordinates the LEFT and RIGHT registries. It is the only owner of
// the two handles and resolves them by canvas id.
type Pair struct {
	left   *Registry
	right  *Registry
	ctx    *Context
	logger *slog.Logger
}

// NewPair creates two empty registries sharing one coordination context.
func NewPair(opts ...Option) *Pair {
	p := &Pair{
		ctx:    &Context{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(slog.String("component", "markings"))
	p.left = newRegistry(types.CanvasLeft, p)
	p.right = newRegistry(types.CanvasRight, p)
	return p
}

// Registry returns the registry for canvas. Any identifier other than left
// or right is a programming error and panics.
func (p *Pair) Registry(canvas types.CanvasID) *Registry {
	switch canvas {
	case types.CanvasLeft:
		return p.left
	case types.CanvasRight:
		return p.right
	default:
		panic(canvas.Validate())
	}
}

// Left returns the LEFT registry.
func (p *Pair) Left() *Registry { return p.left }

// Right returns the RIGHT registry.
func (p *Pair) Right() *Registry { return p.right }

// Context returns the shared coordination context.
func (p *Pair) Context() *Context { return p.ctx }

func (p *Pair) registries() []*Registry {
	return []*Registry{p.left, p.right}
}

// maxLabel returns the highest label across both registries, or 0.
func (p *Pair) maxLabel() int {
	highest := 0
	for _, r := range p.registries() {
		for _, m := range r.markings {
			highest = max(highest, m.Label)
		}
	}
	return highest
}

func (p *Pair) labelTaken(label int) bool {
	return p.left.HasLabel(label) || p.right.HasLabel(label)
}

func (p *Pair) resetAllocators() {
	p.left.labels.Reset()
	p.right.labels.Reset()
}

// ResetAllocators recomputes both allocator cursors.
func (p *Pair) ResetAllocators() {
	p.resetAllocators()
}

func (p *Pair) notifyChanges() {
	if p.ctx.changes != nil {
		p.ctx.changes.CheckForUnsavedChanges(p.left.version, p.right.version)
	}
}

// MarkSaved records the current versions as the saved baseline when the
// change detector tracks one.
func (p *Pair) MarkSaved() {
	if m, ok := p.ctx.changes.(saveMarker); ok {
		m.MarkSaved(p.left.version, p.right.version)
	}
}

// CompactLabelsAcrossBoth renumbers the distinct labels of both registries
// to 1..K in ascending order. Selections and the pending merge follow their
// markings. Idempotent: a run that changes nothing leaves the versions alone.
func (p *Pair) CompactLabelsAcrossBoth() {
	var labels []int
	for _, r := range p.registries() {
		for _, m := range r.markings {
			labels = append(labels, m.Label)
		}
	}
	slices.Sort(labels)
	labels = slices.Compact(labels)

	mapping := make(map[int]int, len(labels))
	for i, l := range labels {
		mapping[l] = i + 1
	}

	for _, r := range p.registries() {
		if needsRemap(r.markings, mapping) {
			r.setMarkings(func(draft []types.Marking) []types.Marking {
				for i := range draft {
					draft[i].Label = mapping[draft[i].Label]
				}
				return draft
			})
		}
		if sel, ok := r.SelectedLabel(); ok {
			r.selected = mapping[sel]
		}
	}

	if pending, ok := p.ctx.PendingMerge(); ok {
		if to, found := mapping[pending.Label]; found {
			pending.Label = to
			p.ctx.SetPendingMerge(&pending)
		} else {
			p.ctx.SetPendingMerge(nil)
		}
	}

	p.resetAllocators()
	p.logger.Debug("labels compacted", slog.Int("distinct", len(labels)))
}

func needsRemap(ms []types.Marking, mapping map[int]int) bool {
	for _, m := range ms {
		if mapping[m.Label] != m.Label {
			return true
		}
	}
	return false
}

// MergePair declares that the local marking localLabel and the marking
// otherLabel on otherCanvas are the same entity. Both end up with the union
// of their ids and the other marking takes localLabel, becoming its alias.
// Labels are then compacted across both registries.
//
// Returns false without changing anything when either marking is missing,
// when otherCanvas is this canvas, or when either marking already
// corresponds to a third marking.
func (r *Registry) MergePair(localLabel int, otherCanvas types.CanvasID, otherLabel int) bool {
	other := r.pair.Registry(otherCanvas)
	log := r.pair.logger.With(
		slog.String("canvas", string(r.canvas)),
		slog.Int("local_label", localLabel),
		slog.Int("other_label", otherLabel),
	)
	if err := r.MergeCheck(localLabel, otherCanvas, otherLabel); err != nil {
		log.Debug("merge skipped", slog.Any("reason", err))
		return false
	}

	a, _ := r.Find(localLabel)
	b, _ := other.Find(otherLabel)
	union := types.DedupeIDs(append(slices.Clone(a.IDs), b.IDs...))

	r.setMarkings(func(draft []types.Marking) []types.Marking {
		if i := indexOf(draft, localLabel); i >= 0 {
			draft[i].IDs = slices.Clone(union)
		}
		return draft
	})
	other.setMarkings(func(draft []types.Marking) []types.Marking {
		if i := indexOf(draft, otherLabel); i >= 0 {
			draft[i].Label = localLabel
			draft[i].IDs = slices.Clone(union)
		}
		return draft
	})

	r.ClearSelection()
	other.ClearSelection()

	r.pair.CompactLabelsAcrossBoth()
	log.Debug("markings merged", slog.Int("ids", len(union)))
	return true
}

// CanMerge reports whether MergePair with the same arguments would change
// anything.
func (r *Registry) CanMerge(localLabel int, otherCanvas types.CanvasID, otherLabel int) bool {
	return r.MergeCheck(localLabel, otherCanvas, otherLabel) == nil
}

// MergeCheck returns why MergePair with the same arguments would do
// nothing, or nil when it would merge. Errors wrap types.ErrSameCanvas,
// types.ErrNotFound or types.ErrAlreadyPaired.
func (r *Registry) MergeCheck(localLabel int, otherCanvas types.CanvasID, otherLabel int) error {
	other := r.pair.Registry(otherCanvas)
	switch {
	case other == r:
		return types.ErrSameCanvas
	case !r.HasLabel(localLabel):
		return fmt.Errorf("%w: %s/%d", types.ErrNotFound, r.canvas, localLabel)
	case !other.HasLabel(otherLabel):
		return fmt.Errorf("%w: %s/%d", types.ErrNotFound, other.canvas, otherLabel)
	case localLabel == otherLabel:
		return nil
	case other.HasLabel(localLabel):
		return fmt.Errorf("%w: %s/%d is paired with %s/%d", types.ErrAlreadyPaired, r.canvas, localLabel, other.canvas, localLabel)
	case r.HasLabel(otherLabel):
		return fmt.Errorf("%w: %s/%d is paired with %s/%d", types.ErrAlreadyPaired, other.canvas, otherLabel, r.canvas, otherLabel)
	}
	return nil
}

// UnmergePair reverses the id and label effect of MergePair: the local
// marking localLabel gets oldLocalIDs back, and the marking that carries
// localLabel on otherCanvas returns to oldOtherLabel with oldOtherIDs. It
// does not compact; callers restore surrounding labels themselves.
//
// Returns false without changing anything when either marking is missing.
func (r *Registry) UnmergePair(localLabel int, oldLocalIDs []string, otherCanvas types.CanvasID, oldOtherLabel int, oldOtherIDs []string) bool {
	other := r.pair.Registry(otherCanvas)
	if other == r || !r.HasLabel(localLabel) || !other.HasLabel(localLabel) {
		r.pair.logger.Debug("unmerge skipped",
			slog.String("canvas", string(r.canvas)),
			slog.Int("local_label", localLabel),
		)
		return false
	}

	localIDs := types.DedupeIDs(oldLocalIDs)
	otherIDs := types.DedupeIDs(oldOtherIDs)

	r.setMarkings(func(draft []types.Marking) []types.Marking {
		if i := indexOf(draft, localLabel); i >= 0 {
			draft[i].IDs = localIDs
		}
		return draft
	})
	other.setMarkings(func(draft []types.Marking) []types.Marking {
		if i := indexOf(draft, localLabel); i >= 0 {
			draft[i].Label = oldOtherLabel
			draft[i].IDs = otherIDs
		}
		return draft
	})

	r.pair.resetAllocators()
	return true
}

// MergeFunc performs the merge that completes a merge gesture.
type MergeFunc func(local types.CanvasID, localLabel int, other types.CanvasID, otherLabel int) bool

// SelectMerge advances the two-step merge gesture for the marking label on
// canvas. With nothing pending, or with a pending selection on the same
// canvas, it records this marking as pending. With a pending selection on
// the other canvas it runs merge (MergePair when nil) and clears the pending
// slot whatever the outcome. Returns whether a merge happened.
func (p *Pair) SelectMerge(canvas types.CanvasID, label int, merge MergeFunc) bool {
	if err := canvas.Validate(); err != nil {
		panic(err)
	}
	pending, ok := p.ctx.PendingMerge()
	if !ok || pending.Canvas == canvas {
		p.ctx.SetPendingMerge(&PendingMerge{Canvas: canvas, Label: label})
		return false
	}

	if merge == nil {
		merge = p.merge
	}
	merged := merge(pending.Canvas, pending.Label, canvas, label)
	p.ctx.SetPendingMerge(nil)
	return merged
}

func (p *Pair) merge(local types.CanvasID, localLabel int, other types.CanvasID, otherLabel int) bool {
	return p.Registry(local).MergePair(localLabel, other, otherLabel)
}

// LoadSnapshot replaces both registries with s through the loading path
// and records the result as the saved baseline.
func (p *Pair) LoadSnapshot(s types.Snapshot) {
	p.ctx.SetPendingMerge(nil)
	for _, c := range types.Canvases {
		r := p.Registry(c)
		r.ResetForLoading()
		r.AddManyForLoading(s.Markings(c))
	}
	p.resetAllocators()
	p.MarkSaved()
	p.logger.Debug("snapshot loaded",
		slog.Int("left", len(s.Left)),
		slog.Int("right", len(s.Right)),
	)
}

// Snapshot returns a deep copy of both registries' markings.
func (p *Pair) Snapshot() types.Snapshot {
	return types.Snapshot{
		Left:  p.left.Markings(),
		Right: p.right.Markings(),
	}
}
