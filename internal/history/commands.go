package history

import (
	"fmt"
	"slices"

	"github.com/mesh-intelligence/pairmark/internal/markings"
	"github.com/mesh-intelligence/pairmark/pkg/types"
)

// AddOrUpdate adds a marking, replacing the marking with the same label if
// there is one.
type AddOrUpdate struct {
	pair     *markings.Pair
	canvas   types.CanvasID
	marking  types.Marking
	old      *types.Marking
	oldIndex int
	labels   labelSnapshot
	selected selections
}

// NewAddOrUpdate captures the marking currently holding m's label, if any.
// When there is none and the opposite canvas lacks the label too, undoing
// the add compacts labels, so every marking's label is recorded.
func NewAddOrUpdate(p *markings.Pair, canvas types.CanvasID, m types.Marking) *AddOrUpdate {
	r := p.Registry(canvas)
	c := &AddOrUpdate{
		pair:     p,
		canvas:   canvas,
		marking:  m.Clone(),
		selected: snapshotSelections(p),
	}
	if old, ok := r.Find(m.Label); ok {
		c.old = &old
		c.oldIndex = r.Index(m.Label)
	} else if !p.Registry(canvas.Opposite()).HasLabel(m.Label) {
		c.labels = snapshotLabels(p, func(types.CanvasID, types.Marking) bool { return true })
	}
	return c
}

// Execute implements Command.
func (c *AddOrUpdate) Execute() {
	c.pair.Registry(c.canvas).AddOne(c.marking)
}

// Unexecute implements Command.
func (c *AddOrUpdate) Unexecute() {
	r := c.pair.Registry(c.canvas)
	if c.old != nil {
		r.RestoreOne(*c.old, c.oldIndex)
	} else {
		r.RemoveOneByLabel(c.marking.Label)
		c.labels.restore(c.pair)
	}
	c.selected.restore(c.pair)
	c.pair.ResetAllocators()
}

func (c *AddOrUpdate) String() string {
	return fmt.Sprintf("add %s/%d", c.canvas, c.marking.Label)
}

// Remove deletes one marking.
type Remove struct {
	pair     *markings.Pair
	canvas   types.CanvasID
	removed  types.Marking
	index    int
	labels   labelSnapshot
	selected selections
}

// NewRemove captures the marking with label on canvas and its position.
// When the label has no counterpart on the opposite canvas the removal
// compacts labels, so the label of every other marking is recorded.
func NewRemove(p *markings.Pair, canvas types.CanvasID, label int) (*Remove, error) {
	r := p.Registry(canvas)
	m, ok := r.Find(label)
	if !ok {
		return nil, fmt.Errorf("remove %s/%d: %w", canvas, label, types.ErrNotFound)
	}
	c := &Remove{
		pair:     p,
		canvas:   canvas,
		removed:  m,
		index:    r.Index(label),
		selected: snapshotSelections(p),
	}
	if !p.Registry(canvas.Opposite()).HasLabel(label) {
		c.labels = snapshotLabels(p, func(mc types.CanvasID, other types.Marking) bool {
			return mc != canvas || other.Label != label
		})
	}
	return c, nil
}

// Execute implements Command.
func (c *Remove) Execute() {
	c.pair.Registry(c.canvas).RemoveOneByLabel(c.removed.Label)
}

// Unexecute implements Command.
func (c *Remove) Unexecute() {
	c.labels.restore(c.pair)
	c.pair.ResetAllocators()
	c.pair.Registry(c.canvas).RestoreOne(c.removed, c.index)
	c.selected.restore(c.pair)
	c.pair.ResetAllocators()
}

func (c *Remove) String() string {
	return fmt.Sprintf("remove %s/%d", c.canvas, c.removed.Label)
}

// Merge declares two markings on opposite canvases the same entity.
type Merge struct {
	pair       *markings.Pair
	local      types.CanvasID
	localLabel int
	other      types.CanvasID
	otherLabel int
	localIDs   []string
	otherIDs   []string
	labels     labelSnapshot
	selected   selections
	merged     bool
}

// NewMerge captures both markings' ids and the label of every marking on
// both canvases. The other marking is recorded under localLabel, the label
// it carries right after the merge, so the inverse can find it again once
// compaction has renumbered everything.
func NewMerge(p *markings.Pair, local types.CanvasID, localLabel int, other types.CanvasID, otherLabel int) *Merge {
	c := &Merge{
		pair:       p,
		local:      local,
		localLabel: localLabel,
		other:      other,
		otherLabel: otherLabel,
		selected:   snapshotSelections(p),
	}
	if a, ok := p.Registry(local).Find(localLabel); ok {
		c.localIDs = slices.Clone(a.IDs)
	}
	if b, ok := p.Registry(other).Find(otherLabel); ok {
		c.otherIDs = slices.Clone(b.IDs)
	}
	c.labels = snapshotLabels(p, func(types.CanvasID, types.Marking) bool { return true })
	if local != other {
		c.labels.setLabel(other, p.Registry(other).Index(otherLabel), localLabel)
	}
	return c
}

// Execute implements Command.
func (c *Merge) Execute() {
	c.merged = c.pair.Registry(c.local).MergePair(c.localLabel, c.other, c.otherLabel)
}

// Unexecute implements Command. A merge that changed nothing has nothing
// to revert.
func (c *Merge) Unexecute() {
	if !c.merged {
		return
	}
	c.labels.restore(c.pair)
	c.pair.ResetAllocators()
	c.pair.Registry(c.local).UnmergePair(c.localLabel, c.localIDs, c.other, c.otherLabel, c.otherIDs)
	c.selected.restore(c.pair)
	c.pair.ResetAllocators()
	c.merged = false
}

// Merged reports whether the last Execute merged anything.
func (c *Merge) Merged() bool { return c.merged }

func (c *Merge) String() string {
	return fmt.Sprintf("merge %s/%d with %s/%d", c.local, c.localLabel, c.other, c.otherLabel)
}
