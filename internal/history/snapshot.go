package history

import (
	"github.com/mesh-intelligence/pairmark/internal/markings"
	"github.com/mesh-intelligence/pairmark/pkg/types"
)

// labelEntry is one recorded marking: its first correspondence id and the
// label it must carry after an inverse.
type labelEntry struct {
	firstID string
	label   int
}

// identifies reports whether m is the marking e was recorded from. A merge
// may put another id in front, so any id of m counts.
func (e labelEntry) identifies(m types.Marking) bool {
	if e.firstID == "" {
		return len(m.IDs) == 0
	}
	return m.HasID(e.firstID)
}

// labelSnapshot holds, per canvas and in sequence order, the identity and
// label of every recorded marking.
type labelSnapshot map[types.CanvasID][]labelEntry

// snapshotLabels records every marking on both canvases for which keep
// returns true.
func snapshotLabels(p *markings.Pair, keep func(canvas types.CanvasID, m types.Marking) bool) labelSnapshot {
	s := labelSnapshot{}
	for _, c := range types.Canvases {
		for _, m := range p.Registry(c).Markings() {
			if !keep(c, m) {
				continue
			}
			id, _ := m.FirstID()
			s[c] = append(s[c], labelEntry{firstID: id, label: m.Label})
		}
	}
	return s
}

// setLabel overrides the label recorded for the marking at index on canvas.
// index counts recorded markings only.
func (s labelSnapshot) setLabel(canvas types.CanvasID, index, label int) {
	if index >= 0 && index < len(s[canvas]) {
		s[canvas][index].label = label
	}
}

// restore relabels the markings of both canvases back to the recorded
// labels. Compaction, merge and unmerge keep sequence order, so when a
// canvas holds exactly the recorded markings in order they are matched by
// position; identities are checked along the way. Otherwise a marking is
// matched by a first id that no other recorded marking on its canvas
// shares, and ambiguous markings keep their label; a canvas where that
// would repeat a label is left alone. Allocators are left to the caller.
func (s labelSnapshot) restore(p *markings.Pair) {
	for _, c := range types.Canvases {
		entries := s[c]
		if len(entries) == 0 {
			continue
		}
		r := p.Registry(c)
		if inOrder(entries, r.Markings()) {
			r.Relabel(func(i int, _ types.Marking) (int, bool) {
				return entries[i].label, true
			})
			continue
		}
		labels := matchUnique(entries, r.Markings())
		if labels == nil {
			continue
		}
		r.Relabel(func(i int, _ types.Marking) (int, bool) {
			return labels[i], true
		})
	}
}

func inOrder(entries []labelEntry, ms []types.Marking) bool {
	if len(entries) != len(ms) {
		return false
	}
	for i, m := range ms {
		if !entries[i].identifies(m) {
			return false
		}
	}
	return true
}

// matchUnique returns the label of each marking in ms, taken from the
// entry whose first id is recorded only once and belongs to the marking.
// Unmatched markings keep their label. Returns nil when the result would
// give two markings the same label.
func matchUnique(entries []labelEntry, ms []types.Marking) []int {
	count := make(map[string]int, len(entries))
	for _, e := range entries {
		count[e.firstID]++
	}
	byID := make(map[string]int, len(entries))
	for _, e := range entries {
		if e.firstID != "" && count[e.firstID] == 1 {
			byID[e.firstID] = e.label
		}
	}

	labels := make([]int, len(ms))
	seen := make(map[int]bool, len(ms))
	for i, m := range ms {
		labels[i] = m.Label
		if id, ok := m.FirstID(); ok && byID[id] > 0 {
			labels[i] = byID[id]
		} else {
			for _, id := range m.IDs {
				if l := byID[id]; l > 0 {
					labels[i] = l
					break
				}
			}
		}
		if seen[labels[i]] {
			return nil
		}
		seen[labels[i]] = true
	}
	return labels
}

// selections records the selected label of both canvases; 0 means none.
type selections map[types.CanvasID]int

func snapshotSelections(p *markings.Pair) selections {
	s := selections{}
	for _, c := range types.Canvases {
		l, _ := p.Registry(c).SelectedLabel()
		s[c] = l
	}
	return s
}

func (s selections) restore(p *markings.Pair) {
	for c, l := range s {
		p.Registry(c).SetSelectedLabel(l)
	}
}
