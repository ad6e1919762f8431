package markings

import (
	"github.com/mesh-intelligence/pairmark/pkg/types"
)

func point(label int, ids ...string) types.Marking {
	return types.Marking{
		Label:  label,
		IDs:    ids,
		TypeID: "minutia",
		Shape:  types.PointShape{Origin: types.Point{X: float64(label), Y: float64(label)}},
	}
}

func labelsOf(r *Registry) []int {
	out := make([]int, 0, r.Len())
	for _, m := range r.Markings() {
		out = append(out, m.Label)
	}
	return out
}

func idsOf(t interface{ Helper() }, r *Registry, label int) []string {
	t.Helper()
	m, ok := r.Find(label)
	if !ok {
		return nil
	}
	return m.IDs
}

type recordingDetector struct {
	calls [][2]string
}

func (d *recordingDetector) CheckForUnsavedChanges(left, right string) {
	d.calls = append(d.calls, [2]string{left, right})
}

type recordingSink struct {
	events []*LastAdded
}

func (s *recordingSink) SetLastAdded(last *LastAdded) {
	s.events = append(s.events, last)
}

func (s *recordingSink) last() *LastAdded {
	if len(s.events) == 0 {
		return nil
	}
	return s.events[len(s.events)-1]
}

// loadedPair returns a pair populated through the loading path.
func loadedPair(left, right []types.Marking, opts ...Option) *Pair {
	p := NewPair(opts...)
	p.LoadSnapshot(types.Snapshot{Left: left, Right: right})
	return p
}

// invariantViolation describes a duplicate label within a registry, or
// distinct labels across both registries that are not exactly 1..K.
func invariantViolation(p *Pair) string {
	distinct := map[int]bool{}
	for _, r := range p.registries() {
		seen := map[int]bool{}
		for _, m := range r.markings {
			if seen[m.Label] {
				return "duplicate label in " + string(r.canvas)
			}
			seen[m.Label] = true
			distinct[m.Label] = true
		}
	}
	for i := 1; i <= len(distinct); i++ {
		if !distinct[i] {
			return "labels not contiguous"
		}
	}
	return ""
}
