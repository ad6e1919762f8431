package markings

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pairmark/pkg/types"
)

func distinctLabels(p *Pair) int {
	seen := map[int]bool{}
	for _, r := range p.registries() {
		for _, l := range labelsOf(r) {
			seen[l] = true
		}
	}
	return len(seen)
}

func TestCompactLabelsAcrossBoth(t *testing.T) {
	p := loadedPair(
		[]types.Marking{point(2, "a"), point(5, "b")},
		[]types.Marking{point(5, "b"), point(9, "c")},
	)

	p.CompactLabelsAcrossBoth()

	assert.Equal(t, []int{1, 2}, labelsOf(p.Left()))
	assert.Equal(t, []int{2, 3}, labelsOf(p.Right()))
	assert.Equal(t, []string{"b"}, idsOf(t, p.Right(), 2))
	assert.Equal(t, 3, p.Left().Labels().Current())

	left, right := p.Left().Version(), p.Right().Version()
	p.CompactLabelsAcrossBoth()
	assert.Equal(t, left, p.Left().Version(), "second run changes nothing")
	assert.Equal(t, right, p.Right().Version())
}

func TestCompactionRemapsPendingMerge(t *testing.T) {
	p := loadedPair([]types.Marking{point(2, "a"), point(5, "b")}, nil)

	p.Context().SetPendingMerge(&PendingMerge{Canvas: types.CanvasLeft, Label: 5})
	p.CompactLabelsAcrossBoth()
	pending, ok := p.Context().PendingMerge()
	require.True(t, ok)
	assert.Equal(t, 2, pending.Label)

	p.Context().SetPendingMerge(&PendingMerge{Canvas: types.CanvasLeft, Label: 7})
	p.CompactLabelsAcrossBoth()
	_, ok = p.Context().PendingMerge()
	assert.False(t, ok, "pending label no longer exists")
}

func TestCompactionClearsVanishedSelection(t *testing.T) {
	p := loadedPair([]types.Marking{point(2, "a")}, nil)
	p.Right().SetSelectedLabel(4)

	p.CompactLabelsAcrossBoth()

	_, ok := p.Right().SelectedLabel()
	assert.False(t, ok)
}

func TestMergePairUnionsIDs(t *testing.T) {
	p := loadedPair(
		[]types.Marking{point(1, "l1"), point(2, "x", "y")},
		[]types.Marking{point(3, "r3"), point(4, "r4"), point(5, "y", "z")},
	)
	require.Equal(t, 5, distinctLabels(p))

	ok := p.Left().MergePair(2, types.CanvasRight, 5)

	require.True(t, ok)
	assert.Equal(t, []string{"x", "y", "z"}, idsOf(t, p.Left(), 2))
	assert.Equal(t, []string{"x", "y", "z"}, idsOf(t, p.Right(), 2))
	assert.Equal(t, []int{3, 4, 2}, labelsOf(p.Right()), "merged marking keeps its position")
	assert.Equal(t, 4, distinctLabels(p))
	assert.Empty(t, invariantViolation(p))
}

func TestMergePairCompacts(t *testing.T) {
	p := loadedPair(
		[]types.Marking{point(1, "a"), point(3, "c")},
		[]types.Marking{point(2, "b")},
	)

	require.True(t, p.Left().MergePair(3, types.CanvasRight, 2))

	assert.Equal(t, []int{1, 2}, labelsOf(p.Left()))
	assert.Equal(t, []int{2}, labelsOf(p.Right()))
	assert.Equal(t, []string{"c", "b"}, idsOf(t, p.Right(), 2))
	assert.Equal(t, 2, p.Right().Labels().Current())
}

func TestMergePairClearsSelections(t *testing.T) {
	p := loadedPair([]types.Marking{point(1, "a")}, []types.Marking{point(2, "b")})
	p.Left().SetSelectedLabel(1)
	p.Right().SetSelectedLabel(2)

	require.True(t, p.Left().MergePair(1, types.CanvasRight, 2))

	_, ok := p.Left().SelectedLabel()
	assert.False(t, ok)
	_, ok = p.Right().SelectedLabel()
	assert.False(t, ok)
}

func TestMergePairNoOps(t *testing.T) {
	tests := []struct {
		name        string
		left, right []types.Marking
		local       int
		other       types.CanvasID
		otherLabel  int
	}{
		{
			name:       "same canvas",
			left:       []types.Marking{point(1, "a"), point(2, "b")},
			local:      1,
			other:      types.CanvasLeft,
			otherLabel: 2,
		},
		{
			name:       "local marking missing",
			left:       []types.Marking{point(1, "a")},
			right:      []types.Marking{point(2, "b")},
			local:      7,
			other:      types.CanvasRight,
			otherLabel: 2,
		},
		{
			name:       "other marking missing",
			left:       []types.Marking{point(1, "a")},
			right:      []types.Marking{point(2, "b")},
			local:      1,
			other:      types.CanvasRight,
			otherLabel: 7,
		},
		{
			name:       "local already paired",
			left:       []types.Marking{point(1, "a"), point(2, "b")},
			right:      []types.Marking{point(1, "a"), point(3, "c")},
			local:      1,
			other:      types.CanvasRight,
			otherLabel: 3,
		},
		{
			name:       "other already paired",
			left:       []types.Marking{point(1, "a"), point(2, "b")},
			right:      []types.Marking{point(1, "a")},
			local:      2,
			other:      types.CanvasRight,
			otherLabel: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := loadedPair(tt.left, tt.right)
			before := p.Snapshot()
			left, right := p.Left().Version(), p.Right().Version()

			ok := p.Left().MergePair(tt.local, tt.other, tt.otherLabel)

			assert.False(t, ok)
			assert.Equal(t, before, p.Snapshot())
			assert.Equal(t, left, p.Left().Version())
			assert.Equal(t, right, p.Right().Version())
		})
	}
}

func TestMergeSameLabelIsIDUnion(t *testing.T) {
	p := loadedPair([]types.Marking{point(1, "a")}, []types.Marking{point(1, "b")})

	require.True(t, p.Left().MergePair(1, types.CanvasRight, 1))

	assert.Equal(t, []string{"a", "b"}, idsOf(t, p.Left(), 1))
	assert.Equal(t, []string{"a", "b"}, idsOf(t, p.Right(), 1))
}

func TestUnmergePairRestoresState(t *testing.T) {
	p := loadedPair(
		[]types.Marking{point(1, "l1"), point(2, "x", "y")},
		[]types.Marking{point(3, "r3"), point(4, "r4"), point(5, "y", "z")},
	)
	before := p.Snapshot()
	require.True(t, p.Left().MergePair(2, types.CanvasRight, 5))

	ok := p.Left().UnmergePair(2, []string{"x", "y"}, types.CanvasRight, 5, []string{"y", "z"})

	require.True(t, ok)
	assert.Equal(t, before, p.Snapshot())
	assert.Equal(t, 5, p.Left().Labels().Current())
	assert.Equal(t, 5, p.Right().Labels().Current())
}

func TestUnmergePairMissingMarking(t *testing.T) {
	p := loadedPair([]types.Marking{point(1, "a")}, []types.Marking{point(2, "b")})
	before := p.Snapshot()

	assert.False(t, p.Left().UnmergePair(1, []string{"a"}, types.CanvasRight, 2, []string{"b"}))
	assert.Equal(t, before, p.Snapshot())
}

func TestUnknownCanvasPanics(t *testing.T) {
	p := NewPair()
	assert.Panics(t, func() { p.Registry(types.CanvasID("middle")) })
	assert.Panics(t, func() { p.SelectMerge(types.CanvasID("middle"), 1, nil) })
	assert.Panics(t, func() { p.Left().MergePair(1, types.CanvasID("middle"), 1) })
}

func TestSelectMerge(t *testing.T) {
	p := loadedPair([]types.Marking{point(1, "a")}, []types.Marking{point(2, "b")})

	assert.False(t, p.SelectMerge(types.CanvasLeft, 1, nil))
	pending, ok := p.Context().PendingMerge()
	require.True(t, ok)
	assert.Equal(t, PendingMerge{Canvas: types.CanvasLeft, Label: 1}, pending)

	assert.False(t, p.SelectMerge(types.CanvasLeft, 3, nil), "same canvas overwrites")
	pending, _ = p.Context().PendingMerge()
	assert.Equal(t, 3, pending.Label)

	assert.False(t, p.SelectMerge(types.CanvasLeft, 1, nil))
	assert.True(t, p.SelectMerge(types.CanvasRight, 2, nil))
	_, ok = p.Context().PendingMerge()
	assert.False(t, ok)
	assert.Equal(t, []int{1}, labelsOf(p.Right()))
	assert.Equal(t, []string{"a", "b"}, idsOf(t, p.Right(), 1))
}

func TestSelectMergeClearsPendingOnFailure(t *testing.T) {
	p := loadedPair([]types.Marking{point(1, "a")}, []types.Marking{point(2, "b")})
	before := p.Snapshot()

	p.SelectMerge(types.CanvasLeft, 9, nil)
	assert.False(t, p.SelectMerge(types.CanvasRight, 2, nil))

	_, ok := p.Context().PendingMerge()
	assert.False(t, ok)
	assert.Equal(t, before, p.Snapshot())
}

func TestSelectMergeUsesMergeFunc(t *testing.T) {
	p := NewPair()
	type call struct {
		local, other           types.CanvasID
		localLabel, otherLabel int
	}
	var got []call
	merge := func(local types.CanvasID, localLabel int, other types.CanvasID, otherLabel int) bool {
		got = append(got, call{local, other, localLabel, otherLabel})
		return true
	}

	p.SelectMerge(types.CanvasRight, 4, merge)
	assert.True(t, p.SelectMerge(types.CanvasLeft, 6, merge))

	require.Len(t, got, 1)
	assert.Equal(t, call{types.CanvasRight, types.CanvasLeft, 4, 6}, got[0])
}

func TestLoadSnapshot(t *testing.T) {
	changes := NewUnsavedChanges()
	sink := &recordingSink{}
	p := NewPair(WithChangeDetector(changes), WithLastAddedSink(sink))
	p.Left().AddOne(point(1, "old"))
	p.Context().SetPendingMerge(&PendingMerge{Canvas: types.CanvasLeft, Label: 1})
	require.True(t, changes.Dirty())

	snap := types.Snapshot{
		Left:  []types.Marking{point(1, "a"), point(2, "b")},
		Right: []types.Marking{point(2, "b"), point(3, "c")},
	}
	p.LoadSnapshot(snap)

	assert.Equal(t, snap, p.Snapshot())
	assert.False(t, changes.Dirty())
	_, ok := p.Context().PendingMerge()
	assert.False(t, ok)
	require.NotNil(t, sink.last())
	assert.Equal(t, types.CanvasRight, sink.last().Canvas)
	assert.Equal(t, 3, p.Left().Labels().Current())

	got := p.Snapshot()
	got.Left[0].IDs[0] = "mutated"
	assert.Equal(t, []string{"a"}, idsOf(t, p.Left(), 1))
}

// TestRandomOperationsKeepLabelsContiguous drives the pair with a seeded
// stream of adds, removes and merges and checks the label invariants after
// every step.
func TestRandomOperationsKeepLabelsContiguous(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	p := NewPair()
	pick := func(r *Registry) (int, bool) {
		ms := r.Markings()
		if len(ms) == 0 {
			return 0, false
		}
		return ms[rng.IntN(len(ms))].Label, true
	}
	next := 0

	for step := range 500 {
		canvas := types.Canvases[rng.IntN(len(types.Canvases))]
		r := p.Registry(canvas)

		switch rng.IntN(4) {
		case 0, 1:
			next++
			label := r.Labels().Label()
			if l, ok := pick(r.opposite()); ok && rng.IntN(2) == 0 {
				label = l
			}
			r.AddOne(point(label, string(rune('a'+next%26))))
		case 2:
			if l, ok := pick(r); ok {
				r.RemoveOneByLabel(l)
			}
		case 3:
			a, okA := pick(r)
			b, okB := pick(r.opposite())
			if okA && okB {
				r.MergePair(a, canvas.Opposite(), b)
			}
		}

		require.Empty(t, invariantViolation(p), "step %d", step)
		for _, reg := range p.registries() {
			for _, m := range reg.Markings() {
				assert.Equal(t, types.DedupeIDs(m.IDs), m.IDs, "step %d", step)
			}
		}
	}
}

func TestCanMerge(t *testing.T) {
	p := loadedPair(
		[]types.Marking{point(1, "a"), point(2, "b")},
		[]types.Marking{point(1, "a"), point(3, "c")},
	)

	assert.True(t, p.Left().CanMerge(2, types.CanvasRight, 3))
	assert.True(t, p.Left().CanMerge(1, types.CanvasRight, 1))
	assert.False(t, p.Left().CanMerge(1, types.CanvasRight, 3))
	assert.False(t, p.Left().CanMerge(2, types.CanvasLeft, 1))
	assert.False(t, p.Right().CanMerge(3, types.CanvasLeft, 9))
}

func TestMergeCheckReasons(t *testing.T) {
	p := loadedPair(
		[]types.Marking{point(1, "a"), point(2, "b")},
		[]types.Marking{point(1, "a"), point(3, "c")},
	)

	tests := []struct {
		name       string
		canvas     types.CanvasID
		localLabel int
		other      types.CanvasID
		otherLabel int
		want       error
		text       string
	}{
		{"free pair", types.CanvasLeft, 2, types.CanvasRight, 3, nil, ""},
		{"same label", types.CanvasLeft, 1, types.CanvasRight, 1, nil, ""},
		{"same canvas", types.CanvasLeft, 2, types.CanvasLeft, 1, types.ErrSameCanvas, ""},
		{"local missing", types.CanvasLeft, 7, types.CanvasRight, 3, types.ErrNotFound, "left/7"},
		{"other missing", types.CanvasRight, 3, types.CanvasLeft, 9, types.ErrNotFound, "left/9"},
		{"local paired", types.CanvasLeft, 1, types.CanvasRight, 3, types.ErrAlreadyPaired, "left/1 is paired with right/1"},
		{"other paired", types.CanvasRight, 3, types.CanvasLeft, 1, types.ErrAlreadyPaired, "left/1 is paired with right/1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Registry(tt.canvas).MergeCheck(tt.localLabel, tt.other, tt.otherLabel)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), tt.text)
		})
	}
}
