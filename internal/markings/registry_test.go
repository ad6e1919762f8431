package markings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pairmark/pkg/types"
)

func TestAddOneReplacesAndKeepsRecordedIDs(t *testing.T) {
	p := loadedPair(
		[]types.Marking{point(1, "a", "b"), point(2, "c")},
		[]types.Marking{point(3, "q")},
	)
	left := p.Left()

	left.AddOne(point(1, "z"))

	assert.Equal(t, []int{2, 1}, labelsOf(left), "replacement goes to the end")
	assert.Equal(t, []string{"a", "b"}, idsOf(t, left, 1))
}

func TestAddOneReusesOppositeIDs(t *testing.T) {
	p := loadedPair(
		[]types.Marking{point(1, "a")},
		[]types.Marking{point(2, "q", "q", "r")},
	)

	p.Left().AddOne(point(2, "new"))

	assert.Equal(t, []string{"q", "r"}, idsOf(t, p.Left(), 2))
}

func TestAddOneDedupesIncomingIDs(t *testing.T) {
	p := NewPair()
	p.Left().AddOne(point(1, "a", "a", "b"))
	assert.Equal(t, []string{"a", "b"}, idsOf(t, p.Left(), 1))
}

func TestAddOneClearsSelectionAndNotifies(t *testing.T) {
	det := &recordingDetector{}
	sink := &recordingSink{}
	p := NewPair(WithChangeDetector(det), WithLastAddedSink(sink))
	left := p.Left()
	left.SetSelectedLabel(1)
	before := left.Version()

	left.AddOne(point(1, "a"))

	_, selected := left.SelectedLabel()
	assert.False(t, selected)
	assert.NotEqual(t, before, left.Version())
	require.NotEmpty(t, det.calls)
	assert.Equal(t, [2]string{left.Version(), p.Right().Version()}, det.calls[len(det.calls)-1])
	require.NotNil(t, sink.last())
	assert.Equal(t, types.CanvasLeft, sink.last().Canvas)
	assert.Equal(t, 1, sink.last().Marking.Label)
	assert.Equal(t, 1, left.Labels().Current())
}

func TestAddManySingleVersionBump(t *testing.T) {
	det := &recordingDetector{}
	p := NewPair(WithChangeDetector(det))
	right := p.Right()

	right.AddMany([]types.Marking{point(1, "a"), point(2, "b"), point(1, "c")})

	assert.Len(t, det.calls, 1)
	assert.Equal(t, []int{2, 1}, labelsOf(right))
	assert.Equal(t, []string{"c"}, idsOf(t, right, 1), "later batch entry wins")
	assert.Equal(t, 2, right.Labels().Current())
}

func TestAddManyReconcilesIDs(t *testing.T) {
	p := loadedPair([]types.Marking{point(1, "x", "y")}, nil)

	p.Right().AddMany([]types.Marking{point(1, "other"), point(2, "b")})

	assert.Equal(t, []string{"x", "y"}, idsOf(t, p.Right(), 1))
	assert.Equal(t, []string{"b"}, idsOf(t, p.Right(), 2))
}

func TestRemoveWithoutCounterpartCompacts(t *testing.T) {
	p := loadedPair(
		[]types.Marking{point(1, "a"), point(2, "b"), point(3, "c")},
		[]types.Marking{point(1, "a"), point(3, "c")},
	)
	p.Left().SetSelectedLabel(3)
	p.Right().SetSelectedLabel(3)

	p.Left().RemoveOneByLabel(2)

	assert.Equal(t, []int{1, 2}, labelsOf(p.Left()))
	assert.Equal(t, []int{1, 2}, labelsOf(p.Right()))
	assert.Equal(t, []string{"c"}, idsOf(t, p.Left(), 2))
	assert.Equal(t, []string{"c"}, idsOf(t, p.Right(), 2))

	sel, ok := p.Left().SelectedLabel()
	assert.True(t, ok)
	assert.Equal(t, 2, sel, "selection follows its marking")
	sel, ok = p.Right().SelectedLabel()
	assert.True(t, ok)
	assert.Equal(t, 2, sel)

	assert.Equal(t, 2, p.Left().Labels().Current())
	assert.Equal(t, 2, p.Right().Labels().Current())
}

func TestRemoveWithCounterpartKeepsLabels(t *testing.T) {
	p := loadedPair(
		[]types.Marking{point(1, "a"), point(2, "b")},
		[]types.Marking{point(1, "a"), point(2, "b")},
	)

	p.Left().RemoveOneByLabel(1)

	assert.Equal(t, []int{2}, labelsOf(p.Left()))
	assert.Equal(t, []int{1, 2}, labelsOf(p.Right()))
	assert.Equal(t, 2, p.Left().Labels().Current())
}

func TestRemoveClearsSelectionLastAddedAndPending(t *testing.T) {
	sink := &recordingSink{}
	p := loadedPair([]types.Marking{point(1, "a"), point(2, "b")}, nil, WithLastAddedSink(sink))
	p.Left().SetSelectedLabel(2)
	p.Context().SetPendingMerge(&PendingMerge{Canvas: types.CanvasLeft, Label: 1})
	require.NotNil(t, sink.last())

	p.Left().RemoveOneByLabel(2)

	_, ok := p.Left().SelectedLabel()
	assert.False(t, ok)
	assert.Nil(t, sink.last())
	_, ok = p.Context().LastAdded()
	assert.False(t, ok)
	_, ok = p.Context().PendingMerge()
	assert.False(t, ok)
}

func TestRemoveLastMarkingResetsToInitial(t *testing.T) {
	p := loadedPair([]types.Marking{point(1, "a")}, nil)
	p.Left().RemoveOneByLabel(1)

	assert.Zero(t, p.Left().Len())
	assert.Equal(t, InitialLabel, p.Left().Labels().Current())
	assert.Equal(t, InitialLabel, p.Right().Labels().Current())
}

func TestFindIDsByLabel(t *testing.T) {
	p := loadedPair(
		[]types.Marking{point(1, "a")},
		[]types.Marking{point(1, "b"), point(2, "c")},
	)

	ids, ok := p.Left().FindIDsByLabel(1)
	assert.True(t, ok)
	assert.Equal(t, []string{"a"}, ids, "local registry first")

	ids, ok = p.Left().FindIDsByLabel(2)
	assert.True(t, ok)
	assert.Equal(t, []string{"c"}, ids)

	_, ok = p.Left().FindIDsByLabel(9)
	assert.False(t, ok)
}

func TestRestoreOneKeepsPosition(t *testing.T) {
	p := loadedPair(
		[]types.Marking{point(1, "a"), point(2, "b"), point(3, "c")},
		[]types.Marking{point(2, "b")},
	)
	removed, _ := p.Left().Find(2)

	p.Left().RemoveOneByLabel(2)
	require.Equal(t, []int{1, 3}, labelsOf(p.Left()))
	p.Left().RestoreOne(removed, 1)

	assert.Equal(t, []int{1, 2, 3}, labelsOf(p.Left()))
	assert.Equal(t, []string{"b"}, idsOf(t, p.Left(), 2))
}

func TestRestoreOneClampsIndex(t *testing.T) {
	p := loadedPair([]types.Marking{point(1, "a")}, nil)
	p.Left().RestoreOne(point(2, "b"), 10)
	p.Left().RestoreOne(point(3, "c"), -4)
	assert.Equal(t, []int{3, 1, 2}, labelsOf(p.Left()))
}

func TestLoadingBypassesChangeDetection(t *testing.T) {
	det := &recordingDetector{}
	sink := &recordingSink{}
	p := NewPair(WithChangeDetector(det), WithLastAddedSink(sink))
	before := p.Left().Version()

	p.Left().ResetForLoading()
	p.Left().AddManyForLoading([]types.Marking{point(1, "a"), point(2, "b")})

	assert.Empty(t, det.calls)
	assert.NotEqual(t, before, p.Left().Version())
	require.NotNil(t, sink.last())
	assert.Equal(t, 2, sink.last().Marking.Label)
	assert.Equal(t, 2, p.Left().Labels().Current())
}

func TestUnsavedChangesTracksBaseline(t *testing.T) {
	changes := NewUnsavedChanges()
	p := loadedPair([]types.Marking{point(1, "a")}, nil, WithChangeDetector(changes))
	assert.False(t, changes.Dirty(), "loading marks the baseline")

	p.Right().AddOne(point(2, "b"))
	assert.True(t, changes.Dirty())

	p.MarkSaved()
	assert.False(t, changes.Dirty())

	p.Left().SetSelectedLabel(1)
	assert.False(t, changes.Dirty(), "selection is not a marking change")
}

func TestResetClearsEverything(t *testing.T) {
	det := &recordingDetector{}
	p := loadedPair([]types.Marking{point(1, "a")}, []types.Marking{point(2, "b")}, WithChangeDetector(det))
	p.Left().SetSelectedLabel(1)
	tmp := point(3, "t")
	p.Left().SetTemporaryMarking(&tmp)

	p.Left().Reset()

	assert.Zero(t, p.Left().Len())
	assert.NotEmpty(t, det.calls)
	_, ok := p.Left().TemporaryMarking()
	assert.False(t, ok)
	assert.Equal(t, 2, p.Left().Labels().Current())
}

func TestTemporaryMarking(t *testing.T) {
	p := NewPair()
	r := p.Right()

	_, ok := r.TemporaryMarking()
	assert.False(t, ok)

	r.UpdateTemporaryMarking(func(m *types.Marking) { m.Label = 5 })
	_, ok = r.TemporaryMarking()
	assert.False(t, ok, "update without a temporary marking is a no-op")

	tmp := point(1, "a")
	r.SetTemporaryMarking(&tmp)
	r.UpdateTemporaryMarking(func(m *types.Marking) {
		m.Shape = types.LineSegmentShape{Endpoint: types.Point{X: 4, Y: 4}}
	})

	got, ok := r.TemporaryMarking()
	require.True(t, ok)
	assert.Equal(t, types.KindLineSegment, got.Kind())
	assert.Zero(t, r.Len(), "temporary markings are not committed")

	r.SetTemporaryMarking(nil)
	_, ok = r.TemporaryMarking()
	assert.False(t, ok)
}

func TestTransformPanicLeavesStateIntact(t *testing.T) {
	p := loadedPair([]types.Marking{point(1, "a"), point(2, "b")}, nil)
	r := p.Left()
	before := r.Markings()
	version := r.Version()

	assert.Panics(t, func() {
		r.setMarkings(func(draft []types.Marking) []types.Marking {
			draft[0].Label = 42
			draft[1].IDs[0] = "mutated"
			panic("boom")
		})
	})

	assert.Equal(t, before, r.Markings())
	assert.Equal(t, version, r.Version())
}

func TestMarkingsReturnsCopy(t *testing.T) {
	p := loadedPair([]types.Marking{point(1, "a")}, nil)
	ms := p.Left().Markings()
	ms[0].IDs[0] = "changed"
	assert.Equal(t, []string{"a"}, idsOf(t, p.Left(), 1))
}

func TestRelabel(t *testing.T) {
	p := loadedPair([]types.Marking{point(1, "a"), point(2, "b"), point(3, "c")}, nil)
	version := p.Left().Version()

	p.Left().Relabel(func(_ int, m types.Marking) (int, bool) { return m.Label, true })
	assert.Equal(t, version, p.Left().Version(), "no change, no commit")

	p.Left().Relabel(func(_ int, m types.Marking) (int, bool) {
		id, _ := m.FirstID()
		switch id {
		case "a":
			return 2, true
		case "b":
			return 1, true
		}
		return 0, false
	})
	assert.Equal(t, []int{2, 1, 3}, labelsOf(p.Left()))
	assert.NotEqual(t, version, p.Left().Version())
}

func TestRelabelByPosition(t *testing.T) {
	p := loadedPair([]types.Marking{point(1, "m"), point(2, "m"), point(3, "c")}, nil)
	want := []int{3, 1, 2}

	p.Left().Relabel(func(i int, _ types.Marking) (int, bool) { return want[i], true })

	assert.Equal(t, want, labelsOf(p.Left()))
	assert.Equal(t, []string{"m"}, idsOf(t, p.Left(), 1))
}
