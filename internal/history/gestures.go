package history

import (
	"github.com/google/uuid"

	"github.com/mesh-intelligence/pairmark/internal/markings"
	"github.com/mesh-intelligence/pairmark/pkg/types"
)

// CommitTemporary turns the temporary marking of canvas into a recorded
// AddOrUpdate. The label comes from the canvas allocator, so a selected
// marking is overwritten in place. A marking without ids gets a fresh one.
// Returns the committed marking, or false when there was no temporary
// marking.
func CommitTemporary(h *History, p *markings.Pair, canvas types.CanvasID) (types.Marking, bool) {
	r := p.Registry(canvas)
	tmp, ok := r.TemporaryMarking()
	if !ok {
		return types.Marking{}, false
	}
	tmp.Label = r.Labels().Label()
	if len(tmp.IDs) == 0 {
		tmp.IDs = []string{NewCorrespondenceID()}
	}
	h.Execute(NewAddOrUpdate(p, canvas, tmp))
	r.SetTemporaryMarking(nil)
	return r.Find(tmp.Label)
}

// NewCorrespondenceID returns a fresh correspondence id (UUID v7).
func NewCorrespondenceID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// MergeSelector returns a merge function for Pair.SelectMerge that records
// completed merges in h. Merges that would change nothing are not recorded.
func MergeSelector(h *History, p *markings.Pair) markings.MergeFunc {
	return func(local types.CanvasID, localLabel int, other types.CanvasID, otherLabel int) bool {
		if !p.Registry(local).CanMerge(localLabel, other, otherLabel) {
			return false
		}
		cmd := NewMerge(p, local, localLabel, other, otherLabel)
		h.Execute(cmd)
		return cmd.Merged()
	}
}
