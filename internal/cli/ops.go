package cli

import (
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/pairmark/internal/history"
	"github.com/mesh-intelligence/pairmark/pkg/types"
)

// addRequest is a marking to commit on one canvas. A zero Label asks the
// allocator; a positive Label overwrites or pairs with that label.
type addRequest struct {
	Canvas types.CanvasID
	Label  int
	IDs    []string
	TypeID string
	Shape  types.Shape
}

// add commits req through the canvas's temporary marking, so it follows
// the same path as an interactive edit.
func (s *session) add(req addRequest) (types.Marking, error) {
	r := s.pair.Registry(req.Canvas)
	if req.Label > 0 {
		if !r.HasLabel(req.Label) && !s.pair.Registry(req.Canvas.Opposite()).HasLabel(req.Label) && req.Label != nextLabel(s) {
			return types.Marking{}, fmt.Errorf("%w: %d is not used on either canvas and is not the next label %d",
				types.ErrInvalidLabel, req.Label, nextLabel(s))
		}
		r.SetSelectedLabel(req.Label)
	}

	tmp := types.Marking{
		IDs:    types.DedupeIDs(req.IDs),
		TypeID: req.TypeID,
		Shape:  req.Shape,
	}
	r.SetTemporaryMarking(&tmp)
	m, ok := history.CommitTemporary(s.history, s.pair, req.Canvas)
	if !ok {
		return types.Marking{}, fmt.Errorf("%w: nothing to commit", types.ErrInvalidMarking)
	}
	s.logger.Debug("marking added", slog.String("canvas", string(req.Canvas)), slog.Int("label", m.Label))
	return m, nil
}

// nextLabel returns the label a new entity would get.
func nextLabel(s *session) int {
	highest := 0
	for _, c := range types.Canvases {
		for _, m := range s.pair.Registry(c).Markings() {
			highest = max(highest, m.Label)
		}
	}
	return highest + 1
}

func (s *session) remove(canvas types.CanvasID, label int) error {
	cmd, err := history.NewRemove(s.pair, canvas, label)
	if err != nil {
		return err
	}
	s.history.Execute(cmd)
	return nil
}

// merge runs the two-step merge gesture: label on canvas first, then
// otherLabel on the opposite canvas. Returns why nothing was merged.
func (s *session) merge(canvas types.CanvasID, label, otherLabel int) error {
	if err := s.pair.Registry(canvas).MergeCheck(label, canvas.Opposite(), otherLabel); err != nil {
		return err
	}
	s.selectMerge(canvas, label)
	if !s.selectMerge(canvas.Opposite(), otherLabel) {
		return fmt.Errorf("%s/%d and %s/%d were not merged", canvas, label, canvas.Opposite(), otherLabel)
	}
	return nil
}

func (s *session) selectMerge(canvas types.CanvasID, label int) bool {
	return s.pair.SelectMerge(canvas, label, history.MergeSelector(s.history, s.pair))
}
