// JSON record structure for markings.jsonl.
package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/pairmark/pkg/types"
)

// markingJSON is one line of markings.jsonl. The shape is stored as raw
// JSON and decoded according to kind.
type markingJSON struct {
	Canvas   string          `json:"canvas"`
	Position int             `json:"position"`
	Label    int             `json:"label"`
	IDs      []string        `json:"ids"`
	TypeID   string          `json:"type_id"`
	Kind     string          `json:"kind"`
	Shape    json.RawMessage `json:"shape"`
}

// newMarkingJSON converts a marking at position on canvas into its record.
func newMarkingJSON(canvas types.CanvasID, position int, m types.Marking) (markingJSON, error) {
	if err := m.Validate(); err != nil {
		return markingJSON{}, fmt.Errorf("%s/%d: %w", canvas, m.Label, err)
	}
	shape, err := json.Marshal(m.Shape)
	if err != nil {
		return markingJSON{}, fmt.Errorf("encoding shape of %s/%d: %w", canvas, m.Label, err)
	}
	return markingJSON{
		Canvas:   string(canvas),
		Position: position,
		Label:    m.Label,
		IDs:      types.DedupeIDs(m.IDs),
		TypeID:   m.TypeID,
		Kind:     string(m.Kind()),
		Shape:    shape,
	}, nil
}

// marking converts the record back into a marking.
func (r markingJSON) marking() (types.CanvasID, types.Marking, error) {
	canvas, err := types.ParseCanvasID(r.Canvas)
	if err != nil {
		return "", types.Marking{}, err
	}
	kind, err := types.ParseKind(r.Kind)
	if err != nil {
		return "", types.Marking{}, err
	}
	shape, err := decodeShape(kind, r.Shape)
	if err != nil {
		return "", types.Marking{}, fmt.Errorf("decoding %s shape: %w", kind, err)
	}
	m := types.Marking{
		Label:  r.Label,
		IDs:    types.DedupeIDs(r.IDs),
		TypeID: r.TypeID,
		Shape:  shape,
	}
	if err := m.Validate(); err != nil {
		return "", types.Marking{}, err
	}
	return canvas, m, nil
}

func decodeShape(kind types.Kind, raw json.RawMessage) (types.Shape, error) {
	switch kind {
	case types.KindPoint:
		return decodeAs[types.PointShape](raw)
	case types.KindRay:
		return decodeAs[types.RayShape](raw)
	case types.KindLineSegment:
		return decodeAs[types.LineSegmentShape](raw)
	case types.KindBoundingBox:
		return decodeAs[types.BoundingBoxShape](raw)
	case types.KindPolygon:
		return decodeAs[types.PolygonShape](raw)
	case types.KindRectangle:
		return decodeAs[types.RectangleShape](raw)
	default:
		return nil, types.ErrInvalidKind
	}
}

func decodeAs[S types.Shape](raw json.RawMessage) (types.Shape, error) {
	var s S
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return s, nil
}
