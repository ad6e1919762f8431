package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/pairmark/pkg/types"
)

// shapeSpec describes a shape from flags or a replay step.
type shapeSpec struct {
	Kind   string  `yaml:"kind"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	X2     float64 `yaml:"x2"`
	Y2     float64 `yaml:"y2"`
	Angle  float64 `yaml:"angle"`
	Points string  `yaml:"points"`
}

// build returns the shape. Points use the form "x,y;x,y;...".
func (s shapeSpec) build() (types.Shape, error) {
	kind, err := types.ParseKind(s.Kind)
	if err != nil {
		return nil, err
	}
	origin := types.Point{X: s.X, Y: s.Y}
	end := types.Point{X: s.X2, Y: s.Y2}

	switch kind {
	case types.KindPoint:
		return types.PointShape{Origin: origin}, nil
	case types.KindRay:
		return types.RayShape{Origin: origin, AngleRad: s.Angle}, nil
	case types.KindLineSegment:
		return types.LineSegmentShape{Origin: origin, Endpoint: end}, nil
	case types.KindBoundingBox:
		return types.BoundingBoxShape{Origin: origin, Endpoint: end}, nil
	}

	points, err := parsePoints(s.Points)
	if err != nil {
		return nil, err
	}
	if kind == types.KindRectangle {
		if len(points) != 4 {
			return nil, fmt.Errorf("%w: rectangle needs 4 points, got %d", types.ErrInvalidMarking, len(points))
		}
		return types.RectangleShape{Origin: origin, Points: points}, nil
	}
	if len(points) < 3 {
		return nil, fmt.Errorf("%w: polygon needs at least 3 points, got %d", types.ErrInvalidMarking, len(points))
	}
	return types.PolygonShape{Origin: origin, Points: points}, nil
}

func parsePoints(s string) ([]types.Point, error) {
	var points []types.Point
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		xs, ys, ok := strings.Cut(pair, ",")
		if !ok {
			return nil, fmt.Errorf("%w: point %q is not x,y", types.ErrInvalidMarking, pair)
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("%w: point %q is not numeric", types.ErrInvalidMarking, pair)
		}
		points = append(points, types.Point{X: x, Y: y})
	}
	return points, nil
}
