// Shape variants carried by a marking. The core never interprets them; it
// only copies them when a marking is rebuilt with a new header.
package types

import (
	"errors"
	"fmt"
	"slices"
)

// Kind is the discriminant of the closed shape set.
type Kind string

// Marking kinds.
const (
	KindPoint       Kind = "point"
	KindRay         Kind = "ray"
	KindLineSegment Kind = "line_segment"
	KindBoundingBox Kind = "bounding_box"
	KindPolygon     Kind = "polygon"
	KindRectangle   Kind = "rectangle"
)

// Kinds lists every marking kind.
var Kinds = []Kind{
	KindPoint,
	KindRay,
	KindLineSegment,
	KindBoundingBox,
	KindPolygon,
	KindRectangle,
}

// ErrInvalidKind reports a kind outside the closed set.
var ErrInvalidKind = errors.New("invalid marking kind")

// ParseKind converts a kind name into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !slices.Contains(Kinds, k) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}

// Point is a position on a canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Shape is the kind-specific payload of a marking. The set of
// implementations is closed to this package.
type Shape interface {
	Kind() Kind
	clone() Shape
}

// PointShape is a single point.
type PointShape struct {
	Origin Point `json:"origin"`
}

// RayShape starts at Origin and extends in direction AngleRad.
type RayShape struct {
	Origin   Point   `json:"origin"`
	AngleRad float64 `json:"angle_rad"`
}

// LineSegmentShape joins Origin and Endpoint.
type LineSegmentShape struct {
	Origin   Point `json:"origin"`
	Endpoint Point `json:"endpoint"`
}

// BoundingBoxShape spans the axis-aligned box between Origin and Endpoint.
type BoundingBoxShape struct {
	Origin   Point `json:"origin"`
	Endpoint Point `json:"endpoint"`
}

// PolygonShape is a closed polyline through Points.
type PolygonShape struct {
	Origin Point   `json:"origin"`
	Points []Point `json:"points"`
}

// RectangleShape is a four-corner, possibly rotated, rectangle.
type RectangleShape struct {
	Origin Point   `json:"origin"`
	Points []Point `json:"points"`
}

func (PointShape) Kind() Kind       { return KindPoint }
func (RayShape) Kind() Kind         { return KindRay }
func (LineSegmentShape) Kind() Kind { return KindLineSegment }
func (BoundingBoxShape) Kind() Kind { return KindBoundingBox }
func (PolygonShape) Kind() Kind     { return KindPolygon }
func (RectangleShape) Kind() Kind   { return KindRectangle }

func (s PointShape) clone() Shape       { return s }
func (s RayShape) clone() Shape         { return s }
func (s LineSegmentShape) clone() Shape { return s }
func (s BoundingBoxShape) clone() Shape { return s }
func (s PolygonShape) clone() Shape {
	s.Points = slices.Clone(s.Points)
	return s
}
func (s RectangleShape) clone() Shape {
	s.Points = slices.Clone(s.Points)
	return s
}

// NewShape returns an empty shape of the given kind.
func NewShape(k Kind) (Shape, error) {
	switch k {
	case KindPoint:
		return PointShape{}, nil
	case KindRay:
		return RayShape{}, nil
	case KindLineSegment:
		return LineSegmentShape{}, nil
	case KindBoundingBox:
		return BoundingBoxShape{}, nil
	case KindPolygon:
		return PolygonShape{}, nil
	case KindRectangle:
		return RectangleShape{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, string(k))
	}
}
