// Canvas identifiers and the opposite-canvas resolver.
package types

import (
	"errors"
	"fmt"
)

// CanvasID identifies one of the two annotation canvases.
type CanvasID string

// The two canvases. There are never more.
const (
	CanvasLeft  CanvasID = "left"
	CanvasRight CanvasID = "right"
)

// Canvases lists both canvases in a fixed order (left first).
var Canvases = []CanvasID{CanvasLeft, CanvasRight}

// ErrUnknownCanvas reports a canvas identifier other than left or right.
var ErrUnknownCanvas = errors.New("unknown canvas")

// Validate returns ErrUnknownCanvas if c is not one of the two canvases.
func (c CanvasID) Validate() error {
	switch c {
	case CanvasLeft, CanvasRight:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCanvas, string(c))
	}
}

// Opposite returns the other canvas. An unknown identifier is a programming
// error and panics.
func (c CanvasID) Opposite() CanvasID {
	switch c {
	case CanvasLeft:
		return CanvasRight
	case CanvasRight:
		return CanvasLeft
	default:
		panic(fmt.Errorf("%w: %q", ErrUnknownCanvas, string(c)))
	}
}

// ParseCanvasID converts user input into a CanvasID.
// Returns ErrUnknownCanvas for anything but "left" or "right".
func ParseCanvasID(s string) (CanvasID, error) {
	c := CanvasID(s)
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}
