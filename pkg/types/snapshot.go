// Snapshot is the bulk unit for loading and persisting both canvases.
package types

// Snapshot holds the ordered markings of both canvases.
type Snapshot struct {
	Left  []Marking
	Right []Marking
}

// Markings returns the markings of the given canvas.
// Panics on an unknown canvas, like CanvasID.Opposite.
func (s Snapshot) Markings(c CanvasID) []Marking {
	switch c {
	case CanvasLeft:
		return s.Left
	case CanvasRight:
		return s.Right
	default:
		panic(c.Validate())
	}
}

// Len returns the number of markings across both canvases.
func (s Snapshot) Len() int {
	return len(s.Left) + len(s.Right)
}
