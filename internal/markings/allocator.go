package markings

// InitialLabel is the first label handed out when both canvases are empty.
const InitialLabel = 1

// LabelAllocator computes the next usable label for one registry. Its
// cursor tracks the highest label across both registries and must be reset
// whenever the global label set changes.
type LabelAllocator struct {
	registry *Registry
	cursor   int
}

func newLabelAllocator(r *Registry) *LabelAllocator {
	return &LabelAllocator{registry: r, cursor: InitialLabel}
}

// Label returns the label for the next committed marking. A selected
// marking is edited in place, so its label is returned unchanged. Otherwise
// the cursor moves to the highest label on either canvas and advances until
// the label is free on both: a new entity never reuses a label that already
// names a marking, because an equal label across canvases would declare a
// correspondence.
func (a *LabelAllocator) Label() int {
	if sel, ok := a.registry.SelectedLabel(); ok {
		return sel
	}
	target := a.registry.pair.maxLabel()
	if target == 0 {
		target = InitialLabel
	}
	a.cursor = target
	for a.registry.pair.labelTaken(a.cursor) {
		a.cursor++
	}
	return a.cursor
}

// Current returns the cursor without moving it.
func (a *LabelAllocator) Current() int {
	return a.cursor
}

// Reset recomputes the cursor from the highest label on either canvas.
func (a *LabelAllocator) Reset() {
	a.cursor = a.registry.pair.maxLabel()
	if a.cursor == 0 {
		a.cursor = InitialLabel
	}
}
