package markings

import (
	"log/slog"

	"github.com/mesh-intelligence/pairmark/pkg/types"
)

// PendingMerge is the first half of a two-step merge gesture.
type PendingMerge struct {
	Canvas types.CanvasID
	Label  int
}

// LastAdded identifies the most recently added marking for cross-component
// highlighting.
type LastAdded struct {
	Marking types.Marking
	Canvas  types.CanvasID
}

// ChangeDetector receives both registries' version tokens after every
// interactive mutation. The core does not interpret its response.
type ChangeDetector interface {
	CheckForUnsavedChanges(leftVersion, rightVersion string)
}

// LastAddedSink receives the last added marking, or nil when it is cleared.
type LastAddedSink interface {
	SetLastAdded(last *LastAdded)
}

// saveMarker is implemented by change detectors that track a saved baseline.
type saveMarker interface {
	MarkSaved(leftVersion, rightVersion string)
}

// Context holds the process-wide coordination slots shared by both
// registries: the pending merge selection and the last added marking, plus
// the external sinks that observe them.
type Context struct {
	pendingMerge  *PendingMerge
	lastAdded     *LastAdded
	changes       ChangeDetector
	lastAddedSink LastAddedSink
}

// PendingMerge returns the pending merge selection, if any.
func (c *Context) PendingMerge() (PendingMerge, bool) {
	if c.pendingMerge == nil {
		return PendingMerge{}, false
	}
	return *c.pendingMerge, true
}

// SetPendingMerge sets or clears (nil) the pending merge selection.
func (c *Context) SetPendingMerge(p *PendingMerge) {
	if p == nil {
		c.pendingMerge = nil
		return
	}
	cp := *p
	c.pendingMerge = &cp
}

// LastAdded returns the last added marking, if any.
func (c *Context) LastAdded() (LastAdded, bool) {
	if c.lastAdded == nil {
		return LastAdded{}, false
	}
	return *c.lastAdded, true
}

func (c *Context) setLastAdded(last *LastAdded) {
	if last != nil {
		cp := LastAdded{Marking: last.Marking.Clone(), Canvas: last.Canvas}
		last = &cp
	}
	c.lastAdded = last
	if c.lastAddedSink != nil {
		c.lastAddedSink.SetLastAdded(last)
	}
}

// Option configures a Pair.
type Option func(*Pair)

// WithChangeDetector installs the unsaved-changes collaborator.
func WithChangeDetector(d ChangeDetector) Option {
	return func(p *Pair) {
		p.ctx.changes = d
	}
}

// WithLastAddedSink installs the last-added highlighting collaborator.
func WithLastAddedSink(s LastAddedSink) Option {
	return func(p *Pair) {
		p.ctx.lastAddedSink = s
	}
}

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pair) {
		if l != nil {
			p.logger = l
		}
	}
}
