package history

import (
	"log/slog"
)

// Command is one reversible edit. Unexecute is only valid immediately after
// Execute, with no other edit in between.
type Command interface {
	Execute()
	Unexecute()
}

// History executes commands and keeps them in LIFO undo and redo stacks.
type History struct {
	undo     []Command
	redo     []Command
	maxDepth int
	logger   *slog.Logger
}

// Option configures a History.
type Option func(*History)

// WithMaxDepth bounds the undo stack; the oldest entries are dropped first.
// Zero means unbounded.
func WithMaxDepth(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.maxDepth = n
		}
	}
}

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(h *History) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates an empty history.
func New(opts ...Option) *History {
	h := &History{logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With(slog.String("component", "history"))
	return h
}

// Execute runs cmd, pushes it onto the undo stack and clears the redo stack.
func (h *History) Execute(cmd Command) {
	cmd.Execute()
	h.undo = append(h.undo, cmd)
	h.redo = h.redo[:0]
	if h.maxDepth > 0 && len(h.undo) > h.maxDepth {
		h.undo = append(h.undo[:0], h.undo[len(h.undo)-h.maxDepth:]...)
	}
	h.logger.Debug("command executed", slog.Any("command", cmd), slog.Int("undo_depth", len(h.undo)))
}

// Undo reverts the most recent command. Returns false when there is nothing
// to undo.
func (h *History) Undo() bool {
	n := len(h.undo)
	if n == 0 {
		return false
	}
	cmd := h.undo[n-1]
	h.undo = h.undo[:n-1]
	cmd.Unexecute()
	h.redo = append(h.redo, cmd)
	h.logger.Debug("command undone", slog.Any("command", cmd))
	return true
}

// Redo re-applies the most recently undone command. Returns false when there
// is nothing to redo.
func (h *History) Redo() bool {
	n := len(h.redo)
	if n == 0 {
		return false
	}
	cmd := h.redo[n-1]
	h.redo = h.redo[:n-1]
	cmd.Execute()
	h.undo = append(h.undo, cmd)
	h.logger.Debug("command redone", slog.Any("command", cmd))
	return true
}

// CanUndo reports whether Undo would do anything.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo would do anything.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// UndoDepth returns the number of undoable commands.
func (h *History) UndoDepth() int { return len(h.undo) }

// RedoDepth returns the number of redoable commands.
func (h *History) RedoDepth() int { return len(h.redo) }

// Clear drops both stacks, typically after loading a new session.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}
