package types

import "errors"

// Store persists canvas snapshots. The markings core never calls it
// directly; callers load a Snapshot into the pair and save it back.
type Store interface {
	// Attach connects the store to the backend described by config.
	// Returns ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	Detach() error

	// Load returns both canvases in their stored order.
	Load() (Snapshot, error)

	// Save replaces the stored session with s.
	Save(s Snapshot) error

	// Fetch returns the stored markings of one canvas.
	Fetch(canvas CanvasID) ([]Marking, error)
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)
