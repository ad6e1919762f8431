// Package sqlite provides the public API for the SQLite session store.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"log/slog"

	"github.com/mesh-intelligence/pairmark/internal/sqlite"
	"github.com/mesh-intelligence/pairmark/pkg/types"
)

// NewBackend creates a new SQLite session store. A nil logger means
// slog.Default. The backend is not attached; call Attach with a Config to
// initialize.
//
// Example:
//
//	store := sqlite.NewBackend(nil)
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".pairmark-db",
//	})
//	defer store.Detach()
func NewBackend(logger *slog.Logger) types.Store {
	if logger == nil {
		return sqlite.NewBackend()
	}
	return sqlite.NewBackend(sqlite.WithLogger(logger))
}
