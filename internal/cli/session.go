package cli

import (
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/pairmark/internal/history"
	"github.com/mesh-intelligence/pairmark/internal/markings"
	"github.com/mesh-intelligence/pairmark/pkg/sqlite"
	"github.com/mesh-intelligence/pairmark/pkg/types"
)

// session is one CLI invocation's view of the stored markings: the pair
// loaded from the store, its history and its unsaved-changes detector.
type session struct {
	backend types.Store
	pair    *markings.Pair
	history *history.History
	changes *markings.UnsavedChanges
	logger  *slog.Logger
}

// openSession attaches the store and loads the stored markings into a
// fresh pair. The caller must call close.
func (a *app) openSession() (*session, error) {
	backend := sqlite.NewBackend(a.logger)
	if err := backend.Attach(a.config); err != nil {
		return nil, fmt.Errorf("attach store: %w", err)
	}

	snap, err := backend.Load()
	if err != nil {
		backend.Detach()
		return nil, fmt.Errorf("load session: %w", err)
	}

	changes := markings.NewUnsavedChanges()
	pair := markings.NewPair(
		markings.WithChangeDetector(changes),
		markings.WithLogger(a.logger),
	)
	pair.LoadSnapshot(snap)

	return &session{
		backend: backend,
		pair:    pair,
		history: history.New(
			history.WithMaxDepth(a.config.HistoryDepth),
			history.WithLogger(a.logger),
		),
		changes: changes,
		logger:  a.logger,
	}, nil
}

// save writes the pair back when it changed. Returns whether it wrote.
func (s *session) save() (bool, error) {
	if !s.changes.Dirty() {
		return false, nil
	}
	if err := s.backend.Save(s.pair.Snapshot()); err != nil {
		return false, fmt.Errorf("save session: %w", err)
	}
	s.pair.MarkSaved()
	return true, nil
}

func (s *session) close() {
	if err := s.backend.Detach(); err != nil {
		s.logger.Warn("detach store", slog.Any("error", err))
	}
}

// run opens a session, calls fn and saves the result. fn errors are
// returned as they are; store failures become system errors.
func (a *app) run(fn func(s *session) error) error {
	s, err := a.openSession()
	if err != nil {
		return sysError(a.out.Error("Cannot open session", err.Error(), "Run 'pairmark init' or check --data-dir"))
	}
	defer s.close()

	if err := fn(s); err != nil {
		return err
	}
	if _, err := s.save(); err != nil {
		return sysError(a.out.Error("Cannot save session", err.Error()))
	}
	return nil
}
