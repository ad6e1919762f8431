// Package sqlite implements the session store for a markings pair.
//
// markings.jsonl in DataDir is the source of truth. On Attach it is loaded
// into a fresh SQLite database that serves reads; Save writes the JSONL file
// atomically first and then rewrites the table.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/pairmark/pkg/types"
)

// dbFile is the SQLite file name inside DataDir.
const dbFile = "pairmark.db"

// Backend implements types.Store using SQLite as the query engine and a
// JSONL file as the source of truth.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *slog.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With(slog.String("component", "sqlite"))
	return b
}

var _ types.Store = (*Backend)(nil)

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, creates an empty markings.jsonl when
// missing, builds a fresh schema and loads the JSONL records into it.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	if err := initJSONLFile(dataDir); err != nil {
		return err
	}

	// The database is rebuilt from JSONL on every attach.
	dbPath := filepath.Join(dataDir, dbFile)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return err
	}

	snap, skipped, err := readMarkingsJSONL(dataDir)
	if err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}
	records, err := snapshotRecords(snap)
	if err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}
	if err := replaceMarkings(db, records); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}
	if skipped > 0 {
		b.logger.Warn("skipped malformed markings", slog.Int("lines", skipped))
	}

	config.DataDir = dataDir
	b.db = db
	b.config = config
	b.attached = true
	b.logger.Debug("attached", slog.String("data_dir", dataDir), slog.Int("markings", len(records)))
	return nil
}

func initJSONLFile(dataDir string) error {
	path := filepath.Join(dataDir, markingsJSONL)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, nil, 0o644)
}

func createSchema(db *sql.DB) error {
	for _, ddl := range append(append([]string{}, schemaDDL...), indexDDL...) {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// Detach releases all resources held by the backend.
// After Detach, all operations return ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// Load returns both canvases in stored order.
func (b *Backend) Load() (types.Snapshot, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.Snapshot{}, types.ErrStoreDetached
	}
	records, err := queryRecords(b.db, "")
	if err != nil {
		return types.Snapshot{}, err
	}
	var s types.Snapshot
	for _, rec := range records {
		canvas, m, err := rec.marking()
		if err != nil {
			return types.Snapshot{}, fmt.Errorf("row %s/%d: %w", rec.Canvas, rec.Label, err)
		}
		if canvas == types.CanvasLeft {
			s.Left = append(s.Left, m)
		} else {
			s.Right = append(s.Right, m)
		}
	}
	return s, nil
}

// Fetch returns the stored markings of one canvas in order.
func (b *Backend) Fetch(canvas types.CanvasID) ([]types.Marking, error) {
	if err := canvas.Validate(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	records, err := queryRecords(b.db, "canvas = ?", string(canvas))
	if err != nil {
		return nil, err
	}
	ms := make([]types.Marking, 0, len(records))
	for _, rec := range records {
		_, m, err := rec.marking()
		if err != nil {
			return nil, fmt.Errorf("row %s/%d: %w", rec.Canvas, rec.Label, err)
		}
		ms = append(ms, m)
	}
	return ms, nil
}

// Save replaces the stored session with s. The JSONL file is written first;
// if the table rewrite then fails, the next Attach reconciles from JSONL.
func (b *Backend) Save(s types.Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	records, err := snapshotRecords(s)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := writeMarkingsJSONL(b.config.DataDir, records); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := replaceMarkings(b.db, records); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	b.logger.Debug("saved", slog.Int("left", len(s.Left)), slog.Int("right", len(s.Right)))
	return nil
}
