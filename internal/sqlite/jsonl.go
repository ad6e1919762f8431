// JSONL read/write helpers with atomic persistence.
package sqlite

import (
	"bufio"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/mesh-intelligence/pairmark/pkg/types"
)

// markingsJSONL is the source-of-truth file in DataDir.
const markingsJSONL = "markings.jsonl"

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped. A missing file reads as
// empty.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// readMarkingsJSONL decodes markings.jsonl into a snapshot. Lines that do
// not decode into a valid marking are skipped and counted. Each canvas is
// ordered by position; a label seen twice on one canvas keeps the last line.
func readMarkingsJSONL(dataDir string) (types.Snapshot, int, error) {
	raw, err := readJSONL(filepath.Join(dataDir, markingsJSONL))
	if err != nil {
		return types.Snapshot{}, 0, err
	}

	type positioned struct {
		position int
		marking  types.Marking
	}
	byCanvas := map[types.CanvasID][]positioned{}
	skipped := 0
	for _, line := range raw {
		var rec markingJSON
		if err := json.Unmarshal(line, &rec); err != nil {
			skipped++
			continue
		}
		canvas, m, err := rec.marking()
		if err != nil {
			skipped++
			continue
		}
		entries := slices.DeleteFunc(byCanvas[canvas], func(p positioned) bool {
			return p.marking.Label == m.Label
		})
		byCanvas[canvas] = append(entries, positioned{rec.Position, m})
	}

	var s types.Snapshot
	for _, c := range types.Canvases {
		entries := byCanvas[c]
		slices.SortStableFunc(entries, func(a, b positioned) int {
			return cmp.Compare(a.position, b.position)
		})
		ms := make([]types.Marking, 0, len(entries))
		for _, e := range entries {
			ms = append(ms, e.marking)
		}
		if c == types.CanvasLeft {
			s.Left = ms
		} else {
			s.Right = ms
		}
	}
	return s, skipped, nil
}

// snapshotRecords converts both canvases into JSONL records, positions
// numbered from zero per canvas. A label repeated on one canvas is rejected.
func snapshotRecords(s types.Snapshot) ([]markingJSON, error) {
	records := make([]markingJSON, 0, s.Len())
	for _, c := range types.Canvases {
		seen := map[int]bool{}
		for i, m := range s.Markings(c) {
			if seen[m.Label] {
				return nil, fmt.Errorf("%w: %s/%d appears twice", types.ErrDuplicateLabel, c, m.Label)
			}
			seen[m.Label] = true
			rec, err := newMarkingJSON(c, i, m)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

// writeMarkingsJSONL writes records to markings.jsonl atomically.
func writeMarkingsJSONL(dataDir string, records []markingJSON) error {
	lines := make([]json.RawMessage, 0, len(records))
	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding %s/%d: %w", rec.Canvas, rec.Label, err)
		}
		lines = append(lines, b)
	}
	return writeJSONL(filepath.Join(dataDir, markingsJSONL), lines)
}
