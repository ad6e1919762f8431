package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/pairmark/pkg/types"
)

// Replay step operations.
const (
	opAdd         = "add"
	opRemove      = "remove"
	opMerge       = "merge"
	opSelectMerge = "select-merge"
	opSelect      = "select"
	opUndo        = "undo"
	opRedo        = "redo"
	opCompact     = "compact"
)

var replayOps = []string{opAdd, opRemove, opMerge, opSelectMerge, opSelect, opUndo, opRedo, opCompact}

// replayScript is the YAML document read by the replay command.
type replayScript struct {
	Steps []replayStep `yaml:"steps"`
}

// replayStep is one user action. Fields not used by an operation are
// ignored.
type replayStep struct {
	Op         string    `yaml:"op"`
	Canvas     string    `yaml:"canvas"`
	Label      int       `yaml:"label"`
	OtherLabel int       `yaml:"other_label"`
	IDs        []string  `yaml:"ids"`
	TypeID     string    `yaml:"type_id"`
	Shape      shapeSpec `yaml:",inline"`
}

// replaySummary is the JSON output of replay.
type replaySummary struct {
	Steps     int           `json:"steps"`
	Saved     bool          `json:"saved"`
	UndoDepth int           `json:"undo_depth"`
	RedoDepth int           `json:"redo_depth"`
	Markings  []markingView `json:"markings"`
}

func parseReplayScript(r io.Reader) (replayScript, error) {
	var script replayScript
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&script); err != nil && !errors.Is(err, io.EOF) {
		return replayScript{}, fmt.Errorf("parse script: %w", err)
	}
	for i, st := range script.Steps {
		if !slices.Contains(replayOps, st.Op) {
			return replayScript{}, fmt.Errorf("step %d: unknown op %q (valid: %s)", i+1, st.Op, strings.Join(replayOps, ", "))
		}
	}
	return script, nil
}

func newReplayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Run a script of edits with undo and redo",
		Long: `Replay a YAML script of edits against the session in one process, with
full undo and redo history, then save the result.

Example script:
  steps:
    - op: add
      canvas: left
      kind: point
      x: 10
      y: 20
      ids: [m1]
    - op: add
      canvas: right
      kind: point
      ids: [m2]
    - op: merge
      canvas: left
      label: 1
      other_label: 2
    - op: undo
    - op: redo

Operations: ` + strings.Join(replayOps, ", ") + `. Use "-" to read the script
from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return userError(a.out.Error("Cannot read script", err.Error()))
				}
				defer f.Close()
				in = f
			}
			script, err := parseReplayScript(in)
			if err != nil {
				return userError(a.out.Error("Invalid script", err.Error()))
			}

			s, err := a.openSession()
			if err != nil {
				return sysError(a.out.Error("Cannot open session", err.Error(), "Run 'pairmark init' or check --data-dir"))
			}
			defer s.close()

			for i, st := range script.Steps {
				if err := a.replayStep(s, st); err != nil {
					return userError(a.out.Error(fmt.Sprintf("Step %d (%s) failed", i+1, st.Op), err.Error(), "Nothing was saved"))
				}
			}

			saved, err := s.save()
			if err != nil {
				return sysError(a.out.Error("Cannot save session", err.Error()))
			}

			if a.flags.jsonMode {
				return writeJSON(a.out.Out(), replaySummary{
					Steps:     len(script.Steps),
					Saved:     saved,
					UndoDepth: s.history.UndoDepth(),
					RedoDepth: s.history.RedoDepth(),
					Markings:  viewsOf(s.pair.Snapshot(), types.Canvases...),
				})
			}
			a.out.Success("replayed %d steps\n", len(script.Steps))
			if !saved {
				a.out.Info("no changes to save\n")
			}
			return nil
		},
	}
}

// replayStep applies one step. Steps that change nothing (an empty undo, a
// merge of unrelated markings) warn instead of failing.
func (a *app) replayStep(s *session, st replayStep) error {
	var canvas types.CanvasID
	switch st.Op {
	case opAdd, opRemove, opMerge, opSelectMerge, opSelect:
		c, err := parseCanvasArg(st.Canvas)
		if err != nil {
			return err
		}
		canvas = c
	}

	if !a.flags.jsonMode {
		a.out.Step("%s\n", describeStep(st))
	}

	switch st.Op {
	case opAdd:
		shape, err := st.Shape.build()
		if err != nil {
			return err
		}
		_, err = s.add(addRequest{Canvas: canvas, Label: st.Label, IDs: st.IDs, TypeID: st.TypeID, Shape: shape})
		return err
	case opRemove:
		return s.remove(canvas, st.Label)
	case opMerge:
		if err := s.merge(canvas, st.Label, st.OtherLabel); err != nil {
			a.out.Warning("not merged: %v\n", err)
		}
	case opSelectMerge:
		s.selectMerge(canvas, st.Label)
	case opSelect:
		if st.Label > 0 && !s.pair.Registry(canvas).HasLabel(st.Label) {
			return fmt.Errorf("%w: %s/%d", types.ErrNotFound, canvas, st.Label)
		}
		s.pair.Registry(canvas).SetSelectedLabel(st.Label)
	case opUndo:
		if !s.history.Undo() {
			a.out.Warning("nothing to undo\n")
		}
	case opRedo:
		if !s.history.Redo() {
			a.out.Warning("nothing to redo\n")
		}
	case opCompact:
		s.pair.CompactLabelsAcrossBoth()
	}
	return nil
}

func describeStep(st replayStep) string {
	switch st.Op {
	case opAdd:
		if st.Label > 0 {
			return fmt.Sprintf("add %s %s at label %d", st.Canvas, st.Shape.Kind, st.Label)
		}
		return fmt.Sprintf("add %s %s", st.Canvas, st.Shape.Kind)
	case opRemove, opSelectMerge, opSelect:
		return fmt.Sprintf("%s %s/%d", st.Op, st.Canvas, st.Label)
	case opMerge:
		return fmt.Sprintf("merge %s/%d with %d", st.Canvas, st.Label, st.OtherLabel)
	default:
		return st.Op
	}
}
