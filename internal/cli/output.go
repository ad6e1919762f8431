package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/pairmark/pkg/types"
)

// markingView is the JSON shape of a marking in CLI output.
type markingView struct {
	Canvas string      `json:"canvas"`
	Label  int         `json:"label"`
	IDs    []string    `json:"ids"`
	TypeID string      `json:"type_id"`
	Kind   string      `json:"kind"`
	Shape  types.Shape `json:"shape"`
}

func newMarkingView(c types.CanvasID, m types.Marking) markingView {
	return markingView{
		Canvas: string(c),
		Label:  m.Label,
		IDs:    m.IDs,
		TypeID: m.TypeID,
		Kind:   string(m.Kind()),
		Shape:  m.Shape,
	}
}

// viewsOf flattens the given canvases of s in order.
func viewsOf(s types.Snapshot, canvases ...types.CanvasID) []markingView {
	views := []markingView{}
	for _, c := range canvases {
		for _, m := range s.Markings(c) {
			views = append(views, newMarkingView(c, m))
		}
	}
	return views
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// writeTable renders markings as an aligned table.
func writeTable(w io.Writer, views []markingView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CANVAS\tLABEL\tKIND\tTYPE\tIDS")
	fmt.Fprintln(tw, "------\t-----\t----\t----\t---")
	for _, v := range views {
		ids := strings.Join(v.IDs, ",")
		if len(ids) > 48 {
			ids = ids[:45] + "..."
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", v.Canvas, v.Label, v.Kind, v.TypeID, ids)
	}
	return tw.Flush()
}

// parseCanvasArg parses a canvas argument, accepting any letter case.
func parseCanvasArg(s string) (types.CanvasID, error) {
	return types.ParseCanvasID(strings.ToLower(s))
}

// parseLabelArg parses a positive label argument.
func parseLabelArg(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidLabel, s)
	}
	return n, nil
}
