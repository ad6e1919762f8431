package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pairmark/pkg/types"
)

func newAddCmd(a *app) *cobra.Command {
	var (
		spec   shapeSpec
		ids    []string
		typeID string
		label  int
	)
	cmd := &cobra.Command{
		Use:   "add <canvas>",
		Short: "Add or update a marking",
		Long: `Add a marking to the left or right canvas.

Without --label the marking gets the next free label. With --label it
replaces the marking with that label on the canvas, or pairs with the
marking carrying that label on the other canvas. Correspondence ids
already recorded under the label are kept.

Examples:
  pairmark add left --kind point --x 10 --y 20 --type-id minutia --id m1
  pairmark add right --label 1 --kind ray --x 4 --y 4 --angle 1.57
  pairmark add left --kind polygon --points "0,0;4,0;4,3"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			canvas, err := parseCanvasArg(args[0])
			if err != nil {
				return userError(a.out.Error("Unknown canvas", err.Error(), "Use left or right"))
			}
			shape, err := spec.build()
			if err != nil {
				return userError(a.out.Error("Invalid shape", err.Error()))
			}
			if label < 0 {
				return userError(a.out.Error("Invalid label", types.ErrInvalidLabel.Error()))
			}

			return a.run(func(s *session) error {
				m, err := s.add(addRequest{Canvas: canvas, Label: label, IDs: ids, TypeID: typeID, Shape: shape})
				if errors.Is(err, types.ErrInvalidLabel) || errors.Is(err, types.ErrInvalidMarking) {
					return userError(a.out.Error("Cannot add marking", err.Error()))
				}
				if err != nil {
					return sysError(err)
				}
				if a.flags.jsonMode {
					return writeJSON(a.out.Out(), newMarkingView(canvas, m))
				}
				a.out.Success("added %s/%d\n", canvas, m.Label)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&spec.Kind, "kind", string(types.KindPoint), "shape kind: point, ray, line_segment, bounding_box, polygon, rectangle")
	cmd.Flags().Float64Var(&spec.X, "x", 0, "origin x")
	cmd.Flags().Float64Var(&spec.Y, "y", 0, "origin y")
	cmd.Flags().Float64Var(&spec.X2, "x2", 0, "endpoint x (line_segment, bounding_box)")
	cmd.Flags().Float64Var(&spec.Y2, "y2", 0, "endpoint y (line_segment, bounding_box)")
	cmd.Flags().Float64Var(&spec.Angle, "angle", 0, "direction in radians (ray)")
	cmd.Flags().StringVar(&spec.Points, "points", "", `vertices "x,y;x,y;..." (polygon, rectangle)`)
	cmd.Flags().StringSliceVar(&ids, "id", nil, "correspondence id (repeatable; generated when omitted)")
	cmd.Flags().StringVar(&typeID, "type-id", "", "marking type id")
	cmd.Flags().IntVar(&label, "label", 0, "label to overwrite or pair with")
	return cmd
}
