package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pairmark/pkg/types"
)

func newMergeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <canvas> <label> <other-label>",
		Short: "Declare two markings the same entity",
		Long: `Merge the marking <label> on <canvas> with the marking <other-label> on
the other canvas. Both end up with the union of their correspondence ids and
share <label>; labels are then renumbered to stay dense.

Example:
  pairmark merge left 2 5`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			canvas, err := parseCanvasArg(args[0])
			if err != nil {
				return userError(a.out.Error("Unknown canvas", err.Error(), "Use left or right"))
			}
			label, err := parseLabelArg(args[1])
			if err != nil {
				return userError(a.out.Error("Invalid label", err.Error()))
			}
			otherLabel, err := parseLabelArg(args[2])
			if err != nil {
				return userError(a.out.Error("Invalid label", err.Error()))
			}

			return a.run(func(s *session) error {
				if err := s.merge(canvas, label, otherLabel); err != nil {
					return userError(a.out.Error("Nothing to merge", err.Error(), mergeSuggestion(err)))
				}
				a.out.Success("merged %s/%d with %s/%d\n", canvas, label, canvas.Opposite(), otherLabel)
				return nil
			})
		},
	}
}

func mergeSuggestion(err error) string {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return "Run 'pairmark list' to see labels"
	case errors.Is(err, types.ErrAlreadyPaired):
		return "Remove the existing pairing first, or merge with its counterpart"
	default:
		return "Name a label on each canvas"
	}
}
