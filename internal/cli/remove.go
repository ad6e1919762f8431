package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pairmark/pkg/types"
)

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <canvas> <label>",
		Short: "Remove a marking",
		Long: `Remove the marking with the given label from one canvas.

When the other canvas has no marking with that label, labels on both
canvases are renumbered to stay dense.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			canvas, err := parseCanvasArg(args[0])
			if err != nil {
				return userError(a.out.Error("Unknown canvas", err.Error(), "Use left or right"))
			}
			label, err := parseLabelArg(args[1])
			if err != nil {
				return userError(a.out.Error("Invalid label", err.Error()))
			}

			return a.run(func(s *session) error {
				if err := s.remove(canvas, label); err != nil {
					if errors.Is(err, types.ErrNotFound) {
						return userError(a.out.Error("Marking not found", err.Error(), "Run 'pairmark list' to see labels"))
					}
					return sysError(err)
				}
				a.out.Success("removed %s/%d\n", canvas, label)
				return nil
			})
		},
	}
}
