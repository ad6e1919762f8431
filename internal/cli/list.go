package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pairmark/pkg/types"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [canvas]",
		Short: "List markings",
		Long:  "List the markings of both canvases, or of one, in stored order.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			canvases := types.Canvases
			if len(args) == 1 {
				c, err := parseCanvasArg(args[0])
				if err != nil {
					return userError(a.out.Error("Unknown canvas", err.Error(), "Use left or right"))
				}
				canvases = []types.CanvasID{c}
			}

			return a.run(func(s *session) error {
				views := viewsOf(s.pair.Snapshot(), canvases...)
				if a.flags.jsonMode {
					return writeJSON(a.out.Out(), views)
				}
				return writeTable(a.out.Out(), views)
			})
		},
	}
}
