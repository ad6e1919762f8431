package cli

import (
	"github.com/spf13/cobra"
)

func newCompactCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compact",
		Short: "Renumber labels to 1..K across both canvases",
		Long: `Renumber the distinct labels of both canvases to 1..K in ascending order.
A session whose labels are already dense is left unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(s *session) error {
				s.pair.CompactLabelsAcrossBoth()
				if s.changes.Dirty() {
					a.out.Success("labels compacted\n")
				} else {
					a.out.Info("labels already compact\n")
				}
				return nil
			})
		},
	}
}
