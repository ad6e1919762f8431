package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the release version, set with -ldflags at build time.
var Version = "0.1.0-dev"

const modulePath = "github.com/mesh-intelligence/pairmark"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pairmark version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "pairmark v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
