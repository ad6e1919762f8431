package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pairmark/pkg/sqlite"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize pairmark storage",
		Long:  "Create the configuration and data directories and an empty session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend := sqlite.NewBackend(a.logger)
			if err := backend.Attach(a.config); err != nil {
				return sysError(a.out.Error("Cannot initialize storage", err.Error()))
			}
			if err := backend.Detach(); err != nil {
				return sysError(a.out.Error("Cannot finalize storage", err.Error()))
			}

			a.out.Success("pairmark initialized\n")
			a.out.Info("  data: %s\n", a.config.DataDir)
			return nil
		},
	}
}
