package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/wasmship/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	var opts app.CleanOptions

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the build record and optionally the dependency cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Clean(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Cache, "cache", false, "Remove the dependency cache instead of the build record")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Remove the build record and the dependency cache")
	return cmd
}
