package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/wasmship/internal/core/domain"
)

func (c *CLI) newTestCmd() *cobra.Command {
	var opts domain.TestOptions

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Rebuild if needed, provision dependencies and run the test suite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := c.app.Test(cmd.Context(), opts)
			return err
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.ForceRebuild, "force-rebuild", false, "Rebuild even if the artifact is up to date")
	flags.BoolVar(&opts.UnitOnly, "unit-only", false, "Run only unit tests (skips rebuild and provisioning)")
	flags.BoolVar(&opts.IntegrationOnly, "integration-only", false, "Run only integration tests")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Run tests with verbose output")
	flags.StringVar(&opts.TestName, "test-name", "", "Run only tests matching `name`")
	flags.BoolVar(&opts.NoCapture, "nocapture", false, "Show test output as it is produced")
	cmd.MarkFlagsMutuallyExclusive("unit-only", "integration-only")

	return cmd
}
