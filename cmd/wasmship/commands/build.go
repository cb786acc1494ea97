package commands

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.trai.ch/wasmship/internal/core/domain"
	"go.trai.ch/wasmship/internal/ui/output"
	"go.trai.ch/wasmship/internal/ui/style"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile, augment and compress the canister module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if watch, _ := cmd.Flags().GetBool("watch"); watch {
				return c.app.Watch(cmd.Context())
			}
			report, err := c.app.Build(cmd.Context())
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().BoolP("watch", "w", false, "Rebuild whenever the sources change")
	return cmd
}

func printReport(w io.Writer, r *domain.BuildReport) {
	out := output.New(w)
	check := style.Paint(out, style.Check, style.Green)

	_, _ = fmt.Fprintf(w, "%s Build complete! Output: %s\n", check, r.Published)
	_, _ = fmt.Fprintf(w, "File size: %s bytes\n", humanize.Comma(r.Size))

	if r.Previous == nil || r.Hash == "" {
		return
	}
	if r.Reproducible {
		_, _ = fmt.Fprintf(w, "Reproducible: identical to previous build (%s)\n", r.Hash)
		return
	}
	warn := style.Paint(out, style.Warning, style.Yellow)
	_, _ = fmt.Fprintf(w, "%s Changed since previous build: %s %s %s\n", warn, r.Previous.Hash, style.Arrow, r.Hash)
}
