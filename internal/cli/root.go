// Package cli wires the nextcdn commands: plan, validate, serve, tui,
// explain, version.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "nextcdn",
		Short:         "Synthesize and preview CDN routing configuration for Next.js-style apps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		newPlanCmd(),
		newValidateCmd(),
		newServeCmd(),
		newTuiCmd(),
		newExplainCmd(),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the CLI and reports the exit code.
func Execute() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
