package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ds-destinationsolutions/cdk-nextjs/internal/version"
)

func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the nextcdn version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := version.Get()
			if short {
				out = version.Version
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the bare version")
	return cmd
}
