package cli

import (
	"github.com/spf13/cobra"

	"github.com/ds-destinationsolutions/cdk-nextjs/internal/tui"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/config"
)

type tuiOptions struct {
	cfgPath string
}

func newTuiCmd() *cobra.Command {
	opts := tuiOptions{
		cfgPath: config.DefaultPath,
	}
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the synthesized plan interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(opts.cfgPath)
		},
	}
	cmd.Flags().StringVarP(&opts.cfgPath, "config", "c", config.DefaultPath, "config yaml path")
	return cmd
}
