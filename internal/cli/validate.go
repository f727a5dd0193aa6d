package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/config"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/provision"
)

type validateOptions struct {
	cfgPath   string
	publicDir string
}

func newValidateCmd() *cobra.Command {
	opts := validateOptions{
		cfgPath: config.DefaultPath,
	}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Dry-run the synthesis and report the first violation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateWithOptions(opts, cmd.OutOrStdout())
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&opts.cfgPath, "config", "c", config.DefaultPath, "config yaml path")
	fs.StringVar(&opts.publicDir, "public-dir", "", "public directory override")
	return cmd
}

func runValidateWithOptions(opts validateOptions, out io.Writer) error {
	cfg, err := config.Load(opts.cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if dir := strings.TrimSpace(opts.publicDir); dir != "" {
		cfg.Build.PublicDir = dir
	}
	plan, err := provision.BuildPlan(context.Background(), cfg, provision.Deps{})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "configuration OK: behaviors=%d (+ default)\n", len(plan.Behaviors))
	return nil
}
