package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ds-destinationsolutions/cdk-nextjs/internal/logx"
	"github.com/ds-destinationsolutions/cdk-nextjs/internal/render"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/config"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/provision"
)

type planOptions struct {
	cfgPath     string
	format      string
	outPath     string
	probeOrigin bool
}

func newPlanCmd() *cobra.Command {
	opts := planOptions{
		cfgPath: config.DefaultPath,
		format:  string(render.FormatTable),
	}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Synthesize the routing plan and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlanWithOptions(opts, cmd.OutOrStdout())
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&opts.cfgPath, "config", "c", config.DefaultPath, "config yaml path")
	fs.StringVarP(&opts.format, "format", "f", string(render.FormatTable), "output format: table, json, yaml")
	fs.StringVarP(&opts.outPath, "out", "o", "", "write output to file instead of stdout")
	fs.BoolVar(&opts.probeOrigin, "probe-origin", false, "HEAD the server url and warn when unreachable")
	return cmd
}

func runPlanWithOptions(opts planOptions, out io.Writer) error {
	format, err := render.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	cfg, err := config.Load(opts.cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	plan, err := provision.BuildPlan(context.Background(), cfg, provision.Deps{})
	if err != nil {
		return err
	}

	if opts.probeOrigin || cfg.Preview.Probe.Enabled {
		timeout := time.Duration(cfg.Preview.Probe.TimeoutMs) * time.Millisecond
		if probeErr := provision.ProbeOrigin(context.Background(), nil, cfg.Server.URL, timeout); probeErr != nil {
			log.Printf("%s origin probe failed (plan is still rendered): %v", logx.WarnBanner(), probeErr)
		}
	}

	rendered, err := render.Plan(plan, format)
	if err != nil {
		return err
	}

	if path := strings.TrimSpace(opts.outPath); path != "" {
		if err := os.WriteFile(path, []byte(rendered), 0o600); err != nil {
			return fmt.Errorf("write %q: %w", path, err)
		}
		fmt.Fprintf(out, "plan written to %s\n", path)
		return nil
	}
	_, err = io.WriteString(out, rendered)
	return err
}
