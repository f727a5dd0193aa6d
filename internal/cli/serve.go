package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ds-destinationsolutions/cdk-nextjs/internal/planserver"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/config"
)

type serveOptions struct {
	cfgPath   string
	signalCmd string
}

func newServeCmd() *cobra.Command {
	opts := serveOptions{
		cfgPath: config.DefaultPath,
	}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the preview server for the synthesized plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServeWithOptions(opts)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&opts.cfgPath, "config", "c", config.DefaultPath, "config yaml path")
	fs.StringVarP(&opts.signalCmd, "signal", "s", "", "send a signal to a running preview server (supported: reload, stop)")
	return cmd
}

func runServeWithOptions(opts serveOptions) error {
	switch strings.ToLower(strings.TrimSpace(opts.signalCmd)) {
	case "":
		return planserver.Run(opts.cfgPath)
	case "reload":
		return signalPreview(opts.cfgPath, syscall.SIGHUP)
	case "stop":
		return signalPreview(opts.cfgPath, syscall.SIGTERM)
	default:
		return fmt.Errorf("unsupported --signal value %q (supported: reload, stop)", opts.signalCmd)
	}
}

// signalPreview looks up the running preview server through the pid file the
// config names and delivers sig to it.
func signalPreview(cfgPath string, sig syscall.Signal) error {
	pidFile, err := config.PidFilePath(cfgPath)
	if err != nil {
		return err
	}
	pid, err := readPID(pidFile)
	if err != nil {
		return err
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("locate preview server pid=%d: %w", pid, err)
	}
	if err := proc.Signal(sig); err != nil {
		return fmt.Errorf("signal preview server pid=%d: %w", pid, err)
	}
	return nil
}

func readPID(path string) (int, error) {
	// #nosec G304 -- pid file path comes from trusted config/env.
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("pid file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("pid file %s holds no valid pid", path)
	}
	return pid, nil
}
