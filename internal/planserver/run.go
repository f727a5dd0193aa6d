package planserver

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ds-destinationsolutions/cdk-nextjs/internal/logx"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/config"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/provision"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/requestid"
)

const shutdownTimeout = 5 * time.Second

// Run starts the preview server: load config, synthesize the initial plan,
// install the SIGHUP handler and the public-dir watch, serve the API until
// SIGINT or SIGTERM.
func Run(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return runWithConfig(cfg)
}

func runWithConfig(cfg *config.Config) error {
	pidCleanup, err := writePIDFile(cfg.Preview.PidFile)
	if err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	if pidCleanup != nil {
		defer func() { _ = pidCleanup.Close() }()
	}

	st := newState(cfg, provision.Deps{})
	if err := st.Rebuild(context.Background()); err != nil {
		return fmt.Errorf("initial synthesis: %w", err)
	}

	if cfg.Preview.Probe.Enabled {
		probeOriginOrWarn(cfg)
	}

	installReloadSignalHandler(st)
	watchClose, err := installPublicDirWatch(cfg, st)
	if err != nil {
		return fmt.Errorf("init public dir watch: %w", err)
	}
	if watchClose != nil {
		defer func() { _ = watchClose.Close() }()
	}

	accessFormat, err := logx.ResolveAccessFormat(cfg.Logging.AccessLogFormat, cfg.Logging.AccessLogPreset)
	if err != nil {
		return fmt.Errorf("resolve access log format: %w", err)
	}
	accessFormatter, err := logx.CompileAccessFormat(accessFormat)
	if err != nil {
		return fmt.Errorf("compile access_log_format: %w", err)
	}

	accessLogger := log.New(os.Stdout, "", 0)
	accessColor := logx.ColorEnabled()
	engine := NewRouter(cfg, st, accessLogger, accessColor, requestid.DefaultHeaderKey, accessFormatter)

	srv := &http.Server{
		Addr:         cfg.Preview.Listen,
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Preview.ReadTimeoutMs) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Preview.WriteTimeoutMs) * time.Millisecond,
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.ListenAndServe() }()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	snap := st.Snapshot()
	log.Printf("nextcdn preview listening on %s (app=%q behaviors=%d)", cfg.Preview.Listen, snap.Plan.AppName, len(snap.Plan.Behaviors))

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case sig := <-stopCh:
		log.Printf("shutting down: signal=%v", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func probeOriginOrWarn(cfg *config.Config) {
	timeout := time.Duration(cfg.Preview.Probe.TimeoutMs) * time.Millisecond
	err := provision.ProbeOrigin(context.Background(), nil, cfg.Server.URL, timeout)
	if err == nil {
		return
	}
	log.Printf("%s origin probe failed (plan is still served): %v", logx.WarnBanner(), err)
}

func installReloadSignalHandler(st *state) {
	if st == nil {
		return
	}
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			if err := st.Rebuild(context.Background()); err != nil {
				log.Printf("resynthesis failed (signal): %v", err)
				continue
			}
			snap := st.Snapshot()
			log.Printf("resynthesis ok (signal): behaviors=%d", len(snap.Plan.Behaviors))
		}
	}()
}

type closerFunc func() error

func (c closerFunc) Close() error { return c() }

// writePIDFile records the server pid through a rename so readers never see a
// partial file. The returned closer removes the file on shutdown.
func writePIDFile(path string) (io.Closer, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}
	tmp := path + ".tmp"
	// #nosec G304 -- pid_file comes from trusted config/env.
	if err := os.WriteFile(tmp, fmt.Appendf(nil, "%d\n", os.Getpid()), 0o600); err != nil {
		return nil, err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return nil, err
	}
	return closerFunc(func() error { return os.Remove(path) }), nil
}
