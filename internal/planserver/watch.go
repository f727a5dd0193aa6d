package planserver

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/config"
)

// publicDirWatch re-synthesizes the plan when the public directory changes.
// Only the top level is watched: routing rules come from top-level children
// alone, so edits deeper in the tree never change the plan.
type publicDirWatch struct {
	fsw      *fsnotify.Watcher
	st       *state
	dir      string
	debounce time.Duration

	stop chan struct{}
	done chan struct{}
}

func installPublicDirWatch(cfg *config.Config, st *state) (io.Closer, error) {
	if cfg == nil || st == nil || !cfg.Preview.Watch.Enabled {
		return nil, nil
	}
	dir := strings.TrimSpace(cfg.Build.PublicDir)
	if dir == "" {
		return nil, nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &publicDirWatch{
		fsw:      fsw,
		st:       st,
		dir:      dir,
		debounce: time.Duration(cfg.Preview.Watch.DebounceMs) * time.Millisecond,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()

	log.Printf("public dir watch enabled: dir=%q debounce_ms=%d", dir, cfg.Preview.Watch.DebounceMs)
	return w, nil
}

// run coalesces event bursts into one rebuild per quiet period.
func (w *publicDirWatch) run() {
	defer close(w.done)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	arm := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
		} else {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
		}
		fire = timer.C
	}

	for {
		select {
		case <-w.stop:
			if timer != nil {
				timer.Stop()
			}
			return
		case evt, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if routeAffecting(evt) {
				arm()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("public dir watcher error: %v", err)
		case <-fire:
			fire = nil
			w.rebuild()
		}
	}
}

func (w *publicDirWatch) rebuild() {
	if err := w.st.Rebuild(context.Background()); err != nil {
		log.Printf("resynthesis failed (watch): %v", err)
		return
	}
	snap := w.st.Snapshot()
	log.Printf("resynthesis ok (watch): public_dir=%q behaviors=%d", w.dir, len(snap.Plan.Behaviors))
}

func (w *publicDirWatch) Close() error {
	close(w.stop)
	_ = w.fsw.Close()
	<-w.done
	return nil
}

// routeAffecting reports whether an event can change the route listing.
// Permission-only changes and dotfiles cannot.
func routeAffecting(evt fsnotify.Event) bool {
	if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return !strings.HasPrefix(filepath.Base(evt.Name), ".")
}
