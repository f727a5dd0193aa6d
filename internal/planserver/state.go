package planserver

import (
	"context"
	"sync"
	"time"

	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/config"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/distconfig"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/provision"
)

// state holds the plan currently served. Rebuilds happen on SIGHUP and on
// public-dir changes; a failed rebuild keeps the last good plan so the
// preview never goes dark mid-edit.
type state struct {
	mu sync.RWMutex

	cfg  *config.Config
	deps provision.Deps

	plan    distconfig.Plan
	builtAt time.Time
	lastErr error

	startedAtUnix int64
}

func newState(cfg *config.Config, deps provision.Deps) *state {
	return &state{
		cfg:           cfg,
		deps:          deps,
		startedAtUnix: time.Now().Unix(),
	}
}

// Rebuild synthesizes a fresh plan from the current config. On failure the
// previous plan stays in place and the error is recorded for /api/plan to
// surface.
func (s *state) Rebuild(ctx context.Context) error {
	plan, err := provision.BuildPlan(ctx, s.cfg, s.deps)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		return err
	}
	s.plan = plan
	s.builtAt = time.Now()
	s.lastErr = nil
	return nil
}

type planSnapshot struct {
	Plan    distconfig.Plan
	BuiltAt time.Time
	LastErr error
}

func (s *state) Snapshot() planSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return planSnapshot{
		Plan:    s.plan,
		BuiltAt: s.builtAt,
		LastErr: s.lastErr,
	}
}

func (s *state) StartedAtUnix() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startedAtUnix
}
