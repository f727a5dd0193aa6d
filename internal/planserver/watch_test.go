package planserver

import (
	"context"
	"errors"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/distconfig"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/provision"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/provision/provisiontest"
)

func TestRouteAffecting(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		assert.False(t, routeAffecting(fsnotify.Event{Name: "", Op: fsnotify.Write}))
	})

	t.Run("unsupported op", func(t *testing.T) {
		assert.False(t, routeAffecting(fsnotify.Event{Name: "/public/robots.txt", Op: 0}))
	})

	t.Run("chmod ignored", func(t *testing.T) {
		assert.False(t, routeAffecting(fsnotify.Event{Name: "/public/robots.txt", Op: fsnotify.Chmod}))
	})

	t.Run("dot file ignored", func(t *testing.T) {
		assert.False(t, routeAffecting(fsnotify.Event{Name: "/public/.DS_Store", Op: fsnotify.Write}))
	})

	t.Run("create triggers", func(t *testing.T) {
		assert.True(t, routeAffecting(fsnotify.Event{Name: "/public/robots.txt", Op: fsnotify.Create}))
	})

	t.Run("remove triggers", func(t *testing.T) {
		assert.True(t, routeAffecting(fsnotify.Event{Name: "/public/robots.txt", Op: fsnotify.Remove}))
	})
}

func TestStateRebuild(t *testing.T) {
	cfg := testServerConfig("")
	lister := &provisiontest.FakeLister{Entries: []distconfig.PublicEntry{{Name: "robots.txt"}}}
	st := newState(cfg, provision.Deps{Lister: lister})

	require.NoError(t, st.Rebuild(context.Background()))
	first := st.Snapshot()
	assert.False(t, first.BuiltAt.IsZero())
	assert.NoError(t, first.LastErr)
	assert.Len(t, first.Plan.Behaviors, 3)

	lister.Err = errors.New("boom")
	require.Error(t, st.Rebuild(context.Background()))
	failed := st.Snapshot()
	assert.Error(t, failed.LastErr)
	assert.Len(t, failed.Plan.Behaviors, 3, "failed rebuild keeps the previous plan")
	assert.Equal(t, first.BuiltAt, failed.BuiltAt)

	lister.Err = nil
	lister.Entries = append(lister.Entries, distconfig.PublicEntry{Name: "sitemap.xml"})
	require.NoError(t, st.Rebuild(context.Background()))
	recovered := st.Snapshot()
	assert.NoError(t, recovered.LastErr)
	assert.Len(t, recovered.Plan.Behaviors, 4)
}

func TestWatchDisabledInstallsNothing(t *testing.T) {
	cfg := testServerConfig("")
	cfg.Preview.Watch.Enabled = false
	st := newState(cfg, provision.Deps{Lister: &provisiontest.FakeLister{}})

	closer, err := installPublicDirWatch(cfg, st)
	require.NoError(t, err)
	assert.Nil(t, closer)
}
