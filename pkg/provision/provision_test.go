package provision_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/config"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/distconfig"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/provision"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/provision/provisiontest"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "shop"
	cfg.Build.PublicDir = "./public"
	cfg.Server.URL = "https://abc123.lambda-url.us-east-1.on.aws"
	cfg.Server.Topology = config.TopologyAuto
	cfg.Server.ComputeResourceID = "arn:aws:lambda:us-east-1:123456789012:function:shop-server"
	cfg.Static.Bucket = "shop-assets"
	return cfg
}

func TestParseServerURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "https_url", raw: "https://abc.example.com/path", want: "abc.example.com"},
		{name: "bare_host", raw: "abc.example.com", want: "abc.example.com"},
		{name: "port_stripped", raw: "http://abc.example.com:8080", want: "abc.example.com"},
		{name: "uppercase_lowered", raw: "https://ABC.Example.COM", want: "abc.example.com"},
		{name: "empty", raw: "  ", wantErr: true},
		{name: "scheme_only", raw: "https://", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := provision.ParseServerURL(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildPlan_AutoInfersEdgeFunction(t *testing.T) {
	cfg := testConfig()
	lister := &provisiontest.FakeLister{Entries: []distconfig.PublicEntry{
		{Name: "favicon.ico"},
		{Name: "images", IsDirectory: true},
	}}
	signer := &provisiontest.FakeSigner{Hooks: []distconfig.EdgeHook{
		{Stage: distconfig.StageOriginRequest, FunctionID: "shop-request-signer", IncludeBody: true},
	}}

	plan, err := provision.BuildPlan(context.Background(), cfg, provision.Deps{Lister: lister, Signer: signer})
	require.NoError(t, err)

	assert.Equal(t, distconfig.TopologyEdgeFunction, plan.Topology)
	require.Len(t, signer.ResourceIDs, 1)
	assert.Equal(t, cfg.Server.ComputeResourceID, signer.ResourceIDs[0])
	assert.Equal(t, []string{"./public"}, lister.Dirs)

	patterns := make([]string, 0, len(plan.Behaviors))
	for _, b := range plan.Behaviors {
		patterns = append(patterns, b.PathPattern)
	}
	assert.Equal(t, []string{"_next/image*", "_next/static*", "favicon.ico", "images/*"}, patterns)
	require.Len(t, plan.DefaultBehavior.EdgeHooks, 1)
	assert.Equal(t, "shop-request-signer", plan.DefaultBehavior.EdgeHooks[0].FunctionID)
}

func TestBuildPlan_ExplicitTopologyWins(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Topology = "container"
	signer := &provisiontest.FakeSigner{}

	plan, err := provision.BuildPlan(context.Background(), cfg, provision.Deps{
		Lister: &provisiontest.FakeLister{},
		Signer: signer,
	})
	require.NoError(t, err)
	assert.Equal(t, distconfig.TopologyContainer, plan.Topology)
	assert.Empty(t, signer.ResourceIDs, "signer must not be consulted for non-edge topologies")
	assert.Equal(t, distconfig.OriginHTTPOnly, plan.DynamicOrigin.Protocol)
}

func TestBuildPlan_InferenceFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Server.URL = "https://origin.example.com"

	_, err := provision.BuildPlan(context.Background(), cfg, provision.Deps{
		Lister: &provisiontest.FakeLister{},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.topology")
}

func TestBuildPlan_CollaboratorErrors(t *testing.T) {
	listErr := errors.New("boom")
	_, err := provision.BuildPlan(context.Background(), testConfig(), provision.Deps{
		Lister: &provisiontest.FakeLister{Err: listErr},
		Signer: &provisiontest.FakeSigner{},
	})
	require.ErrorIs(t, err, listErr)

	signErr := errors.New("denied")
	_, err = provision.BuildPlan(context.Background(), testConfig(), provision.Deps{
		Lister: &provisiontest.FakeLister{},
		Signer: &provisiontest.FakeSigner{Err: signErr},
	})
	require.ErrorIs(t, err, signErr)
	assert.Contains(t, err.Error(), "request signer")
}

func TestBuildPlan_SurfacesSynthesisErrors(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Topology = "server-function"
	lister := &provisiontest.FakeLister{Entries: []distconfig.PublicEntry{{Name: "bad name!.png"}}}

	_, err := provision.BuildPlan(context.Background(), cfg, provision.Deps{Lister: lister})
	var ipe *distconfig.InvalidPatternError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, "bad name!.png", ipe.Pattern)
}

func TestApply_CallOrder(t *testing.T) {
	cfg := testConfig()
	cfg.Domains.Aliases = []string{"www.example.com"}
	plan, err := provision.BuildPlan(context.Background(), cfg, provision.Deps{
		Lister: &provisiontest.FakeLister{Entries: []distconfig.PublicEntry{{Name: "robots.txt"}}},
		Signer: &provisiontest.FakeSigner{Hooks: []distconfig.EdgeHook{{Stage: distconfig.StageOriginRequest, FunctionID: "sig"}}},
	})
	require.NoError(t, err)

	dist := &provisiontest.FakeDistribution{}
	store := &provisiontest.FakeObjectStore{}
	require.NoError(t, provision.Apply(context.Background(), dist, store, plan))

	require.Len(t, store.Origins, 1)
	assert.Equal(t, "shop-static-origin", store.Origins[0].ID)

	want := []string{
		"EnsureFunction:shop-host-rewrite",
		"AddBehavior:_next/image*",
		"AddBehavior:_next/static*",
		"AddBehavior:robots.txt",
		"SetDefaultBehavior:*",
		"SetAliases:www.example.com",
	}
	assert.Equal(t, want, dist.Calls)
	require.NotNil(t, dist.Default)
	assert.Equal(t, distconfig.OriginDynamic, dist.Default.OriginKind)
}

func TestApply_AbortsOnFirstFailure(t *testing.T) {
	plan, err := provision.BuildPlan(context.Background(), testConfig(), provision.Deps{
		Lister: &provisiontest.FakeLister{},
		Signer: &provisiontest.FakeSigner{},
	})
	require.NoError(t, err)

	failErr := errors.New("throttled")
	dist := &provisiontest.FakeDistribution{FailOn: map[string]error{"AddBehavior": failErr}}
	err = provision.Apply(context.Background(), dist, nil, plan)
	require.ErrorIs(t, err, failErr)
	assert.Contains(t, err.Error(), "_next/image*")
	assert.Nil(t, dist.Default, "default behavior must not be applied after a failure")
}

func TestProbeOrigin(t *testing.T) {
	t.Run("healthy origin", func(t *testing.T) {
		doer := provisiontest.NewFakeDoer(t, provisiontest.NewStringResponse(200, ""))
		err := provision.ProbeOrigin(context.Background(), doer, "abc.example.com", 0)
		require.NoError(t, err)
		reqs := doer.Requests()
		require.Len(t, reqs, 1)
		assert.Equal(t, http.MethodHead, reqs[0].Method)
		assert.Equal(t, "https://abc.example.com", reqs[0].URL.String())
	})

	t.Run("server error surfaces", func(t *testing.T) {
		doer := provisiontest.NewFakeDoer(t, provisiontest.NewStringResponse(503, ""))
		err := provision.ProbeOrigin(context.Background(), doer, "https://abc.example.com", 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("empty url", func(t *testing.T) {
		err := provision.ProbeOrigin(context.Background(), provisiontest.NewFakeDoer(t), " ", 0)
		require.Error(t, err)
	})
}
