// Package provision connects the synthesis engine to the outside world: the
// build-output lister, the request signer, the compute-URL parser and the
// distribution provider. The engine itself performs no I/O; everything
// environment-shaped enters through the interfaces here.
package provision

import (
	"context"
	"fmt"
	"strings"

	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/config"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/distconfig"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/publicdir"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/topologyinfer"
)

// Distribution materializes an ordered behavior list. AddBehavior is called
// once per synthesized entry, in synthesis order; the default behavior is
// applied last.
type Distribution interface {
	EnsureFunction(ctx context.Context, fn distconfig.FunctionDef) error
	AddBehavior(ctx context.Context, entry distconfig.RouteEntry) error
	SetDefaultBehavior(ctx context.Context, entry distconfig.RouteEntry) error
	SetAliases(ctx context.Context, aliases []string) error
}

// ObjectStore provisions signed access from the distribution to the static
// origin bucket. No write access is ever needed here.
type ObjectStore interface {
	EnsureOrigin(ctx context.Context, origin distconfig.StaticOrigin) error
}

// RequestSigner issues the origin-request signing hooks for the edge-function
// topology, given the resource to grant invoke permission on.
type RequestSigner interface {
	SigningHooks(ctx context.Context, resourceID string) ([]distconfig.EdgeHook, error)
}

// BuildOutputLister supplies the public-directory entries. The sequence is
// treated as already validated and its order is preserved.
type BuildOutputLister interface {
	List(dir string) ([]distconfig.PublicEntry, error)
}

// DirLister lists a local public directory.
type DirLister struct{}

func (DirLister) List(dir string) ([]distconfig.PublicEntry, error) {
	return publicdir.List(dir)
}

// FunctionSigner issues one origin-request hook referencing a named signing
// function. The body is included so mutating requests stay signable.
type FunctionSigner struct {
	Name string
}

func (s FunctionSigner) SigningHooks(_ context.Context, resourceID string) ([]distconfig.EdgeHook, error) {
	if strings.TrimSpace(resourceID) == "" {
		return nil, fmt.Errorf("signing hooks require a compute resource id")
	}
	return []distconfig.EdgeHook{{
		Stage:       distconfig.StageOriginRequest,
		FunctionID:  s.Name,
		IncludeBody: true,
	}}, nil
}

// Deps are the collaborators BuildPlan draws on. Nil fields fall back to the
// local defaults (directory lister, named function signer).
type Deps struct {
	Lister BuildOutputLister
	Signer RequestSigner
}

// BuildPlan assembles engine inputs from the deployment config and runs the
// synthesis: parse the server URL, settle the topology, list the public
// directory, collect signing hooks, synthesize.
func BuildPlan(ctx context.Context, cfg *config.Config, deps Deps) (distconfig.Plan, error) {
	if cfg == nil {
		return distconfig.Plan{}, fmt.Errorf("config is nil")
	}
	lister := deps.Lister
	if lister == nil {
		lister = DirLister{}
	}
	signer := deps.Signer
	if signer == nil {
		signer = FunctionSigner{Name: cfg.SigningFunctionName()}
	}

	domain, err := ParseServerURL(cfg.Server.URL)
	if err != nil {
		return distconfig.Plan{}, err
	}

	topology, err := settleTopology(cfg.Server.Topology, domain)
	if err != nil {
		return distconfig.Plan{}, err
	}

	entries, err := lister.List(cfg.Build.PublicDir)
	if err != nil {
		return distconfig.Plan{}, err
	}

	var hooks []distconfig.EdgeHook
	if topology == distconfig.TopologyEdgeFunction {
		hooks, err = signer.SigningHooks(ctx, cfg.Server.ComputeResourceID)
		if err != nil {
			return distconfig.Plan{}, fmt.Errorf("request signer: %w", err)
		}
	}

	return distconfig.Synthesize(distconfig.Inputs{
		AppName:           cfg.App.Name,
		BasePath:          cfg.App.BasePath,
		Topology:          topology,
		ServerDomain:      domain,
		StaticBucket:      cfg.Static.Bucket,
		HasCertificate:    cfg.Server.Certificate,
		ComputeResourceID: cfg.Server.ComputeResourceID,
		PublicEntries:     entries,
		SigningHooks:      hooks,
		Aliases:           cfg.Domains.Aliases,
		Limits:            cfg.Limits,
		Overrides:         cfg.Overrides,
	})
}

func settleTopology(configured, domain string) (distconfig.ComputeTopology, error) {
	v := strings.ToLower(strings.TrimSpace(configured))
	if v != "" && v != config.TopologyAuto {
		return distconfig.ParseTopology(v)
	}
	if inferred, ok := topologyinfer.Infer(domain); ok {
		return inferred, nil
	}
	return "", fmt.Errorf("cannot infer compute topology from host %q: set server.topology explicitly", domain)
}

// Apply pushes a synthesized plan to the distribution provider: static origin
// access first, then function definitions, then every behavior in synthesis
// order, the default behavior last, aliases at the end. The first failure
// aborts the application.
func Apply(ctx context.Context, dist Distribution, store ObjectStore, plan distconfig.Plan) error {
	if dist == nil {
		return fmt.Errorf("distribution provider is nil")
	}
	if store != nil {
		if err := store.EnsureOrigin(ctx, plan.StaticOrigin); err != nil {
			return fmt.Errorf("ensure static origin %q: %w", plan.StaticOrigin.ID, err)
		}
	}
	for _, fn := range plan.Functions {
		if err := dist.EnsureFunction(ctx, fn); err != nil {
			return fmt.Errorf("ensure function %q: %w", fn.Name, err)
		}
	}
	for _, entry := range plan.Behaviors {
		if err := dist.AddBehavior(ctx, entry); err != nil {
			return fmt.Errorf("add behavior %q: %w", entry.PathPattern, err)
		}
	}
	if err := dist.SetDefaultBehavior(ctx, plan.DefaultBehavior); err != nil {
		return fmt.Errorf("set default behavior: %w", err)
	}
	if len(plan.Aliases) > 0 {
		if err := dist.SetAliases(ctx, plan.Aliases); err != nil {
			return fmt.Errorf("set aliases: %w", err)
		}
	}
	return nil
}
