// Package provisiontest provides fake collaborators so plan assembly and
// application can be tested without touching any cloud provider.
package provisiontest

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/distconfig"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/provision"
)

// FakeDistribution records every provisioning call in order.
type FakeDistribution struct {
	Calls     []string
	Functions []distconfig.FunctionDef
	Behaviors []distconfig.RouteEntry
	Default   *distconfig.RouteEntry
	Aliases   []string

	// FailOn makes the named method return the given error.
	FailOn map[string]error
}

func (f *FakeDistribution) EnsureFunction(_ context.Context, fn distconfig.FunctionDef) error {
	f.Calls = append(f.Calls, "EnsureFunction:"+fn.Name)
	if err := f.FailOn["EnsureFunction"]; err != nil {
		return err
	}
	f.Functions = append(f.Functions, fn)
	return nil
}

func (f *FakeDistribution) AddBehavior(_ context.Context, entry distconfig.RouteEntry) error {
	f.Calls = append(f.Calls, "AddBehavior:"+entry.PathPattern)
	if err := f.FailOn["AddBehavior"]; err != nil {
		return err
	}
	f.Behaviors = append(f.Behaviors, entry)
	return nil
}

func (f *FakeDistribution) SetDefaultBehavior(_ context.Context, entry distconfig.RouteEntry) error {
	f.Calls = append(f.Calls, "SetDefaultBehavior:"+entry.PathPattern)
	if err := f.FailOn["SetDefaultBehavior"]; err != nil {
		return err
	}
	f.Default = &entry
	return nil
}

func (f *FakeDistribution) SetAliases(_ context.Context, aliases []string) error {
	f.Calls = append(f.Calls, "SetAliases:"+strings.Join(aliases, ","))
	if err := f.FailOn["SetAliases"]; err != nil {
		return err
	}
	f.Aliases = append([]string(nil), aliases...)
	return nil
}

// FakeObjectStore records the origins it was asked to provision access for.
type FakeObjectStore struct {
	Origins []distconfig.StaticOrigin
	Err     error
}

func (f *FakeObjectStore) EnsureOrigin(_ context.Context, origin distconfig.StaticOrigin) error {
	if f.Err != nil {
		return f.Err
	}
	f.Origins = append(f.Origins, origin)
	return nil
}

// FakeSigner returns queued hooks and records the resource ids it signed for.
type FakeSigner struct {
	Hooks       []distconfig.EdgeHook
	Err         error
	ResourceIDs []string
}

func (f *FakeSigner) SigningHooks(_ context.Context, resourceID string) ([]distconfig.EdgeHook, error) {
	f.ResourceIDs = append(f.ResourceIDs, resourceID)
	if f.Err != nil {
		return nil, f.Err
	}
	return append([]distconfig.EdgeHook(nil), f.Hooks...), nil
}

// FakeLister serves a fixed entry list regardless of the directory asked for.
type FakeLister struct {
	Entries []distconfig.PublicEntry
	Err     error
	Dirs    []string
}

func (f *FakeLister) List(dir string) ([]distconfig.PublicEntry, error) {
	f.Dirs = append(f.Dirs, dir)
	if f.Err != nil {
		return nil, f.Err
	}
	return append([]distconfig.PublicEntry(nil), f.Entries...), nil
}

// FakeDoer implements provision.HTTPDoer so probes can run offline. Queued
// responses are served in order; running dry fails the test.
type FakeDoer struct {
	tb    testing.TB
	queue []*http.Response
	seen  []*http.Request
}

func NewFakeDoer(tb testing.TB, responses ...*http.Response) *FakeDoer {
	return &FakeDoer{tb: tb, queue: responses}
}

func (f *FakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.seen = append(f.seen, req)
	if len(f.queue) == 0 {
		f.tb.Fatalf("no queued response for %s %s", req.Method, req.URL)
	}
	next := f.queue[0]
	f.queue = f.queue[1:]
	return next, nil
}

// Requests returns the requests captured so far.
func (f *FakeDoer) Requests() []*http.Request {
	return append([]*http.Request(nil), f.seen...)
}

// NewStringResponse builds a response with the given status and body.
func NewStringResponse(status int, body string) *http.Response {
	resp := &http.Response{StatusCode: status, Header: http.Header{}}
	resp.Body = io.NopCloser(strings.NewReader(body))
	return resp
}

var (
	_ provision.Distribution      = (*FakeDistribution)(nil)
	_ provision.ObjectStore       = (*FakeObjectStore)(nil)
	_ provision.RequestSigner     = (*FakeSigner)(nil)
	_ provision.BuildOutputLister = (*FakeLister)(nil)
	_ provision.HTTPDoer          = (*FakeDoer)(nil)
)
