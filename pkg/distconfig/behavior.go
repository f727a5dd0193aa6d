package distconfig

import "strings"

// Fixed path slots of the framework's build output.
const (
	imagePathPattern  = "_next/image*"
	staticPathPattern = "_next/static*"
)

// EventViewerRequest is the stage at which lightweight CDN functions run.
const EventViewerRequest = "viewer-request"

// StageOriginRequest is the stage at which heavier edge hooks run.
const StageOriginRequest = "origin-request"

// FunctionAssociation attaches a lightweight CDN function to a behavior.
type FunctionAssociation struct {
	EventType    string `json:"event_type" yaml:"event_type"`
	FunctionName string `json:"function_name" yaml:"function_name"`
}

// EdgeHook attaches an edge compute hook to a behavior. The request-signing
// provider issues one per signing stage for the edge-function topology.
type EdgeHook struct {
	Stage       string `json:"stage" yaml:"stage"`
	FunctionID  string `json:"function_id" yaml:"function_id"`
	IncludeBody bool   `json:"include_body" yaml:"include_body"`
}

// FunctionDef is the definition of a lightweight CDN function carried on the
// plan so the distribution provider can materialize it.
type FunctionDef struct {
	Name      string `json:"name" yaml:"name"`
	EventType string `json:"event_type" yaml:"event_type"`
	Code      string `json:"code" yaml:"code"`
}

// RouteEntry is one routing rule of the distribution: a path pattern mapped
// to an origin with its full policy set. Immutable once synthesized; its
// identity is the path pattern.
type RouteEntry struct {
	PathPattern    string         `json:"path_pattern" yaml:"path_pattern"`
	OriginKind     OriginKind     `json:"origin_kind" yaml:"origin_kind"`
	ViewerProtocol ViewerProtocol `json:"viewer_protocol" yaml:"viewer_protocol"`
	Compress       bool           `json:"compress" yaml:"compress"`

	CachePolicy         CachePolicy          `json:"cache_policy" yaml:"cache_policy"`
	HeaderPolicy        HeaderPolicy         `json:"header_policy" yaml:"header_policy"`
	OriginRequestPolicy *OriginRequestPolicy `json:"origin_request_policy,omitempty" yaml:"origin_request_policy,omitempty"`

	FunctionAssociations []FunctionAssociation `json:"function_associations,omitempty" yaml:"function_associations,omitempty"`
	EdgeHooks            []EdgeHook            `json:"edge_hooks,omitempty" yaml:"edge_hooks,omitempty"`
}

// BehaviorProps carries partial behavior options merged onto a template.
type BehaviorProps struct {
	ViewerProtocol ViewerProtocol `json:"viewer_protocol,omitempty" yaml:"viewer_protocol,omitempty"`
	Compress       *bool          `json:"compress,omitempty" yaml:"compress,omitempty"`
}

// BehaviorSet holds the three fully resolved behavior templates before path
// expansion.
type BehaviorSet struct {
	Static  RouteEntry `json:"static" yaml:"static"`
	Dynamic RouteEntry `json:"dynamic" yaml:"dynamic"`
	Image   RouteEntry `json:"image" yaml:"image"`
}

// withPattern returns a copy of the template bound to a concrete pattern.
// Slices are duplicated so expanded entries never alias template state.
func (e RouteEntry) withPattern(pattern string) RouteEntry {
	out := e
	out.PathPattern = pattern
	if e.FunctionAssociations != nil {
		out.FunctionAssociations = append([]FunctionAssociation(nil), e.FunctionAssociations...)
	}
	if e.EdgeHooks != nil {
		out.EdgeHooks = append([]EdgeHook(nil), e.EdgeHooks...)
	}
	if e.OriginRequestPolicy != nil {
		orp := *e.OriginRequestPolicy
		out.OriginRequestPolicy = &orp
	}
	return out
}

func mergeBehaviorOptions(base RouteEntry, props BehaviorProps) RouteEntry {
	out := base
	if strings.TrimSpace(string(props.ViewerProtocol)) != "" {
		out.ViewerProtocol = props.ViewerProtocol
	}
	if props.Compress != nil {
		out.Compress = *props.Compress
	}
	return out
}

// HostRewriteFunctionName returns the name of the viewer-request function
// that restores the public Host for the edge-function topology.
func HostRewriteFunctionName(app string) string {
	return app + "-host-rewrite"
}

// hostRewriteFunctionCode copies the viewer Host into the forwarded-host
// marker before the CDN suppresses it, so the compute layer can still build
// absolute URLs for the public-facing domain.
const hostRewriteFunctionCode = `function handler(event) {
  var request = event.request;
  request.headers["x-forwarded-host"] = { value: request.headers.host.value };
  return request;
}
`
