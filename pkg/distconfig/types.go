package distconfig

import (
	"fmt"
	"strings"
)

// ComputeTopology identifies the compute style serving dynamic requests.
type ComputeTopology string

const (
	// TopologyEdgeFunction is a short-lived function invoked through a
	// managed function URL at the edge.
	TopologyEdgeFunction ComputeTopology = "edge-function"
	// TopologyServerFunction is a function invoked via its own network
	// endpoint.
	TopologyServerFunction ComputeTopology = "server-function"
	// TopologyContainer is a long-running containerized service behind a
	// load balancer.
	TopologyContainer ComputeTopology = "container"
)

// ParseTopology normalizes and validates a topology string.
func ParseTopology(s string) (ComputeTopology, error) {
	switch v := ComputeTopology(strings.ToLower(strings.TrimSpace(s))); v {
	case TopologyEdgeFunction, TopologyServerFunction, TopologyContainer:
		return v, nil
	default:
		return "", fmt.Errorf("unknown compute topology %q (expected %q, %q or %q)",
			s, TopologyEdgeFunction, TopologyServerFunction, TopologyContainer)
	}
}

// IsFunction reports whether the topology is served by a managed function
// endpoint. Function endpoints only accept encrypted transport.
func (t ComputeTopology) IsFunction() bool {
	return t == TopologyEdgeFunction || t == TopologyServerFunction
}

// OriginKind distinguishes the two origins every configuration has.
type OriginKind string

const (
	OriginStatic  OriginKind = "static"
	OriginDynamic OriginKind = "dynamic"
)

// BehaviorKind names one of the three behavior templates.
type BehaviorKind string

const (
	BehaviorStatic  BehaviorKind = "static"
	BehaviorDynamic BehaviorKind = "dynamic"
	BehaviorImage   BehaviorKind = "image"
)

// KeyBehavior controls whether a request dimension (query strings, cookies)
// participates in the cache key.
type KeyBehavior string

const (
	KeyNone KeyBehavior = "none"
	KeyAll  KeyBehavior = "all"
)

// MethodSet is the HTTP method group a behavior accepts.
type MethodSet string

const (
	// MethodsReadOnly allows GET, HEAD and OPTIONS.
	MethodsReadOnly MethodSet = "get-head-options"
	// MethodsAll additionally allows the mutating verbs.
	MethodsAll MethodSet = "all"
)

// ViewerProtocol is the client-facing protocol requirement of a behavior.
type ViewerProtocol string

const (
	ViewerRedirectToHTTPS ViewerProtocol = "redirect-to-https"
	ViewerHTTPSOnly       ViewerProtocol = "https-only"
	ViewerAllowAll        ViewerProtocol = "allow-all"
)

// OriginProtocol is the CDN-to-origin transport for the dynamic origin.
type OriginProtocol string

const (
	OriginHTTPSOnly OriginProtocol = "https-only"
	OriginHTTPOnly  OriginProtocol = "http-only"
)

// PublicEntry is one top-level child of the application's public directory.
// Supplied externally; the synthesizer preserves input order and never
// re-sorts entries.
type PublicEntry struct {
	Name        string `json:"name" yaml:"name"`
	IsDirectory bool   `json:"is_directory" yaml:"is_directory"`
}

const (
	defaultMaxRoutes      = 25
	defaultReservedRoutes = 3
)

// Limits describes the platform's route-count ceiling. The reserved slots
// cover the image rule, the static-assets rule and the default catch-all.
type Limits struct {
	MaxRoutes      int `json:"max_routes" yaml:"max_routes"`
	ReservedRoutes int `json:"reserved_routes" yaml:"reserved_routes"`
}

// DefaultLimits returns the reference platform ceiling of 25 routes with 3
// reserved slots.
func DefaultLimits() Limits {
	return Limits{MaxRoutes: defaultMaxRoutes, ReservedRoutes: defaultReservedRoutes}
}

// MaxPublicRoutes is the number of routes that may be drawn from the public
// directory listing.
func (l Limits) MaxPublicRoutes() int {
	return l.MaxRoutes - l.ReservedRoutes
}

func (l Limits) withDefaults() Limits {
	out := l
	if out.MaxRoutes <= 0 {
		out.MaxRoutes = defaultMaxRoutes
	}
	if out.ReservedRoutes <= 0 {
		out.ReservedRoutes = defaultReservedRoutes
	}
	return out
}
