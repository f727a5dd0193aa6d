package distconfig

import "strings"

// OriginRequestHeaders controls which viewer headers reach the dynamic
// origin.
type OriginRequestHeaders string

const (
	// ForwardAllViewer forwards every viewer header, Host included.
	ForwardAllViewer OriginRequestHeaders = "all-viewer"
	// ForwardAllViewerExceptHost suppresses Host. Function endpoints
	// validate Host against their own domain and reject the CDN's value.
	ForwardAllViewerExceptHost OriginRequestHeaders = "all-viewer-except-host"
)

// OriginRequestPolicy decides which viewer request data is forwarded to the
// dynamic origin. It is attached to the dynamic and image behaviors; the
// static origin never receives one.
type OriginRequestPolicy struct {
	Name         string               `json:"name" yaml:"name"`
	Comment      string               `json:"comment,omitempty" yaml:"comment,omitempty"`
	Headers      OriginRequestHeaders `json:"headers" yaml:"headers"`
	QueryStrings KeyBehavior          `json:"query_strings" yaml:"query_strings"`
	Cookies      KeyBehavior          `json:"cookies" yaml:"cookies"`
}

// OriginRequestOverride customizes the forwarding policy.
type OriginRequestOverride struct {
	Replace *OriginRequestPolicy `json:"replace,omitempty" yaml:"replace,omitempty"`
	Props   OriginRequestProps   `json:"props,omitempty" yaml:"props,omitempty"`
}

// OriginRequestProps carries partial forwarding-policy fields.
type OriginRequestProps struct {
	Name         string               `json:"name,omitempty" yaml:"name,omitempty"`
	Comment      string               `json:"comment,omitempty" yaml:"comment,omitempty"`
	Headers      OriginRequestHeaders `json:"headers,omitempty" yaml:"headers,omitempty"`
	QueryStrings KeyBehavior          `json:"query_strings,omitempty" yaml:"query_strings,omitempty"`
	Cookies      KeyBehavior          `json:"cookies,omitempty" yaml:"cookies,omitempty"`
}

// ResolveOriginRequestPolicy returns the forwarding policy for the dynamic
// origin. The default forwards all viewer data, excluding Host only for the
// edge-function topology.
func ResolveOriginRequestPolicy(app string, topology ComputeTopology, ov OriginRequestOverride) OriginRequestPolicy {
	if ov.Replace != nil {
		return *ov.Replace
	}
	return mergeOriginRequestPolicy(defaultOriginRequestPolicy(app, topology), ov.Props)
}

func defaultOriginRequestPolicy(app string, topology ComputeTopology) OriginRequestPolicy {
	headers := ForwardAllViewer
	if topology == TopologyEdgeFunction {
		headers = ForwardAllViewerExceptHost
	}
	return OriginRequestPolicy{
		Name:         app + "-origin-request",
		Comment:      "viewer data forwarded to the " + app + " server origin",
		Headers:      headers,
		QueryStrings: KeyAll,
		Cookies:      KeyAll,
	}
}

func mergeOriginRequestPolicy(base OriginRequestPolicy, props OriginRequestProps) OriginRequestPolicy {
	out := base
	if strings.TrimSpace(props.Name) != "" {
		out.Name = props.Name
	}
	if strings.TrimSpace(props.Comment) != "" {
		out.Comment = props.Comment
	}
	if strings.TrimSpace(string(props.Headers)) != "" {
		out.Headers = props.Headers
	}
	if strings.TrimSpace(string(props.QueryStrings)) != "" {
		out.QueryStrings = props.QueryStrings
	}
	if strings.TrimSpace(string(props.Cookies)) != "" {
		out.Cookies = props.Cookies
	}
	return out
}
