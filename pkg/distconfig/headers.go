package distconfig

import "strings"

// HeaderDirective is one response header the CDN injects. Override reports
// whether it replaces a value already set by the origin; the security
// defaults all keep it false so origin-set headers win.
type HeaderDirective struct {
	Value    string `json:"value" yaml:"value"`
	Override bool   `json:"override" yaml:"override"`
}

// HSTSDirective is the Strict-Transport-Security header.
type HSTSDirective struct {
	MaxAgeSeconds     int64 `json:"max_age_seconds" yaml:"max_age_seconds"`
	IncludeSubdomains bool  `json:"include_subdomains" yaml:"include_subdomains"`
	Preload           bool  `json:"preload" yaml:"preload"`
	Override          bool  `json:"override" yaml:"override"`
}

// SecurityHeaders is the hardening header set shared by all three behaviors.
type SecurityHeaders struct {
	ContentTypeOptions      HeaderDirective `json:"content_type_options" yaml:"content_type_options"`
	FrameOptions            HeaderDirective `json:"frame_options" yaml:"frame_options"`
	ReferrerPolicy          HeaderDirective `json:"referrer_policy" yaml:"referrer_policy"`
	StrictTransportSecurity HSTSDirective   `json:"strict_transport_security" yaml:"strict_transport_security"`
	XSSProtection           HeaderDirective `json:"xss_protection" yaml:"xss_protection"`
}

// CustomHeader is an arbitrary additional response header.
type CustomHeader struct {
	Header   string `json:"header" yaml:"header"`
	Value    string `json:"value" yaml:"value"`
	Override bool   `json:"override" yaml:"override"`
}

// HeaderPolicy is the response-header policy attached to a behavior.
type HeaderPolicy struct {
	Name     string          `json:"name" yaml:"name"`
	Comment  string          `json:"comment,omitempty" yaml:"comment,omitempty"`
	Security SecurityHeaders `json:"security" yaml:"security"`
	Custom   []CustomHeader  `json:"custom,omitempty" yaml:"custom,omitempty"`
}

// HeaderOverride customizes one behavior's response-header policy. Replace
// supersedes the computed default entirely; otherwise Props fields are merged
// on shallowly, a non-nil Security block replacing the whole default block.
type HeaderOverride struct {
	Replace *HeaderPolicy `json:"replace,omitempty" yaml:"replace,omitempty"`
	Props   HeaderProps   `json:"props,omitempty" yaml:"props,omitempty"`
}

// HeaderProps carries partial response-header policy fields.
type HeaderProps struct {
	Name     string           `json:"name,omitempty" yaml:"name,omitempty"`
	Comment  string           `json:"comment,omitempty" yaml:"comment,omitempty"`
	Security *SecurityHeaders `json:"security,omitempty" yaml:"security,omitempty"`
	Custom   []CustomHeader   `json:"custom,omitempty" yaml:"custom,omitempty"`
}

// ResolveHeaderPolicy returns the response-header policy for one behavior: a
// full replacement verbatim when supplied, otherwise the shared security
// default with the partial props merged on top.
func ResolveHeaderPolicy(app string, ov HeaderOverride) HeaderPolicy {
	return resolveHeaderPolicy(defaultHeaderPolicy(app), ov)
}

// resolveHeaderPolicy resolves against an already-built default so one shared
// security set can serve all three behaviors within a synthesis run.
func resolveHeaderPolicy(shared HeaderPolicy, ov HeaderOverride) HeaderPolicy {
	if ov.Replace != nil {
		return *ov.Replace
	}
	return mergeHeaderPolicy(shared, ov.Props)
}

// defaultHeaderPolicy builds the shared hardening set: sniffing protection,
// same-origin framing, strict referrer trimming, one-year HSTS with
// subdomains and preload, and the legacy XSS filter header. Nothing
// overrides a header the origin already set.
func defaultHeaderPolicy(app string) HeaderPolicy {
	return HeaderPolicy{
		Name:    app + "-security-headers",
		Comment: "security response headers for " + app,
		Security: SecurityHeaders{
			ContentTypeOptions: HeaderDirective{Value: "nosniff"},
			FrameOptions:       HeaderDirective{Value: "SAMEORIGIN"},
			ReferrerPolicy:     HeaderDirective{Value: "strict-origin-when-cross-origin"},
			StrictTransportSecurity: HSTSDirective{
				MaxAgeSeconds:     yearSeconds,
				IncludeSubdomains: true,
				Preload:           true,
			},
			XSSProtection: HeaderDirective{Value: "1; mode=block"},
		},
	}
}

func mergeHeaderPolicy(base HeaderPolicy, props HeaderProps) HeaderPolicy {
	out := base
	if strings.TrimSpace(props.Name) != "" {
		out.Name = props.Name
	}
	if strings.TrimSpace(props.Comment) != "" {
		out.Comment = props.Comment
	}
	if props.Security != nil {
		out.Security = *props.Security
	}
	if props.Custom != nil {
		out.Custom = append([]CustomHeader(nil), props.Custom...)
	}
	return out
}
