package distconfig

import "strings"

// One-year upper bound used by the static profile; the image profile reuses
// it as its maximum retention.
const yearSeconds = 365 * 24 * 60 * 60

// CachePolicy decides which request parts form the cache key, how long
// responses are retained, and which HTTP methods the behavior accepts.
type CachePolicy struct {
	Name    string `json:"name" yaml:"name"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`

	MinTTLSeconds     int64 `json:"min_ttl_seconds" yaml:"min_ttl_seconds"`
	DefaultTTLSeconds int64 `json:"default_ttl_seconds" yaml:"default_ttl_seconds"`
	MaxTTLSeconds     int64 `json:"max_ttl_seconds" yaml:"max_ttl_seconds"`

	QueryStrings    KeyBehavior `json:"query_strings" yaml:"query_strings"`
	HeaderAllowlist []string    `json:"header_allowlist,omitempty" yaml:"header_allowlist,omitempty"`
	Cookies         KeyBehavior `json:"cookies" yaml:"cookies"`

	EncodingGzip   bool `json:"encoding_gzip" yaml:"encoding_gzip"`
	EncodingBrotli bool `json:"encoding_brotli" yaml:"encoding_brotli"`

	AllowedMethods MethodSet `json:"allowed_methods" yaml:"allowed_methods"`
}

// dynamicHeaderAllowlist is the request-header set the framework router needs
// to compute a response variant.
var dynamicHeaderAllowlist = []string{
	"accept",
	"rsc",
	"next-router-prefetch",
	"next-router-state-tree",
	"next-url",
	"x-prerender-revalidate",
}

// CacheOverride customizes one behavior's cache policy. Replace supersedes
// the computed default entirely (the default is then never constructed);
// otherwise Props fields are merged onto the default, override values winning
// field-by-field.
type CacheOverride struct {
	Replace *CachePolicy `json:"replace,omitempty" yaml:"replace,omitempty"`
	Props   CacheProps   `json:"props,omitempty" yaml:"props,omitempty"`
}

// CacheProps carries partial cache-policy fields. Zero-valued fields keep the
// default; a non-nil HeaderAllowlist replaces the default list even when
// empty.
type CacheProps struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`

	MinTTLSeconds     *int64 `json:"min_ttl_seconds,omitempty" yaml:"min_ttl_seconds,omitempty"`
	DefaultTTLSeconds *int64 `json:"default_ttl_seconds,omitempty" yaml:"default_ttl_seconds,omitempty"`
	MaxTTLSeconds     *int64 `json:"max_ttl_seconds,omitempty" yaml:"max_ttl_seconds,omitempty"`

	QueryStrings    KeyBehavior `json:"query_strings,omitempty" yaml:"query_strings,omitempty"`
	HeaderAllowlist []string    `json:"header_allowlist,omitempty" yaml:"header_allowlist,omitempty"`
	Cookies         KeyBehavior `json:"cookies,omitempty" yaml:"cookies,omitempty"`

	EncodingGzip   *bool `json:"encoding_gzip,omitempty" yaml:"encoding_gzip,omitempty"`
	EncodingBrotli *bool `json:"encoding_brotli,omitempty" yaml:"encoding_brotli,omitempty"`

	AllowedMethods MethodSet `json:"allowed_methods,omitempty" yaml:"allowed_methods,omitempty"`
}

// ResolveCachePolicy returns the cache policy for one behavior kind: a full
// replacement verbatim when supplied, otherwise the kind's default with the
// partial props merged on top. Resolution never fails; malformed values
// surface at validation or provisioning.
func ResolveCachePolicy(kind BehaviorKind, app string, ov CacheOverride) CachePolicy {
	if ov.Replace != nil {
		return *ov.Replace
	}
	return mergeCachePolicy(defaultCachePolicy(kind, app), ov.Props)
}

func defaultCachePolicy(kind BehaviorKind, app string) CachePolicy {
	switch kind {
	case BehaviorStatic:
		// Longest-lived immutable profile: hashed asset names never change
		// content, so nothing from the request varies the key.
		return CachePolicy{
			Name:              app + "-static-cache",
			Comment:           "immutable static assets for " + app,
			MinTTLSeconds:     30 * 24 * 60 * 60,
			DefaultTTLSeconds: 30 * 24 * 60 * 60,
			MaxTTLSeconds:     yearSeconds,
			QueryStrings:      KeyNone,
			Cookies:           KeyNone,
			EncodingGzip:      true,
			EncodingBrotli:    true,
			AllowedMethods:    MethodsReadOnly,
		}
	case BehaviorImage:
		// Cookies stay out of the image cache key on purpose: private
		// cookie-gated images require an explicit override.
		return CachePolicy{
			Name:              app + "-image-cache",
			Comment:           "image transformation responses for " + app,
			MinTTLSeconds:     0,
			DefaultTTLSeconds: 24 * 60 * 60,
			MaxTTLSeconds:     yearSeconds,
			QueryStrings:      KeyAll,
			HeaderAllowlist:   []string{"accept"},
			Cookies:           KeyNone,
			EncodingGzip:      true,
			EncodingBrotli:    true,
			AllowedMethods:    MethodsReadOnly,
		}
	default:
		return CachePolicy{
			Name:              app + "-dynamic-cache",
			Comment:           "server-rendered responses for " + app,
			MinTTLSeconds:     0,
			DefaultTTLSeconds: 0,
			MaxTTLSeconds:     24 * 60 * 60,
			QueryStrings:      KeyAll,
			HeaderAllowlist:   append([]string(nil), dynamicHeaderAllowlist...),
			Cookies:           KeyAll,
			EncodingGzip:      true,
			EncodingBrotli:    true,
			AllowedMethods:    MethodsAll,
		}
	}
}

func mergeCachePolicy(base CachePolicy, props CacheProps) CachePolicy {
	out := base
	if strings.TrimSpace(props.Name) != "" {
		out.Name = props.Name
	}
	if strings.TrimSpace(props.Comment) != "" {
		out.Comment = props.Comment
	}
	if props.MinTTLSeconds != nil {
		out.MinTTLSeconds = *props.MinTTLSeconds
	}
	if props.DefaultTTLSeconds != nil {
		out.DefaultTTLSeconds = *props.DefaultTTLSeconds
	}
	if props.MaxTTLSeconds != nil {
		out.MaxTTLSeconds = *props.MaxTTLSeconds
	}
	if strings.TrimSpace(string(props.QueryStrings)) != "" {
		out.QueryStrings = props.QueryStrings
	}
	if props.HeaderAllowlist != nil {
		out.HeaderAllowlist = append([]string(nil), props.HeaderAllowlist...)
	}
	if strings.TrimSpace(string(props.Cookies)) != "" {
		out.Cookies = props.Cookies
	}
	if props.EncodingGzip != nil {
		out.EncodingGzip = *props.EncodingGzip
	}
	if props.EncodingBrotli != nil {
		out.EncodingBrotli = *props.EncodingBrotli
	}
	if strings.TrimSpace(string(props.AllowedMethods)) != "" {
		out.AllowedMethods = props.AllowedMethods
	}
	return out
}
