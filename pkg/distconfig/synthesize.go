package distconfig

import "strings"

// BehaviorOverride groups the per-behavior override dimensions.
type BehaviorOverride struct {
	Cache   CacheOverride  `json:"cache,omitempty" yaml:"cache,omitempty"`
	Headers HeaderOverride `json:"headers,omitempty" yaml:"headers,omitempty"`
	Options BehaviorProps  `json:"options,omitempty" yaml:"options,omitempty"`
}

// Overrides carries every user-supplied customization layer. The zero value
// keeps every dimension at its computed default.
type Overrides struct {
	Static  BehaviorOverride `json:"static,omitempty" yaml:"static,omitempty"`
	Dynamic BehaviorOverride `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`
	Image   BehaviorOverride `json:"image,omitempty" yaml:"image,omitempty"`

	OriginRequest OriginRequestOverride `json:"origin_request,omitempty" yaml:"origin_request,omitempty"`
	StaticOrigin  StaticOriginOverride  `json:"static_origin,omitempty" yaml:"static_origin,omitempty"`
	DynamicOrigin DynamicOriginOverride `json:"dynamic_origin,omitempty" yaml:"dynamic_origin,omitempty"`
}

// Inputs is everything synthesis depends on. Collected up front by the host;
// the engine reads nothing else.
type Inputs struct {
	AppName  string          `json:"app_name" yaml:"app_name"`
	BasePath string          `json:"base_path,omitempty" yaml:"base_path,omitempty"`
	Topology ComputeTopology `json:"topology" yaml:"topology"`

	ServerDomain      string `json:"server_domain" yaml:"server_domain"`
	StaticBucket      string `json:"static_bucket" yaml:"static_bucket"`
	HasCertificate    bool   `json:"has_certificate,omitempty" yaml:"has_certificate,omitempty"`
	ComputeResourceID string `json:"compute_resource_id,omitempty" yaml:"compute_resource_id,omitempty"`

	PublicEntries []PublicEntry `json:"public_entries,omitempty" yaml:"public_entries,omitempty"`
	SigningHooks  []EdgeHook    `json:"signing_hooks,omitempty" yaml:"signing_hooks,omitempty"`
	Aliases       []string      `json:"aliases,omitempty" yaml:"aliases,omitempty"`

	Limits    Limits    `json:"limits,omitempty" yaml:"limits,omitempty"`
	Overrides Overrides `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// Plan is the terminal in-memory routing configuration. Behaviors are in
// emission order; DefaultBehavior fills the distribution's catch-all slot and
// is applied last.
type Plan struct {
	AppName  string          `json:"app_name" yaml:"app_name"`
	BasePath string          `json:"base_path,omitempty" yaml:"base_path,omitempty"`
	Topology ComputeTopology `json:"topology" yaml:"topology"`

	StaticOrigin  StaticOrigin  `json:"static_origin" yaml:"static_origin"`
	DynamicOrigin DynamicOrigin `json:"dynamic_origin" yaml:"dynamic_origin"`

	Behaviors       []RouteEntry `json:"behaviors" yaml:"behaviors"`
	DefaultBehavior RouteEntry   `json:"default_behavior" yaml:"default_behavior"`

	Functions []FunctionDef `json:"functions,omitempty" yaml:"functions,omitempty"`
	Aliases   []string      `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// Synthesize compiles the full routing configuration: required-input check,
// policy resolution, origin construction, behavior expansion, constraint
// validation. Pure and deterministic; identical inputs yield an identical
// plan. On error nothing is returned, a bad configuration is never partially
// synthesized.
func Synthesize(in Inputs) (Plan, error) {
	app := strings.TrimSpace(in.AppName)
	basePath := normalizeBasePath(in.BasePath)
	limits := in.Limits.withDefaults()

	if err := checkRequiredInputs(app, in); err != nil {
		return Plan{}, err
	}

	staticOrigin := BuildStaticOrigin(app, strings.TrimSpace(in.StaticBucket), in.Overrides.StaticOrigin)
	dynamicOrigin := BuildDynamicOrigin(app, strings.TrimSpace(in.ServerDomain), in.Topology, in.HasCertificate, in.Overrides.DynamicOrigin)

	set := buildBehaviorSet(app, in)

	entries := make([]RouteEntry, 0, 2+len(in.PublicEntries)+2)
	entries = append(entries, set.Image.withPattern(prefixPattern(basePath, imagePathPattern)))
	entries = append(entries, set.Static.withPattern(prefixPattern(basePath, staticPathPattern)))
	for _, pe := range in.PublicEntries {
		pattern := pe.Name
		if pe.IsDirectory {
			pattern += "/*"
		}
		entries = append(entries, set.Static.withPattern(prefixPattern(basePath, pattern)))
	}
	if basePath != "" {
		// A base path disables the implicit catch-all for paths under it, so
		// the dynamic template gets explicit exact and wildcard rules.
		entries = append(entries, set.Dynamic.withPattern(basePath))
		entries = append(entries, set.Dynamic.withPattern(basePath+"/*"))
	}

	if err := ValidateEntries(entries, len(in.PublicEntries), limits); err != nil {
		return Plan{}, err
	}

	var functions []FunctionDef
	if in.Topology == TopologyEdgeFunction {
		functions = []FunctionDef{{
			Name:      HostRewriteFunctionName(app),
			EventType: EventViewerRequest,
			Code:      hostRewriteFunctionCode,
		}}
	}

	return Plan{
		AppName:         app,
		BasePath:        basePath,
		Topology:        in.Topology,
		StaticOrigin:    staticOrigin,
		DynamicOrigin:   dynamicOrigin,
		Behaviors:       entries,
		DefaultBehavior: set.Dynamic.withPattern("*"),
		Functions:       functions,
		Aliases:         append([]string(nil), in.Aliases...),
	}, nil
}

// checkRequiredInputs fails at synthesis start when a topology-demanded field
// is absent, never partway through.
func checkRequiredInputs(app string, in Inputs) error {
	if app == "" {
		return &MissingInputError{Field: "app_name"}
	}
	if _, err := ParseTopology(string(in.Topology)); err != nil {
		return err
	}
	if strings.TrimSpace(in.ServerDomain) == "" {
		return &MissingInputError{Field: "server_domain", Topology: in.Topology}
	}
	if strings.TrimSpace(in.StaticBucket) == "" {
		return &MissingInputError{Field: "static_bucket", Topology: in.Topology}
	}
	if in.Topology == TopologyEdgeFunction && strings.TrimSpace(in.ComputeResourceID) == "" {
		// Signing hooks need a resource to be granted invoke permission on.
		return &MissingInputError{Field: "compute_resource_id", Topology: in.Topology}
	}
	return nil
}

// buildBehaviorSet resolves the three behavior templates. The security
// header default is constructed once and shared read-only by all three.
func buildBehaviorSet(app string, in Inputs) BehaviorSet {
	sharedHeaders := defaultHeaderPolicy(app)
	orp := ResolveOriginRequestPolicy(app, in.Topology, in.Overrides.OriginRequest)

	var signingHooks []EdgeHook
	var hostRewrite []FunctionAssociation
	if in.Topology == TopologyEdgeFunction {
		signingHooks = append([]EdgeHook(nil), in.SigningHooks...)
		hostRewrite = []FunctionAssociation{{
			EventType:    EventViewerRequest,
			FunctionName: HostRewriteFunctionName(app),
		}}
	}

	static := RouteEntry{
		OriginKind:     OriginStatic,
		ViewerProtocol: ViewerRedirectToHTTPS,
		Compress:       true,
		CachePolicy:    ResolveCachePolicy(BehaviorStatic, app, in.Overrides.Static.Cache),
		HeaderPolicy:   resolveHeaderPolicy(sharedHeaders, in.Overrides.Static.Headers),
	}
	static = mergeBehaviorOptions(static, in.Overrides.Static.Options)

	dynamic := RouteEntry{
		OriginKind:           OriginDynamic,
		ViewerProtocol:       ViewerRedirectToHTTPS,
		Compress:             true,
		CachePolicy:          ResolveCachePolicy(BehaviorDynamic, app, in.Overrides.Dynamic.Cache),
		HeaderPolicy:         resolveHeaderPolicy(sharedHeaders, in.Overrides.Dynamic.Headers),
		OriginRequestPolicy:  &orp,
		FunctionAssociations: hostRewrite,
		EdgeHooks:            signingHooks,
	}
	dynamic = mergeBehaviorOptions(dynamic, in.Overrides.Dynamic.Options)

	image := RouteEntry{
		OriginKind:          OriginDynamic,
		ViewerProtocol:      ViewerRedirectToHTTPS,
		Compress:            true,
		CachePolicy:         ResolveCachePolicy(BehaviorImage, app, in.Overrides.Image.Cache),
		HeaderPolicy:        resolveHeaderPolicy(sharedHeaders, in.Overrides.Image.Headers),
		OriginRequestPolicy: &orp,
		EdgeHooks:           signingHooks,
	}
	image = mergeBehaviorOptions(image, in.Overrides.Image.Options)

	return BehaviorSet{Static: static, Dynamic: dynamic, Image: image}
}

func normalizeBasePath(basePath string) string {
	return strings.Trim(strings.TrimSpace(basePath), "/")
}

func prefixPattern(basePath, pattern string) string {
	if basePath == "" {
		return pattern
	}
	return basePath + "/" + pattern
}
