package config

import "strings"

// FieldMetadata describes one config field for CLI help output. Section uses
// the top-level mapping key of the field ("app", "server", ...).
type FieldMetadata struct {
	Key     string
	Section string
	Hover   string
	Values  []string
}

var fieldMetadata = []FieldMetadata{
	{Key: "app.name", Section: "app", Hover: "`app.name: shop`\n\nApplication name. All synthesized resource names (cache policies, origins, functions) derive from it."},
	{Key: "app.base_path", Section: "app", Hover: "`app.base_path: docs`\n\nOptional URL prefix the whole application is served under. Every synthesized path pattern is prefixed with it and the base path gains explicit exact and wildcard routes."},

	{Key: "build.public_dir", Section: "build", Hover: "`build.public_dir: ./public`\n\nFramework public directory. Each top-level child becomes one static routing rule, so the child count is bounded by the route ceiling."},

	{Key: "server.url", Section: "server", Hover: "`server.url: https://abc.lambda-url.us-east-1.on.aws`\n\nCompute endpoint serving dynamic requests. Only its bare domain reaches the distribution as the dynamic origin target."},
	{Key: "server.topology", Section: "server", Hover: "`server.topology: auto`\n\nCompute style serving dynamic requests. `auto` infers it from the server URL host.", Values: []string{"auto", "edge-function", "server-function", "container"}},
	{Key: "server.compute_resource_id", Section: "server", Hover: "`server.compute_resource_id: arn:aws:lambda:...`\n\nResource the request-signing hook is granted invoke permission on. Required for the edge-function topology."},
	{Key: "server.certificate", Section: "server", Hover: "`server.certificate: true`\n\nWhether a transport certificate fronts a container endpoint. With one, the distribution talks HTTPS to the origin; without one a container origin falls back to HTTP."},
	{Key: "server.signing_function", Section: "server", Hover: "`server.signing_function: shop-signer`\n\nOverrides the derived name of the request-signing edge function."},

	{Key: "static.bucket", Section: "static", Hover: "`static.bucket: shop-assets`\n\nObject-store bucket holding the immutable build assets. Access is always signed; the bucket never allows public reads."},

	{Key: "domains.aliases", Section: "domains", Hover: "`domains.aliases: [www.example.com]`\n\nCustom domain names attached to the distribution. Validated as IDNA hostnames at load time."},

	{Key: "limits.max_routes", Section: "limits", Hover: "`limits.max_routes: 25`\n\nPlatform route ceiling per distribution."},
	{Key: "limits.reserved_routes", Section: "limits", Hover: "`limits.reserved_routes: 3`\n\nSlots reserved for the image rule, the static-assets rule and the default route."},

	{Key: "overrides.static", Section: "overrides", Hover: "`overrides.static: { cache: {...}, headers: {...}, options: {...} }`\n\nCustomizes the static behavior. `replace` supersedes the computed default construct entirely; `props` merges field-by-field onto it."},
	{Key: "overrides.dynamic", Section: "overrides", Hover: "`overrides.dynamic: { cache: {...}, headers: {...}, options: {...} }`\n\nCustomizes the dynamic behavior. Same replace/props layering as the static override."},
	{Key: "overrides.image", Section: "overrides", Hover: "`overrides.image: { cache: {...}, headers: {...}, options: {...} }`\n\nCustomizes the image behavior. Image caching ignores cookies by default; overriding the cache props is how cookie-gated images opt back in."},
	{Key: "overrides.origin_request", Section: "overrides", Hover: "`overrides.origin_request: { props: { headers: all-viewer } }`\n\nCustomizes which viewer data is forwarded to the dynamic origin."},
	{Key: "overrides.static_origin", Section: "overrides", Hover: "`overrides.static_origin: { props: { id: my-origin } }`\n\nCustomizes the object-store origin."},
	{Key: "overrides.dynamic_origin", Section: "overrides", Hover: "`overrides.dynamic_origin: { props: { read_timeout_seconds: 60 } }`\n\nCustomizes the HTTP origin pointing at the compute endpoint."},

	{Key: "preview.listen", Section: "preview", Hover: "`preview.listen: :8780`\n\nAddress the preview server binds."},
	{Key: "preview.api_key", Section: "preview", Hover: "`preview.api_key: secret`\n\nWhen set, API endpoints require `Authorization: Bearer <key>`."},
	{Key: "preview.read_timeout_ms", Section: "preview", Hover: "`preview.read_timeout_ms: 15000`\n\nHTTP read timeout of the preview server."},
	{Key: "preview.write_timeout_ms", Section: "preview", Hover: "`preview.write_timeout_ms: 15000`\n\nHTTP write timeout of the preview server."},
	{Key: "preview.pid_file", Section: "preview", Hover: "`preview.pid_file: ./run/nextcdn.pid`\n\nWhere the preview server writes its pid."},
	{Key: "preview.watch.enabled", Section: "preview", Hover: "`preview.watch.enabled: true`\n\nWatches the public directory and re-synthesizes the plan on changes."},
	{Key: "preview.watch.debounce_ms", Section: "preview", Hover: "`preview.watch.debounce_ms: 300`\n\nQuiet period before a burst of file events triggers one re-synthesis."},
	{Key: "preview.probe.enabled", Section: "preview", Hover: "`preview.probe.enabled: false`\n\nSends one HEAD request to the server URL and warns when the dynamic origin is unreachable. Never fails the plan."},
	{Key: "preview.probe.timeout_ms", Section: "preview", Hover: "`preview.probe.timeout_ms: 3000`\n\nTimeout of the origin probe request."},

	{Key: "logging.level", Section: "logging", Hover: "`logging.level: info`\n\nLog verbosity.", Values: []string{"debug", "info", "warn", "error"}},
	{Key: "logging.access_log", Section: "logging", Hover: "`logging.access_log: true`\n\nWhether the preview server logs one line per request."},
	{Key: "logging.access_log_format", Section: "logging", Hover: "`logging.access_log_format: \"$time_local | $status | $method $path\"`\n\nCustom access-line template. `$name` references a variable, `$$` escapes a dollar sign. Wins over the preset."},
	{Key: "logging.access_log_preset", Section: "logging", Hover: "`logging.access_log_preset: plan_combined`\n\nNamed access-line template. Ignored when an explicit format is set.", Values: []string{"plan_combined", "plan_minimal"}},
}

// FieldDoc returns hover markdown for a config key.
func FieldDoc(key string) (string, bool) {
	k := strings.TrimSpace(key)
	if k == "" {
		return "", false
	}
	for _, f := range fieldMetadata {
		if f.Key != k || strings.TrimSpace(f.Hover) == "" {
			continue
		}
		return f.Hover, true
	}
	return "", false
}

// FieldsBySection returns the config keys declared in one section.
func FieldsBySection(section string) []string {
	s := strings.ToLower(strings.TrimSpace(section))
	if s == "" {
		return nil
	}
	out := make([]string, 0, 8)
	for _, f := range fieldMetadata {
		if f.Section != s {
			continue
		}
		out = append(out, f.Key)
	}
	return out
}

// AllFields returns every documented config key in declaration order.
func AllFields() []FieldMetadata {
	out := make([]FieldMetadata, len(fieldMetadata))
	copy(out, fieldMetadata)
	return out
}

// ValuesByField returns the allowed values for one config key.
func ValuesByField(key string) []string {
	k := strings.TrimSpace(key)
	if k == "" {
		return nil
	}
	for _, f := range fieldMetadata {
		if f.Key != k {
			continue
		}
		out := make([]string, 0, len(f.Values))
		for _, v := range f.Values {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			out = append(out, v)
		}
		return out
	}
	return nil
}
