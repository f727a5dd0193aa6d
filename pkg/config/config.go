package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
	"gopkg.in/yaml.v3"

	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/distconfig"
)

// DefaultPath is where Load looks when no config flag is given.
const DefaultPath = "nextcdn.yaml"

const defaultPidFile = "./run/nextcdn.pid"

// TopologyAuto asks the loader to infer the topology from the server URL.
const TopologyAuto = "auto"

type WatchConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMs int  `yaml:"debounce_ms"`
}

type ProbeConfig struct {
	Enabled   bool `yaml:"enabled"`
	TimeoutMs int  `yaml:"timeout_ms"`
}

type LoggingConfig struct {
	Level           string `yaml:"level"`
	AccessLog       bool   `yaml:"access_log"`
	AccessLogFormat string `yaml:"access_log_format"`
	AccessLogPreset string `yaml:"access_log_preset"`

	accessLogSet bool `yaml:"-"`
}

func (c *LoggingConfig) UnmarshalYAML(value *yaml.Node) error {
	type rawLogging struct {
		Level           string `yaml:"level"`
		AccessLog       bool   `yaml:"access_log"`
		AccessLogFormat string `yaml:"access_log_format"`
		AccessLogPreset string `yaml:"access_log_preset"`
	}
	var raw rawLogging
	if err := value.Decode(&raw); err != nil {
		return err
	}
	c.Level = raw.Level
	c.AccessLog = raw.AccessLog
	c.AccessLogFormat = raw.AccessLogFormat
	c.AccessLogPreset = raw.AccessLogPreset
	c.accessLogSet = false

	if value.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		if strings.TrimSpace(value.Content[i].Value) == "access_log" {
			c.accessLogSet = true
		}
	}
	return nil
}

type Config struct {
	App struct {
		Name     string `yaml:"name"`
		BasePath string `yaml:"base_path"`
	} `yaml:"app"`

	Build struct {
		// PublicDir is the framework's public directory; every top-level
		// child becomes one routing rule.
		PublicDir string `yaml:"public_dir"`
	} `yaml:"build"`

	Server struct {
		URL               string `yaml:"url"`
		Topology          string `yaml:"topology"`
		ComputeResourceID string `yaml:"compute_resource_id"`
		Certificate       bool   `yaml:"certificate"`
		// SigningFunction overrides the derived name of the request-signing
		// edge function for the edge-function topology.
		SigningFunction string `yaml:"signing_function"`
	} `yaml:"server"`

	Static struct {
		Bucket string `yaml:"bucket"`
	} `yaml:"static"`

	Domains struct {
		Aliases []string `yaml:"aliases"`
	} `yaml:"domains"`

	Limits distconfig.Limits `yaml:"limits"`

	// Overrides feeds the synthesis engine's per-dimension customization
	// layer untouched.
	Overrides distconfig.Overrides `yaml:"overrides"`

	Preview struct {
		Listen         string      `yaml:"listen"`
		APIKey         string      `yaml:"api_key"`
		ReadTimeoutMs  int         `yaml:"read_timeout_ms"`
		WriteTimeoutMs int         `yaml:"write_timeout_ms"`
		PidFile        string      `yaml:"pid_file"`
		Watch          WatchConfig `yaml:"watch"`
		Probe          ProbeConfig `yaml:"probe"`
	} `yaml:"preview"`

	Logging LoggingConfig `yaml:"logging"`
}

func Load(path string) (*Config, error) {
	// #nosec G304 -- path is provided by trusted config/flag.
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// PidFilePath resolves preview.pid_file from the config at path without full
// validation, so signal delivery keeps working after an edit broke the rest of
// the file. An empty path resolves straight to the default.
func PidFilePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return defaultPidFile, nil
	}
	// #nosec G304 -- path is provided by trusted config/flag.
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read config %s: %w", path, err)
	}
	var partial struct {
		Preview struct {
			PidFile string `yaml:"pid_file"`
		} `yaml:"preview"`
	}
	if err := yaml.Unmarshal(b, &partial); err != nil {
		return "", fmt.Errorf("parse config %s: %w", path, err)
	}
	if v := strings.TrimSpace(partial.Preview.PidFile); v != "" {
		return v, nil
	}
	return defaultPidFile, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.App.BasePath) != "" {
		cfg.App.BasePath = strings.Trim(strings.TrimSpace(cfg.App.BasePath), "/")
	}
	if strings.TrimSpace(cfg.Build.PublicDir) == "" {
		cfg.Build.PublicDir = "./public"
	}
	if strings.TrimSpace(cfg.Server.Topology) == "" {
		cfg.Server.Topology = TopologyAuto
	}
	if cfg.Limits.MaxRoutes <= 0 {
		cfg.Limits.MaxRoutes = distconfig.DefaultLimits().MaxRoutes
	}
	if cfg.Limits.ReservedRoutes <= 0 {
		cfg.Limits.ReservedRoutes = distconfig.DefaultLimits().ReservedRoutes
	}
	if strings.TrimSpace(cfg.Preview.Listen) == "" {
		cfg.Preview.Listen = ":8780"
	}
	if cfg.Preview.ReadTimeoutMs <= 0 {
		cfg.Preview.ReadTimeoutMs = 15000
	}
	if cfg.Preview.WriteTimeoutMs <= 0 {
		cfg.Preview.WriteTimeoutMs = 15000
	}
	if strings.TrimSpace(cfg.Preview.PidFile) == "" {
		cfg.Preview.PidFile = defaultPidFile
	}
	if cfg.Preview.Watch.DebounceMs <= 0 {
		cfg.Preview.Watch.DebounceMs = 300
	}
	if cfg.Preview.Probe.TimeoutMs <= 0 {
		cfg.Preview.Probe.TimeoutMs = 3000
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if !cfg.Logging.accessLogSet {
		cfg.Logging.AccessLog = true
	}
	cfg.Domains.Aliases = normalizeAliases(cfg.Domains.Aliases)
}

func applyEnvOverrides(cfg *Config) {
	applyEnvAppOverrides(cfg)
	applyEnvServerOverrides(cfg)
	applyEnvPreviewOverrides(cfg)
	applyEnvLoggingOverrides(cfg)
}

func applyEnvAppOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("NEXTCDN_APP_NAME")); v != "" {
		cfg.App.Name = v
	}
	if v, ok := os.LookupEnv("NEXTCDN_BASE_PATH"); ok {
		cfg.App.BasePath = strings.Trim(strings.TrimSpace(v), "/")
	}
	if v := strings.TrimSpace(os.Getenv("NEXTCDN_PUBLIC_DIR")); v != "" {
		cfg.Build.PublicDir = v
	}
	if v := strings.TrimSpace(os.Getenv("NEXTCDN_STATIC_BUCKET")); v != "" {
		cfg.Static.Bucket = v
	}
}

func applyEnvServerOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("NEXTCDN_SERVER_URL")); v != "" {
		cfg.Server.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("NEXTCDN_TOPOLOGY")); v != "" {
		cfg.Server.Topology = v
	}
	if v := strings.TrimSpace(os.Getenv("NEXTCDN_COMPUTE_RESOURCE_ID")); v != "" {
		cfg.Server.ComputeResourceID = v
	}
	cfg.Server.Certificate = envBool("NEXTCDN_CERTIFICATE", cfg.Server.Certificate)
}

func applyEnvPreviewOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("NEXTCDN_LISTEN")); v != "" {
		cfg.Preview.Listen = v
	}
	if v := strings.TrimSpace(os.Getenv("NEXTCDN_API_KEY")); v != "" {
		cfg.Preview.APIKey = v
	}
	if n, ok := envInt("NEXTCDN_READ_TIMEOUT_MS"); ok && n > 0 {
		cfg.Preview.ReadTimeoutMs = n
	}
	if n, ok := envInt("NEXTCDN_WRITE_TIMEOUT_MS"); ok && n > 0 {
		cfg.Preview.WriteTimeoutMs = n
	}
	if v := strings.TrimSpace(os.Getenv("NEXTCDN_PID_FILE")); v != "" {
		cfg.Preview.PidFile = v
	}
	cfg.Preview.Watch.Enabled = envBool("NEXTCDN_WATCH_ENABLED", cfg.Preview.Watch.Enabled)
	if n, ok := envInt("NEXTCDN_WATCH_DEBOUNCE_MS"); ok {
		cfg.Preview.Watch.DebounceMs = n
	}
	cfg.Preview.Probe.Enabled = envBool("NEXTCDN_PROBE_ORIGIN", cfg.Preview.Probe.Enabled)
	if n, ok := envInt("NEXTCDN_PROBE_TIMEOUT_MS"); ok {
		cfg.Preview.Probe.TimeoutMs = n
	}
}

func applyEnvLoggingOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("NEXTCDN_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
	cfg.Logging.AccessLog = envBool("NEXTCDN_ACCESS_LOG", cfg.Logging.AccessLog)
	if v := strings.TrimSpace(os.Getenv("NEXTCDN_ACCESS_LOG_FORMAT")); v != "" {
		cfg.Logging.AccessLogFormat = v
	}
	if v := strings.TrimSpace(os.Getenv("NEXTCDN_ACCESS_LOG_PRESET")); v != "" {
		cfg.Logging.AccessLogPreset = v
	}
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.App.Name) == "" {
		return errors.New("app.name is required")
	}
	if strings.TrimSpace(cfg.Server.URL) == "" {
		return errors.New("server.url is required")
	}
	if strings.TrimSpace(cfg.Static.Bucket) == "" {
		return errors.New("static.bucket is required")
	}
	topo := strings.ToLower(strings.TrimSpace(cfg.Server.Topology))
	if topo != TopologyAuto {
		if _, err := distconfig.ParseTopology(topo); err != nil {
			return fmt.Errorf("server.topology: %w", err)
		}
	}
	if bp := strings.TrimSpace(cfg.App.BasePath); bp != "" {
		if err := distconfig.ValidatePattern(bp); err != nil {
			return fmt.Errorf("app.base_path: %w", err)
		}
	}
	if cfg.Limits.MaxRoutes <= cfg.Limits.ReservedRoutes {
		return errors.New("limits.max_routes must be greater than limits.reserved_routes")
	}
	for _, alias := range cfg.Domains.Aliases {
		if _, err := idna.Lookup.ToASCII(alias); err != nil {
			return fmt.Errorf("domains.aliases: invalid domain %q: %w", alias, err)
		}
	}
	if cfg.Preview.Watch.Enabled && cfg.Preview.Watch.DebounceMs <= 0 {
		return errors.New("preview.watch.debounce_ms must be > 0 when preview.watch.enabled=true")
	}
	if cfg.Preview.Probe.Enabled && cfg.Preview.Probe.TimeoutMs <= 0 {
		return errors.New("preview.probe.timeout_ms must be > 0 when preview.probe.enabled=true")
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", cfg.Logging.Level)
	}
	return nil
}

// SigningFunctionName resolves the name of the request-signing edge function,
// deriving it from the app name unless overridden.
func (c *Config) SigningFunctionName() string {
	if v := strings.TrimSpace(c.Server.SigningFunction); v != "" {
		return v
	}
	return c.App.Name + "-request-signer"
}

func normalizeAliases(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, raw := range in {
		v := strings.ToLower(strings.TrimSpace(raw))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func envInt(name string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(name)))
	return n, err == nil
}

func envBool(name string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	return def
}
