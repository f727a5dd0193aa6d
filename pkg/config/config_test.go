package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "nextcdn.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

const minimalConfig = `
app:
  name: shop
server:
  url: https://abc123.lambda-url.us-east-1.on.aws
static:
  bucket: shop-assets
`

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.Build.PublicDir != "./public" {
		t.Fatalf("default public_dir=%q", cfg.Build.PublicDir)
	}
	if cfg.Server.Topology != TopologyAuto {
		t.Fatalf("default topology=%q", cfg.Server.Topology)
	}
	if cfg.Limits.MaxRoutes != 25 || cfg.Limits.ReservedRoutes != 3 {
		t.Fatalf("default limits=%+v", cfg.Limits)
	}
	if cfg.Preview.Listen != ":8780" {
		t.Fatalf("default listen=%q", cfg.Preview.Listen)
	}
	if cfg.Preview.ReadTimeoutMs != 15000 || cfg.Preview.WriteTimeoutMs != 15000 {
		t.Fatalf("default timeouts=%d,%d", cfg.Preview.ReadTimeoutMs, cfg.Preview.WriteTimeoutMs)
	}
	if cfg.Preview.Watch.Enabled {
		t.Fatalf("preview.watch.enabled default should be false")
	}
	if cfg.Preview.Watch.DebounceMs != 300 {
		t.Fatalf("preview.watch.debounce_ms default=%d", cfg.Preview.Watch.DebounceMs)
	}
	if cfg.Preview.Probe.TimeoutMs != 3000 {
		t.Fatalf("preview.probe.timeout_ms default=%d", cfg.Preview.Probe.TimeoutMs)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("default level=%q", cfg.Logging.Level)
	}
	if !cfg.Logging.AccessLog {
		t.Fatalf("access_log default should be true")
	}
}

func TestLoadAccessLogExplicitFalse(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
logging:
  access_log: false
`))
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.Logging.AccessLog {
		t.Fatalf("explicit access_log: false should not be re-defaulted to true")
	}
}

func TestLoadBasePathTrimmed(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
app:
  name: shop
  base_path: /docs/
server:
  url: https://abc123.lambda-url.us-east-1.on.aws
static:
  bucket: shop-assets
`))
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.App.BasePath != "docs" {
		t.Fatalf("base path not trimmed: %q", cfg.App.BasePath)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NEXTCDN_APP_NAME", "store")
	t.Setenv("NEXTCDN_BASE_PATH", "/app/")
	t.Setenv("NEXTCDN_PUBLIC_DIR", "/srv/public")
	t.Setenv("NEXTCDN_SERVER_URL", "https://alb.example.com")
	t.Setenv("NEXTCDN_TOPOLOGY", "container")
	t.Setenv("NEXTCDN_CERTIFICATE", "true")
	t.Setenv("NEXTCDN_STATIC_BUCKET", "store-assets")
	t.Setenv("NEXTCDN_LISTEN", ":9999")
	t.Setenv("NEXTCDN_API_KEY", "secret")
	t.Setenv("NEXTCDN_READ_TIMEOUT_MS", "1234")
	t.Setenv("NEXTCDN_WRITE_TIMEOUT_MS", "2345")
	t.Setenv("NEXTCDN_WATCH_ENABLED", "1")
	t.Setenv("NEXTCDN_WATCH_DEBOUNCE_MS", "450")
	t.Setenv("NEXTCDN_PROBE_ORIGIN", "on")
	t.Setenv("NEXTCDN_LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.App.Name != "store" {
		t.Fatalf("app name not overridden: %q", cfg.App.Name)
	}
	if cfg.App.BasePath != "app" {
		t.Fatalf("base path not overridden or trimmed: %q", cfg.App.BasePath)
	}
	if cfg.Build.PublicDir != "/srv/public" {
		t.Fatalf("public dir not overridden: %q", cfg.Build.PublicDir)
	}
	if cfg.Server.URL != "https://alb.example.com" || cfg.Server.Topology != "container" {
		t.Fatalf("server not overridden: %+v", cfg.Server)
	}
	if !cfg.Server.Certificate {
		t.Fatalf("certificate not overridden")
	}
	if cfg.Static.Bucket != "store-assets" {
		t.Fatalf("bucket not overridden: %q", cfg.Static.Bucket)
	}
	if cfg.Preview.Listen != ":9999" || cfg.Preview.APIKey != "secret" {
		t.Fatalf("preview not overridden: %+v", cfg.Preview)
	}
	if cfg.Preview.ReadTimeoutMs != 1234 || cfg.Preview.WriteTimeoutMs != 2345 {
		t.Fatalf("timeouts not overridden: %d,%d", cfg.Preview.ReadTimeoutMs, cfg.Preview.WriteTimeoutMs)
	}
	if !cfg.Preview.Watch.Enabled || cfg.Preview.Watch.DebounceMs != 450 {
		t.Fatalf("watch not overridden: %+v", cfg.Preview.Watch)
	}
	if !cfg.Preview.Probe.Enabled {
		t.Fatalf("probe not overridden")
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level not overridden: %q", cfg.Logging.Level)
	}
}

func TestPidFilePath(t *testing.T) {
	t.Run("empty path falls back to default", func(t *testing.T) {
		got, err := PidFilePath("")
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if got != defaultPidFile {
			t.Fatalf("pid file=%q", got)
		}
	})

	t.Run("explicit pid file wins", func(t *testing.T) {
		p := writeConfig(t, "preview:\n  pid_file: /tmp/x.pid\n")
		got, err := PidFilePath(p)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if got != "/tmp/x.pid" {
			t.Fatalf("pid file=%q", got)
		}
	})

	t.Run("unset key falls back to default", func(t *testing.T) {
		got, err := PidFilePath(writeConfig(t, minimalConfig))
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if got != defaultPidFile {
			t.Fatalf("pid file=%q", got)
		}
	})

	t.Run("missing file errors", func(t *testing.T) {
		if _, err := PidFilePath(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Fatalf("expected read error")
		}
	})
}

func TestValidate(t *testing.T) {
	validCfg := func() *Config {
		cfg := &Config{}
		cfg.App.Name = "shop"
		cfg.Server.URL = "https://abc.example.com"
		cfg.Server.Topology = TopologyAuto
		cfg.Static.Bucket = "shop-assets"
		cfg.Limits.MaxRoutes = 25
		cfg.Limits.ReservedRoutes = 3
		cfg.Logging.Level = "info"
		return cfg
	}

	t.Run("missing app name", func(t *testing.T) {
		cfg := validCfg()
		cfg.App.Name = " "
		if err := validate(cfg); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("missing server url", func(t *testing.T) {
		cfg := validCfg()
		cfg.Server.URL = ""
		if err := validate(cfg); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("missing bucket", func(t *testing.T) {
		cfg := validCfg()
		cfg.Static.Bucket = ""
		if err := validate(cfg); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unknown topology", func(t *testing.T) {
		cfg := validCfg()
		cfg.Server.Topology = "serverless"
		if err := validate(cfg); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("explicit topology accepted", func(t *testing.T) {
		cfg := validCfg()
		cfg.Server.Topology = "edge-function"
		if err := validate(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("base path charset", func(t *testing.T) {
		cfg := validCfg()
		cfg.App.BasePath = "bad path!"
		if err := validate(cfg); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("limits ordering", func(t *testing.T) {
		cfg := validCfg()
		cfg.Limits.MaxRoutes = 3
		cfg.Limits.ReservedRoutes = 3
		if err := validate(cfg); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("invalid alias", func(t *testing.T) {
		cfg := validCfg()
		cfg.Domains.Aliases = []string{"bad_domain!.example.com"}
		if err := validate(cfg); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("valid aliases", func(t *testing.T) {
		cfg := validCfg()
		cfg.Domains.Aliases = []string{"www.example.com", "xn--bcher-kva.example"}
		if err := validate(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("watch requires positive debounce", func(t *testing.T) {
		cfg := validCfg()
		cfg.Preview.Watch.Enabled = true
		cfg.Preview.Watch.DebounceMs = 0
		if err := validate(cfg); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("invalid log level", func(t *testing.T) {
		cfg := validCfg()
		cfg.Logging.Level = "verbose"
		if err := validate(cfg); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestSigningFunctionName(t *testing.T) {
	cfg := &Config{}
	cfg.App.Name = "shop"
	if got := cfg.SigningFunctionName(); got != "shop-request-signer" {
		t.Fatalf("derived name=%q", got)
	}
	cfg.Server.SigningFunction = "custom-signer"
	if got := cfg.SigningFunctionName(); got != "custom-signer" {
		t.Fatalf("override name=%q", got)
	}
}

func TestNormalizeAliases(t *testing.T) {
	in := []string{" WWW.Example.COM ", "", "www.example.com", "api.example.com"}
	out := normalizeAliases(in)
	if len(out) != 2 || out[0] != "www.example.com" || out[1] != "api.example.com" {
		t.Fatalf("unexpected normalized aliases: %#v", out)
	}
}

func TestFieldMetadata(t *testing.T) {
	doc, ok := FieldDoc("server.topology")
	if !ok {
		t.Fatalf("server.topology should be documented")
	}
	if !strings.Contains(doc, "auto") {
		t.Fatalf("topology doc should mention auto: %q", doc)
	}
	if _, ok := FieldDoc("server.nope"); ok {
		t.Fatalf("unknown key should not resolve")
	}

	values := ValuesByField("logging.level")
	if len(values) != 4 || values[0] != "debug" {
		t.Fatalf("logging.level values=%v", values)
	}

	keys := FieldsBySection("preview")
	if len(keys) == 0 {
		t.Fatalf("preview section should list fields")
	}
	for _, k := range keys {
		if !strings.HasPrefix(k, "preview.") {
			t.Fatalf("unexpected key %q in preview section", k)
		}
	}

	if len(AllFields()) < 20 {
		t.Fatalf("field table unexpectedly small: %d", len(AllFields()))
	}
}
