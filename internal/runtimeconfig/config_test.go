package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-scribe/internal/runtimeconfig"
)

func TestConfigValidate_DefaultsAreValid(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{
			name:   "unknown storage provider",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Storage.Provider = "redis" },
			want:   runtimeconfig.ErrStorageProviderUnknown,
		},
		{
			name: "bun requires dsn",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Storage.Provider = "bun"
				cfg.Storage.DSN = " "
			},
			want: runtimeconfig.ErrStorageDSNRequired,
		},
		{
			name: "bun unknown driver",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Storage.Provider = "bun"
				cfg.Storage.Driver = "oracle"
				cfg.Storage.DSN = "x"
			},
			want: runtimeconfig.ErrStorageDriverUnknown,
		},
		{
			name:   "negative cache ttl",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Cache.DefaultTTL = -time.Second },
			want:   runtimeconfig.ErrCacheTTLInvalid,
		},
		{
			name: "dispatcher without commands",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Commands.Enabled = false
				cfg.Commands.AutoRegisterDispatcher = true
			},
			want: runtimeconfig.ErrCommandsDispatcherRequiresCommands,
		},
		{
			name:   "bad markdown pattern",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Markdown.Pattern = "[" },
			want:   runtimeconfig.ErrMarkdownPatternInvalid,
		},
		{
			name: "http without address",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.HTTP = true
				cfg.HTTP.Addr = ""
			},
			want: runtimeconfig.ErrHTTPAddrRequired,
		},
		{
			name: "logger without provider",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Provider = ""
			},
			want: runtimeconfig.ErrLoggingProviderRequired,
		},
		{
			name: "unknown logging provider",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Provider = "syslog"
			},
			want: runtimeconfig.ErrLoggingProviderUnknown,
		},
		{
			name: "invalid logging level",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Level = "loud"
			},
			want: runtimeconfig.ErrLoggingLevelInvalid,
		},
		{
			name: "invalid gologger format",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Provider = "gologger"
				cfg.Logging.Format = "xml"
			},
			want: runtimeconfig.ErrLoggingFormatInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidate_AllowsPostgresAliases(t *testing.T) {
	for _, driver := range []string{"postgres", "postgresql", "pgx", "sqlite3"} {
		cfg := runtimeconfig.DefaultConfig()
		cfg.Storage.Provider = "bun"
		cfg.Storage.Driver = driver
		cfg.Storage.DSN = "dsn"
		if err := cfg.Validate(); err != nil {
			t.Fatalf("driver %s: unexpected error %v", driver, err)
		}
	}
}

func noEnv(string) (string, bool) { return "", false }

func mapEnv(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := runtimeconfig.Load(filepath.Join(t.TempDir(), "missing.yaml"),
		runtimeconfig.WithEnvFile(""),
		runtimeconfig.WithLookupEnv(noEnv),
	)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Provider != runtimeconfig.StorageProviderMemory || cfg.HTTP.Addr != ":8080" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scribe.yaml")
	content := `
storage:
  provider: bun
  driver: sqlite
  dsn: "file:scribe.db"
cache:
  enabled: true
  default_ttl: 30s
markdown:
  setext: true
  parser:
    safe_mode: true
commands:
  timeout: 5s
logging:
  provider: gologger
  format: json
  focus: [scribe.workspace]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := runtimeconfig.Load(path, runtimeconfig.WithEnvFile(""), runtimeconfig.WithLookupEnv(noEnv))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Provider != "bun" || cfg.Storage.DSN != "file:scribe.db" {
		t.Fatalf("unexpected storage config %+v", cfg.Storage)
	}
	if !cfg.Cache.Enabled || cfg.Cache.DefaultTTL != 30*time.Second {
		t.Fatalf("unexpected cache config %+v", cfg.Cache)
	}
	if !cfg.Markdown.Setext || !cfg.Markdown.Parser.SafeMode || cfg.Markdown.Pattern != "*.md" {
		t.Fatalf("unexpected markdown config %+v", cfg.Markdown)
	}
	if cfg.Commands.Timeout != 5*time.Second || !cfg.Commands.Enabled {
		t.Fatalf("unexpected commands config %+v", cfg.Commands)
	}
	if cfg.Logging.Provider != "gologger" || len(cfg.Logging.Focus) != 1 {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	env := map[string]string{
		"SCRIBE_STORAGE_PROVIDER": "bun",
		"SCRIBE_STORAGE_DRIVER":   "postgres",
		"SCRIBE_STORAGE_DSN":      "postgres://localhost/scribe",
		"SCRIBE_CACHE_ENABLED":    "true",
		"SCRIBE_HTTP_ADDR":        ":9090",
		"SCRIBE_LOGGER":           "true",
		"SCRIBE_LOG_LEVEL":        "debug",
		"SCRIBE_LOG_FOCUS":        "scribe.http, scribe.storage",
	}
	cfg, err := runtimeconfig.Load("", runtimeconfig.WithEnvFile(""), runtimeconfig.WithLookupEnv(mapEnv(env)))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Driver != "postgres" || cfg.Storage.DSN != "postgres://localhost/scribe" {
		t.Fatalf("unexpected storage config %+v", cfg.Storage)
	}
	if !cfg.Cache.Enabled || cfg.HTTP.Addr != ":9090" {
		t.Fatalf("expected env overrides, got %+v", cfg)
	}
	if !cfg.Features.Logger || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
	if len(cfg.Logging.Focus) != 2 || cfg.Logging.Focus[1] != "scribe.storage" {
		t.Fatalf("unexpected focus %v", cfg.Logging.Focus)
	}
}

func TestLoad_EnvFileFallsBehindProcessEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("SCRIBE_HTTP_ADDR=:7000\nSCRIBE_MARKDOWN_SETEXT=true\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := runtimeconfig.Load("",
		runtimeconfig.WithEnvFile(envFile),
		runtimeconfig.WithLookupEnv(mapEnv(map[string]string{"SCRIBE_HTTP_ADDR": ":7100"})),
	)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Addr != ":7100" {
		t.Fatalf("expected process env to win, got %q", cfg.HTTP.Addr)
	}
	if !cfg.Markdown.Setext {
		t.Fatalf("expected env file value to apply")
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	_, err := runtimeconfig.Load("", runtimeconfig.WithEnvFile(""),
		runtimeconfig.WithLookupEnv(mapEnv(map[string]string{"SCRIBE_CACHE_TTL": "soon"})))
	if !errors.Is(err, runtimeconfig.ErrEnvValueInvalid) {
		t.Fatalf("expected ErrEnvValueInvalid, got %v", err)
	}

	_, err = runtimeconfig.Load("", runtimeconfig.WithEnvFile(""),
		runtimeconfig.WithLookupEnv(mapEnv(map[string]string{"SCRIBE_STORAGE_PROVIDER": "redis"})))
	if !errors.Is(err, runtimeconfig.ErrStorageProviderUnknown) {
		t.Fatalf("expected ErrStorageProviderUnknown, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("storage: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := runtimeconfig.Load(path, runtimeconfig.WithEnvFile(""), runtimeconfig.WithLookupEnv(noEnv)); err == nil {
		t.Fatalf("expected yaml parse error")
	}
}
