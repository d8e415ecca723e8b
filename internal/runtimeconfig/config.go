package runtimeconfig

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

var ErrStorageProviderUnknown = errors.New("scribe config: storage provider is invalid")
var ErrStorageDriverUnknown = errors.New("scribe config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("scribe config: storage dsn is required for the bun provider")

// ErrCacheTTLInvalid rejects negative cache lifetimes.
var ErrCacheTTLInvalid = errors.New("scribe config: cache ttl must be zero or positive")

// ErrCommandsDispatcherRequiresCommands keeps dispatcher wiring behind the commands flag.
var ErrCommandsDispatcherRequiresCommands = errors.New("scribe config: dispatcher auto-registration requires commands to be enabled")
var ErrCommandsTimeoutInvalid = errors.New("scribe config: command timeout must be zero or positive")
var ErrMarkdownPatternInvalid = errors.New("scribe config: markdown pattern is invalid")
var ErrHTTPAddrRequired = errors.New("scribe config: http address is required when http is enabled")
var ErrHTTPMaxImportBytesInvalid = errors.New("scribe config: http max import bytes must be zero or positive")
var ErrLoggingProviderRequired = errors.New("scribe config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("scribe config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("scribe config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("scribe config: logging format is invalid")

const (
	StorageProviderMemory = "memory"
	StorageProviderBun    = "bun"
)

// Config aggregates feature flags and adapter bindings for the scribe module.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Cache    CacheConfig    `yaml:"cache"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Commands CommandsConfig `yaml:"commands"`
	HTTP     HTTPConfig     `yaml:"http"`
	Features Features       `yaml:"features"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// StorageConfig selects the key/value store backing the workspace.
type StorageConfig struct {
	// Provider is "memory" or "bun".
	Provider string `yaml:"provider"`
	// Driver is "sqlite" or "postgres" for the bun provider.
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// CacheConfig captures the read-through cache placed in front of the bun repository.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// MarkdownConfig captures filesystem and parser behaviour for markdown imports.
type MarkdownConfig struct {
	ContentDir string               `yaml:"content_dir"`
	Pattern    string               `yaml:"pattern"`
	Recursive  bool                 `yaml:"recursive"`
	Setext     bool                 `yaml:"setext"`
	Parser     MarkdownParserConfig `yaml:"parser"`
}

// MarkdownParserConfig mirrors interfaces.RenderOptions for previews.
type MarkdownParserConfig struct {
	Extensions []string `yaml:"extensions"`
	HardWraps  bool     `yaml:"hard_wraps"`
	SafeMode   bool     `yaml:"safe_mode"`
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled                bool          `yaml:"enabled"`
	AutoRegisterDispatcher bool          `yaml:"auto_register_dispatcher"`
	Timeout                time.Duration `yaml:"timeout"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	BasePath        string        `yaml:"base_path"`
	MaxImportBytes  int64         `yaml:"max_import_bytes"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Features toggles module functionality.
type Features struct {
	Logger bool `yaml:"logger"`
	HTTP   bool `yaml:"http"`
	Events bool `yaml:"events"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns an in-memory workspace with commands enabled.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Provider: StorageProviderMemory,
			Driver:   "sqlite",
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Markdown: MarkdownConfig{
			ContentDir: "content",
			Pattern:    "*.md",
			Recursive:  true,
			Parser: MarkdownParserConfig{
				Extensions: []string{"gfm"},
			},
		},
		Commands: CommandsConfig{
			Enabled: true,
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			BasePath:        "/api",
			MaxImportBytes:  10 << 20,
			ShutdownTimeout: 10 * time.Second,
		},
		Features: Features{
			Events: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	switch normalizeProvider(cfg.Storage.Provider) {
	case "", StorageProviderMemory:
	case StorageProviderBun:
		if !isSupportedDriver(cfg.Storage.Driver) {
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}
	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Commands.AutoRegisterDispatcher && !cfg.Commands.Enabled {
		return ErrCommandsDispatcherRequiresCommands
	}
	if cfg.Commands.Timeout < 0 {
		return ErrCommandsTimeoutInvalid
	}
	if pattern := strings.TrimSpace(cfg.Markdown.Pattern); pattern != "" {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("%w: %s", ErrMarkdownPatternInvalid, pattern)
		}
	}
	if cfg.Features.HTTP && strings.TrimSpace(cfg.HTTP.Addr) == "" {
		return ErrHTTPAddrRequired
	}
	if cfg.HTTP.MaxImportBytes < 0 {
		return ErrHTTPMaxImportBytesInvalid
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedDriver(driver string) bool {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3", "postgres", "postgresql", "pgx":
		return true
	default:
		return false
	}
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
