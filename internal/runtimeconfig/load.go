package runtimeconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces the environment overrides read by Load.
const EnvPrefix = "SCRIBE_"

// ErrEnvValueInvalid reports an environment override that cannot be parsed.
var ErrEnvValueInvalid = errors.New("scribe config: environment value is invalid")

// LoadOption customises Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	envFile string
	lookup  func(string) (string, bool)
}

// WithEnvFile reads overrides from a dotenv file. Process environment values
// win over the file. A missing file is ignored.
func WithEnvFile(path string) LoadOption {
	return func(opts *loadOptions) {
		opts.envFile = strings.TrimSpace(path)
	}
}

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(lookup func(string) (string, bool)) LoadOption {
	return func(opts *loadOptions) {
		if lookup != nil {
			opts.lookup = lookup
		}
	}
}

// Load starts from DefaultConfig, overlays the YAML file at path when one is
// given and exists, applies SCRIBE_* overrides and validates the result.
func Load(path string, opts ...LoadOption) (Config, error) {
	options := loadOptions{envFile: ".env", lookup: os.LookupEnv}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	cfg := DefaultConfig()
	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("scribe config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("scribe config: parse %s: %w", path, err)
			}
		}
	}

	lookup := options.lookup
	if options.envFile != "" {
		values, err := godotenv.Read(options.envFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("scribe config: read %s: %w", options.envFile, err)
		default:
			lookup = withFallback(options.lookup, values)
		}
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func withFallback(primary func(string) (string, bool), values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if value, ok := primary(key); ok {
			return value, true
		}
		value, ok := values[key]
		return value, ok
	}
}

type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *envReader) value(name string) (string, bool) {
	value, ok := r.lookup(EnvPrefix + name)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func (r *envReader) string(name string, target *string) {
	if value, ok := r.value(name); ok {
		*target = value
	}
}

func (r *envReader) list(name string, target *[]string) {
	value, ok := r.value(name)
	if !ok {
		return
	}
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	*target = items
}

func (r *envReader) bool(name string, target *bool) {
	value, ok := r.value(name)
	if !ok || r.err != nil {
		return
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		r.err = fmt.Errorf("%w: %s%s=%q", ErrEnvValueInvalid, EnvPrefix, name, value)
		return
	}
	*target = parsed
}

func (r *envReader) duration(name string, target *time.Duration) {
	value, ok := r.value(name)
	if !ok || r.err != nil {
		return
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		r.err = fmt.Errorf("%w: %s%s=%q", ErrEnvValueInvalid, EnvPrefix, name, value)
		return
	}
	*target = parsed
}

func (r *envReader) int64(name string, target *int64) {
	value, ok := r.value(name)
	if !ok || r.err != nil {
		return
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		r.err = fmt.Errorf("%w: %s%s=%q", ErrEnvValueInvalid, EnvPrefix, name, value)
		return
	}
	*target = parsed
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	r := &envReader{lookup: lookup}

	r.string("STORAGE_PROVIDER", &cfg.Storage.Provider)
	r.string("STORAGE_DRIVER", &cfg.Storage.Driver)
	r.string("STORAGE_DSN", &cfg.Storage.DSN)
	r.bool("CACHE_ENABLED", &cfg.Cache.Enabled)
	r.duration("CACHE_TTL", &cfg.Cache.DefaultTTL)

	r.string("MARKDOWN_CONTENT_DIR", &cfg.Markdown.ContentDir)
	r.string("MARKDOWN_PATTERN", &cfg.Markdown.Pattern)
	r.bool("MARKDOWN_RECURSIVE", &cfg.Markdown.Recursive)
	r.bool("MARKDOWN_SETEXT", &cfg.Markdown.Setext)
	r.bool("MARKDOWN_SAFE_MODE", &cfg.Markdown.Parser.SafeMode)

	r.bool("COMMANDS_ENABLED", &cfg.Commands.Enabled)
	r.bool("COMMANDS_DISPATCHER", &cfg.Commands.AutoRegisterDispatcher)
	r.duration("COMMANDS_TIMEOUT", &cfg.Commands.Timeout)

	r.string("HTTP_ADDR", &cfg.HTTP.Addr)
	r.string("HTTP_BASE_PATH", &cfg.HTTP.BasePath)
	r.int64("HTTP_MAX_IMPORT_BYTES", &cfg.HTTP.MaxImportBytes)
	r.bool("HTTP_ENABLED", &cfg.Features.HTTP)
	r.bool("EVENTS_ENABLED", &cfg.Features.Events)

	r.bool("LOGGER", &cfg.Features.Logger)
	r.string("LOG_PROVIDER", &cfg.Logging.Provider)
	r.string("LOG_LEVEL", &cfg.Logging.Level)
	r.string("LOG_FORMAT", &cfg.Logging.Format)
	r.bool("LOG_ADD_SOURCE", &cfg.Logging.AddSource)
	r.list("LOG_FOCUS", &cfg.Logging.Focus)

	return r.err
}
