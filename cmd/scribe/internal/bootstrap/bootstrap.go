package bootstrap

import (
	"flag"
	"fmt"
	"strings"

	"github.com/goliatone/go-scribe"
	workspacecmd "github.com/goliatone/go-scribe/internal/commands/workspace"
	"github.com/goliatone/go-scribe/internal/di"
	"github.com/goliatone/go-scribe/internal/logging"
	"github.com/goliatone/go-scribe/pkg/interfaces"
)

// DefaultDSN is the sqlite database shared by the scribe CLIs.
const DefaultDSN = "file:scribe.db?_busy_timeout=5000"

// Options captures configuration for scribe CLI bootstraps.
type Options struct {
	// ConfigPath points at an optional YAML config file.
	ConfigPath string
	// Driver and DSN select the bun store. An empty DSN keeps the
	// configured provider.
	Driver     string
	DSN        string
	ContentDir string
	Setext     bool
	Verbose    bool
	// Memory forces the in-memory store, for commands that never persist.
	Memory         bool
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the scribe module with the command handlers and logger used by the CLIs.
type Module struct {
	Module   *scribe.Module
	Commands *workspacecmd.HandlerSet
	Logger   interfaces.Logger
}

// Close releases the underlying module.
func (m *Module) Close() error {
	if m == nil || m.Module == nil {
		return nil
	}
	return m.Module.Close()
}

// RegisterFlags binds the shared storage flags onto fs.
func RegisterFlags(fs *flag.FlagSet, opts *Options) {
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to a YAML config file")
	fs.StringVar(&opts.Driver, "driver", "sqlite", "Database driver for the workspace store (sqlite or postgres)")
	fs.StringVar(&opts.DSN, "dsn", DefaultDSN, "Database DSN for the workspace store (empty keeps the configured store)")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Enable debug logging")
}

// Config resolves the runtime configuration for opts.
func Config(opts Options) (scribe.Config, error) {
	cfg, err := scribe.LoadConfig(strings.TrimSpace(opts.ConfigPath))
	if err != nil {
		return scribe.Config{}, fmt.Errorf("load config: %w", err)
	}

	switch {
	case opts.Memory:
		cfg.Storage.Provider = "memory"
	case strings.TrimSpace(opts.DSN) != "":
		cfg.Storage.Provider = "bun"
		cfg.Storage.DSN = strings.TrimSpace(opts.DSN)
		if driver := strings.TrimSpace(opts.Driver); driver != "" {
			cfg.Storage.Driver = driver
		}
	}
	if dir := strings.TrimSpace(opts.ContentDir); dir != "" {
		cfg.Markdown.ContentDir = dir
	}
	if opts.Setext {
		cfg.Markdown.Setext = true
	}
	if opts.Verbose {
		cfg.Features.Logger = true
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// BuildModule constructs a scribe module configured for CLI operations.
func BuildModule(opts Options) (*Module, error) {
	cfg, err := Config(opts)
	if err != nil {
		return nil, err
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := scribe.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise scribe module: %w", err)
	}

	return &Module{
		Module:   module,
		Commands: module.Commands(),
		Logger:   logging.ModuleLogger(module.Container().LoggerProvider(), "scribe.cli"),
	}, nil
}
