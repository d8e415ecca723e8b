package bootstrap

import (
	"context"
	"flag"
	"fmt"
	"testing"
	"time"
)

func TestConfigAppliesFlags(t *testing.T) {
	cfg, err := Config(Options{
		Driver:     "postgres",
		DSN:        "postgres://localhost/scribe",
		ContentDir: "drafts",
		Setext:     true,
		Verbose:    true,
	})
	if err != nil {
		t.Fatalf("Config returned error: %v", err)
	}
	if cfg.Storage.Provider != "bun" || cfg.Storage.Driver != "postgres" {
		t.Fatalf("unexpected storage config %+v", cfg.Storage)
	}
	if cfg.Markdown.ContentDir != "drafts" || !cfg.Markdown.Setext {
		t.Fatalf("unexpected markdown config %+v", cfg.Markdown)
	}
	if !cfg.Features.Logger || cfg.Logging.Level != "debug" {
		t.Fatalf("expected debug logging, got %+v", cfg.Logging)
	}
}

func TestConfigMemoryWinsOverDSN(t *testing.T) {
	cfg, err := Config(Options{DSN: DefaultDSN, Memory: true})
	if err != nil {
		t.Fatalf("Config returned error: %v", err)
	}
	if cfg.Storage.Provider != "memory" {
		t.Fatalf("expected memory provider, got %q", cfg.Storage.Provider)
	}
}

func TestRegisterFlagsDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var opts Options
	RegisterFlags(fs, &opts)
	if err := fs.Parse([]string{"-dsn", ""}); err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if opts.Driver != "sqlite" || opts.DSN != "" {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestBuildModuleWithSQLite(t *testing.T) {
	dsn := fmt.Sprintf("file:bootstrap_%d?mode=memory&cache=shared", time.Now().UnixNano())
	module, err := BuildModule(Options{DSN: dsn})
	if err != nil {
		t.Fatalf("BuildModule returned error: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })

	if module.Commands == nil || module.Logger == nil {
		t.Fatalf("expected commands and logger, got %+v", module)
	}
	if _, err := module.Module.Workspace().CreateProject(context.Background(), "CLI"); err != nil {
		t.Fatalf("CreateProject returned error: %v", err)
	}
}
