package scribe_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-scribe"
)

func TestConfigValidateDispatcherRequiresCommands(t *testing.T) {
	cfg := scribe.DefaultConfig()
	cfg.Commands.Enabled = false
	cfg.Commands.AutoRegisterDispatcher = true

	if err := cfg.Validate(); !errors.Is(err, scribe.ErrCommandsDispatcherRequiresCommands) {
		t.Fatalf("expected ErrCommandsDispatcherRequiresCommands, got %v", err)
	}
}

func TestConfigValidateBunRequiresDSN(t *testing.T) {
	cfg := scribe.DefaultConfig()
	cfg.Storage.Provider = "bun"

	if err := cfg.Validate(); !errors.Is(err, scribe.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}
}

func TestConfigValidateLoggingProviderUnknown(t *testing.T) {
	cfg := scribe.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "invalid"

	if err := cfg.Validate(); !errors.Is(err, scribe.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestLoadConfigAppliesFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scribe.yaml")
	if err := os.WriteFile(path, []byte("http:\n  addr: \":9000\"\nmarkdown:\n  setext: true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := scribe.LoadConfig(path,
		scribe.WithEnvFile(""),
		scribe.WithLookupEnv(func(key string) (string, bool) {
			if key == "SCRIBE_HTTP_ADDR" {
				return ":9100", true
			}
			return "", false
		}),
	)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.HTTP.Addr != ":9100" {
		t.Fatalf("expected environment override, got %q", cfg.HTTP.Addr)
	}
	if !cfg.Markdown.Setext {
		t.Fatal("expected setext from the config file")
	}
}

func TestLoadConfigRejectsInvalidEnvironment(t *testing.T) {
	_, err := scribe.LoadConfig("",
		scribe.WithEnvFile(""),
		scribe.WithLookupEnv(func(key string) (string, bool) {
			if key == "SCRIBE_COMMANDS_ENABLED" {
				return "maybe", true
			}
			return "", false
		}),
	)
	if !errors.Is(err, scribe.ErrEnvValueInvalid) {
		t.Fatalf("expected ErrEnvValueInvalid, got %v", err)
	}
}
