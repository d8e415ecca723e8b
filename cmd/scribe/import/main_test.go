package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-scribe/cmd/scribe/internal/bootstrap"
	"github.com/goliatone/go-scribe/internal/markdown"
)

type capture struct {
	// keeper holds the shared in-memory database open across runs
	keeper *bootstrap.Module
	opts   bootstrap.Options
}

func withModule(t *testing.T) *capture {
	t.Helper()
	original := moduleBuilder
	originalOut := stdout
	t.Cleanup(func() {
		moduleBuilder = original
		stdout = originalOut
	})

	dsn := fmt.Sprintf("file:import_cli_%d?mode=memory&cache=shared", time.Now().UnixNano())
	keeper, err := bootstrap.BuildModule(bootstrap.Options{DSN: dsn})
	if err != nil {
		t.Fatalf("BuildModule returned error: %v", err)
	}
	t.Cleanup(func() { _ = keeper.Close() })

	c := &capture{keeper: keeper}
	moduleBuilder = func(opts bootstrap.Options) (*bootstrap.Module, error) {
		c.opts = opts
		opts.DSN = dsn
		opts.ConfigPath = ""
		return bootstrap.BuildModule(opts)
	}
	return c
}

func TestRunImportFile(t *testing.T) {
	c := withModule(t)
	var out bytes.Buffer
	stdout = &out

	path := filepath.Join(t.TempDir(), "story.md")
	if err := os.WriteFile(path, []byte("# One\n\nfirst words here\n\n# Two\n\nmore"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	if err := runImport([]string{path}); err != nil {
		t.Fatalf("runImport returned error: %v", err)
	}
	if !strings.Contains(out.String(), `"story" with 2 breaks (4 words)`) {
		t.Fatalf("unexpected output %q", out.String())
	}

	projects, err := c.keeper.Module.Workspace().ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects returned error: %v", err)
	}
	if len(projects) != 1 || projects[0].Title != "story" {
		t.Fatalf("expected imported project, got %+v", projects)
	}
}

func TestRunImportStdinDryRun(t *testing.T) {
	c := withModule(t)
	var out bytes.Buffer
	stdout = &out
	originalIn := stdin
	defer func() { stdin = originalIn }()
	stdin = strings.NewReader("Title\n=====\n\nbody text")

	if err := runImport([]string{"-dry-run", "-setext", "-name", "piped.md", "-"}); err != nil {
		t.Fatalf("runImport returned error: %v", err)
	}
	if !c.opts.Setext {
		t.Fatal("expected setext to reach the bootstrap options")
	}
	if !strings.HasPrefix(out.String(), "parsed project") {
		t.Fatalf("unexpected output %q", out.String())
	}

	projects, err := c.keeper.Module.Workspace().ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects returned error: %v", err)
	}
	if len(projects) != 0 {
		t.Fatalf("expected dry run to persist nothing, got %d projects", len(projects))
	}
}

func TestRunImportRejectsBinary(t *testing.T) {
	withModule(t)
	stdout = &bytes.Buffer{}

	path := filepath.Join(t.TempDir(), "blob.md")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 0x00}, 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	if err := runImport([]string{path}); !errors.Is(err, markdown.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRunImportDirectory(t *testing.T) {
	c := withModule(t)
	var out bytes.Buffer
	stdout = &out

	root := t.TempDir()
	drafts := filepath.Join(root, "drafts")
	if err := os.MkdirAll(drafts, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for name, body := range map[string]string{"a.md": "# A\n\none", "b.md": "# B\n\ntwo"} {
		if err := os.WriteFile(filepath.Join(drafts, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if err := runImport([]string{"-content-dir", root, "-directory", "drafts", "-select"}); err != nil {
		t.Fatalf("runImport returned error: %v", err)
	}
	if c.opts.ContentDir != root {
		t.Fatalf("expected content dir %s, got %s", root, c.opts.ContentDir)
	}
	if !strings.Contains(out.String(), "imported 2 projects") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunImportRequiresSource(t *testing.T) {
	withModule(t)
	if err := runImport(nil); err == nil {
		t.Fatal("expected missing argument error")
	}
}
