package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/goliatone/go-scribe/cmd/scribe/internal/bootstrap"
)

var (
	moduleBuilder           = bootstrap.BuildModule
	copyToClipboard         = clipboard.WriteAll
	stdout        io.Writer = os.Stdout
)

func main() {
	if err := runExport(os.Args[1:]); err != nil {
		log.Fatalf("scribe export: %v", err)
	}
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("scribe-export", flag.ExitOnError)
	var opts bootstrap.Options
	bootstrap.RegisterFlags(fs, &opts)
	projectID := fs.String("project", "", "Project ID to export (defaults to the current project)")
	format := fs.String("format", "md", "Export format: md or json")
	out := fs.String("out", "", "Output file, - for stdout (defaults to the project file name in the working directory)")
	toClipboard := fs.Bool("clipboard", false, "Copy the export to the system clipboard instead of writing a file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(opts)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	ctx := context.Background()
	ws := module.Module.Workspace()

	id := strings.TrimSpace(*projectID)
	if id == "" {
		current, err := ws.CurrentProject(ctx)
		if err != nil {
			return fmt.Errorf("resolve current project: %w", err)
		}
		id = current.ID
	}

	export, err := ws.ExportProject(ctx, id)
	if err != nil {
		return fmt.Errorf("export project %s: %w", id, err)
	}

	name, body := export.FileName, []byte(export.Markdown)
	switch strings.ToLower(strings.TrimSpace(*format)) {
	case "", "md", "markdown":
	case "json":
		body, err = ws.ExportProjectJSON(ctx, id)
		if err != nil {
			return fmt.Errorf("export project %s: %w", id, err)
		}
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".json"
	default:
		return fmt.Errorf("unsupported format %q", *format)
	}

	if *toClipboard {
		if len(body) == 0 {
			return errors.New("nothing to copy")
		}
		if err := copyToClipboard(string(body)); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		module.Logger.Info("export.clipboard", "project_id", id, "bytes", len(body))
		fmt.Fprintf(stdout, "copied %s to the clipboard\n", name)
		return nil
	}

	target := strings.TrimSpace(*out)
	if target == "-" {
		_, err := stdout.Write(body)
		return err
	}
	if target == "" {
		target = name
	}
	if err := os.WriteFile(target, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	module.Logger.Info("export.written", "project_id", id, "path", target, "bytes", len(body))
	fmt.Fprintf(stdout, "wrote %s\n", target)
	return nil
}
