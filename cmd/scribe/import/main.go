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

	"github.com/goliatone/go-scribe/cmd/scribe/internal/bootstrap"
	workspacecmd "github.com/goliatone/go-scribe/internal/commands/workspace"
)

var (
	moduleBuilder           = bootstrap.BuildModule
	stdin         io.Reader = os.Stdin
	stdout        io.Writer = os.Stdout
)

func main() {
	if err := runImport(os.Args[1:]); err != nil {
		log.Fatalf("scribe import: %v", err)
	}
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("scribe-import", flag.ExitOnError)
	var opts bootstrap.Options
	bootstrap.RegisterFlags(fs, &opts)
	name := fs.String("name", "", "File name used as the title fallback (defaults to the file argument)")
	directory := fs.String("directory", "", "Import every markdown file under this directory, relative to -content-dir")
	contentDir := fs.String("content-dir", ".", "Content root used with -directory")
	selectLast := fs.Bool("select", false, "Select the last imported project when importing a directory")
	setext := fs.Bool("setext", false, "Treat '=' underlined lines as chapter headings")
	dryRun := fs.Bool("dry-run", false, "Parse and assemble without persisting")

	if err := fs.Parse(args); err != nil {
		return err
	}
	opts.Setext = *setext
	if *directory != "" {
		opts.ContentDir = *contentDir
	}

	if *directory == "" && fs.NArg() != 1 {
		return errors.New("expected one markdown file argument (use - for stdin) or -directory")
	}

	module, err := moduleBuilder(opts)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	ctx := context.Background()
	result := &workspacecmd.Result{}

	if *directory != "" {
		cmd := workspacecmd.ImportDirectoryCommand{
			Directory: *directory,
			Select:    *selectLast,
			DryRun:    *dryRun,
			Setext:    *setext,
			Result:    result,
		}
		if err := module.Commands.ImportDirectory.Execute(ctx, cmd); err != nil {
			return fmt.Errorf("execute import command: %w", err)
		}
		if result.Import != nil {
			fmt.Fprintf(stdout, "imported %d projects, skipped %d\n", len(result.Import.ProjectIDs), len(result.Import.Skipped))
		}
		return nil
	}

	path := fs.Arg(0)
	source, err := readSource(path)
	if err != nil {
		return err
	}
	if *name == "" && path != "-" {
		*name = filepath.Base(path)
	}

	cmd := workspacecmd.ImportProjectCommand{
		Name:   *name,
		Source: source,
		Setext: *setext,
		DryRun: *dryRun,
		Result: result,
	}
	if err := module.Commands.ImportProject.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute import command: %w", err)
	}

	project := result.Project
	verb := "imported"
	if *dryRun {
		verb = "parsed"
	}
	fmt.Fprintf(stdout, "%s project %s %q with %d breaks (%d words)\n",
		verb, project.ID, project.Title, len(project.Breaks), project.WordCount())
	return nil
}

func readSource(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
