package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/goliatone/go-scribe"
	"github.com/goliatone/go-scribe/cmd/scribe/internal/bootstrap"
	"github.com/goliatone/go-scribe/internal/document"
)

var (
	moduleBuilder           = bootstrap.BuildModule
	stdin         io.Reader = os.Stdin
	stdout        io.Writer = os.Stdout
)

func main() {
	if err := runPreview(os.Args[1:]); err != nil {
		log.Fatalf("scribe preview: %v", err)
	}
}

func runPreview(args []string) error {
	fs := flag.NewFlagSet("scribe-preview", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a YAML config file")
	setext := fs.Bool("setext", false, "Treat '=' underlined lines as chapter headings")
	renderHTML := fs.Bool("html", false, "Render the chapters as HTML")
	asJSON := fs.Bool("json", false, "Print the parse result as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("expected one markdown file argument (use - for stdin)")
	}

	source, err := readSource(fs.Arg(0))
	if err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ConfigPath: *configPath,
		Setext:     *setext,
		Memory:     true,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	result, err := module.Module.Parse(context.Background(), source, scribe.ParseOptions{
		Setext:  *setext,
		Preview: *renderHTML,
	})
	if err != nil {
		return fmt.Errorf("parse markdown: %w", err)
	}

	if *asJSON {
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	if title := result.FrontMatter.Title; title != "" {
		fmt.Fprintf(stdout, "Title: %s\n", title)
	}
	fmt.Fprintf(stdout, "Chapters: %d\n\n", len(result.Chapters))
	for i, chapter := range result.Chapters {
		fmt.Fprintf(stdout, "%2d. %s (%d words)\n", i+1, chapter.Title, document.WordCount(chapter.Content))
	}
	if *renderHTML {
		fmt.Fprintf(stdout, "\nRendered HTML:\n%s\n", result.HTML)
	}
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
