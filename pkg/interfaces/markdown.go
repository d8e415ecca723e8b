package interfaces

import (
	"context"
	"time"
)

// MarkdownRenderer converts Markdown into HTML. It backs the import preview
// and never influences how chapters are split.
type MarkdownRenderer interface {
	// Render converts Markdown into HTML using the renderer's defaults.
	Render(markdown []byte) ([]byte, error)
	// RenderWithOptions converts Markdown into HTML using the supplied overrides.
	RenderWithOptions(markdown []byte, opts RenderOptions) ([]byte, error)
}

// RenderOptions customises HTML rendering. Option names stay readable for
// configuration unmarshalling and CLI flags.
type RenderOptions struct {
	Extensions []string `yaml:"extensions" json:"extensions"`
	HardWraps  bool     `yaml:"hard_wraps" json:"hard_wraps"`
	// SafeMode suppresses raw HTML passthrough.
	SafeMode bool `yaml:"safe_mode" json:"safe_mode"`
}

// ParseOptions controls a single markdown parse.
type ParseOptions struct {
	// Setext enables "Title\n=====" headings in addition to ATX headings.
	Setext bool
	// Preview renders an HTML preview alongside the chapters.
	Preview bool
	Render  RenderOptions
}

// MarkdownService loads markdown sources from disk and parses them into chapters.
type MarkdownService interface {
	Load(ctx context.Context, path string) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts RenderOptions) ([]byte, error)
}

// Document represents a Markdown file with parsed metadata and content.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	LastModified time.Time
	// Checksum stores the SHA-256 digest of the original file content.
	Checksum []byte
}

// FrontMatter models metadata extracted from Markdown files. Unknown keys land
// in Custom.
type FrontMatter struct {
	Title   string         `yaml:"title" json:"title"`
	Author  string         `yaml:"author" json:"author"`
	Summary string         `yaml:"summary" json:"summary"`
	Tags    []string       `yaml:"tags" json:"tags"`
	Date    time.Time      `yaml:"date" json:"date"`
	Custom  map[string]any `yaml:",inline" json:"custom"`
	Raw     map[string]any `yaml:"-" json:"raw"`
}

// LoadOptions fine-tunes how documents are discovered on disk.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
}

// ImportOptions controls how markdown documents become projects.
type ImportOptions struct {
	// Select makes the last imported project the current one.
	Select bool
	// DryRun parses and assembles without persisting.
	DryRun bool
	Parse  ParseOptions
}

// ImportResult reports the outcome of a batch import.
type ImportResult struct {
	ProjectIDs []string
	Skipped    []string
	Errors     []error
}
