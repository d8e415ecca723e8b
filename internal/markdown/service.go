package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-scribe/internal/logging"
	"github.com/goliatone/go-scribe/pkg/interfaces"
)

// Config controls how the Markdown service discovers, parses and renders files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	Parse     interfaces.ParseOptions
}

// Service implements interfaces.MarkdownService for filesystem-backed documents
// and exposes the chapter parser used by imports.
type Service struct {
	cfg      Config
	renderer interfaces.MarkdownRenderer
	parser   *Parser
	loader   *Loader
	logger   interfaces.Logger
}

var _ interfaces.MarkdownService = (*Service)(nil)

// NewService constructs a Markdown service rooted at cfg.BasePath. A nil
// renderer selects goldmark with cfg.Parse.Render defaults.
func NewService(cfg Config, renderer interfaces.MarkdownRenderer, logger interfaces.Logger) (*Service, error) {
	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}
	return NewServiceFS(filesystem, cfg, renderer, logger), nil
}

// NewServiceFS constructs a Markdown service over an arbitrary filesystem.
func NewServiceFS(filesystem fs.FS, cfg Config, renderer interfaces.MarkdownRenderer, logger interfaces.Logger) *Service {
	logger = logging.Ensure(logger)
	if renderer == nil {
		renderer = NewGoldmarkRenderer(cfg.Parse.Render)
	}
	return &Service{
		cfg:      cfg,
		renderer: renderer,
		parser: NewParser(
			WithRenderer(renderer),
			WithLogger(logger),
			WithDefaults(cfg.Parse),
		),
		loader: NewLoader(filesystem, LoaderConfig{
			BasePath:  cfg.BasePath,
			Pattern:   cfg.Pattern,
			Recursive: cfg.Recursive,
		}),
		logger: logger,
	}
}

// Parser returns the chapter parser configured for this service.
func (s *Service) Parser() *Parser {
	return s.parser
}

// Parse splits source into chapters using the service defaults.
func (s *Service) Parse(ctx context.Context, source []byte, opts interfaces.ParseOptions) (*Result, error) {
	return s.parser.Parse(ctx, source, opts)
}

// Load reads a single Markdown document relative to the configured base path.
func (s *Service) Load(ctx context.Context, path string) (*interfaces.Document, error) {
	result, err := s.loader.LoadFile(ctx, normalisePath(path))
	if err != nil {
		return nil, err
	}
	logging.WithImportContext(s.logger, result.Document.FilePath, "").Debug("markdown.loaded")
	return result.Document, nil
}

// LoadDirectory reads every Markdown document within dir.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	results, err := s.loader.LoadDirectory(ctx, normalisePath(dir), LoadParams{
		Pattern:   opts.Pattern,
		Recursive: opts.Recursive,
	})
	if err != nil {
		return nil, err
	}
	docs := make([]*interfaces.Document, 0, len(results))
	for _, result := range results {
		docs = append(docs, result.Document)
	}
	s.logger.Debug("markdown.directory.loaded", "dir", dir, "documents", len(docs))
	return docs, nil
}

// Render converts Markdown into HTML with the configured renderer.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.renderer.RenderWithOptions(markdown, opts)
}

func normalisePath(p string) string {
	if strings.TrimSpace(p) == "" {
		return "."
	}
	return p
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
