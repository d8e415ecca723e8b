package markdown

import (
	"bytes"
	"context"
	"errors"
	"html"
	"io"
	"strings"
	"unicode/utf8"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-scribe/internal/domain"
	"github.com/goliatone/go-scribe/internal/logging"
	"github.com/goliatone/go-scribe/pkg/interfaces"
)

const invalidInputCode = "MARKDOWN_INVALID_INPUT"

// ErrInvalidInput reports a source that is not text.
var ErrInvalidInput = errors.New("markdown: input is not text")

// Result is the output of a parse: ordered chapters, the frontmatter found in
// the source and, when requested, an HTML preview.
type Result struct {
	Chapters    []domain.Chapter       `json:"chapters"`
	FrontMatter interfaces.FrontMatter `json:"frontMatter"`
	HTML        string                 `json:"html,omitempty"`
}

// Parser turns markdown sources into chapters.
type Parser struct {
	renderer interfaces.MarkdownRenderer
	logger   interfaces.Logger
	defaults interfaces.ParseOptions
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithRenderer overrides the HTML renderer used for previews.
func WithRenderer(renderer interfaces.MarkdownRenderer) ParserOption {
	return func(p *Parser) {
		if renderer != nil {
			p.renderer = renderer
		}
	}
}

// WithLogger sets the parser logger.
func WithLogger(logger interfaces.Logger) ParserOption {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithDefaults sets options applied to every parse. Per-call options can only
// switch features on.
func WithDefaults(opts interfaces.ParseOptions) ParserOption {
	return func(p *Parser) {
		p.defaults = opts
	}
}

// NewParser builds a Parser backed by goldmark for previews.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.renderer == nil {
		p.renderer = NewGoldmarkRenderer(p.defaults.Render)
	}
	return p
}

// Parse splits source into chapters with default options.
func Parse(source []byte) (*Result, error) {
	return NewParser().Parse(context.Background(), source, interfaces.ParseOptions{})
}

// ParseReader reads the whole reader and parses it. A nil reader is invalid input.
func (p *Parser) ParseReader(ctx context.Context, r io.Reader, opts interfaces.ParseOptions) (*Result, error) {
	if r == nil {
		return nil, invalidInput("reader is nil")
	}
	source, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return p.Parse(ctx, source, opts)
}

// Parse validates source, strips frontmatter and splits the body into chapters.
// Empty input yields a single empty DefaultChapterTitle chapter.
func (p *Parser) Parse(ctx context.Context, source []byte, opts interfaces.ParseOptions) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateSource(source); err != nil {
		return nil, err
	}
	opts = p.mergeOptions(opts)
	logger := p.logger.WithContext(ctx)

	fm, body := p.splitFrontMatter(logger, source)
	chapters := SplitChapters(string(body), SplitOptions{Setext: opts.Setext})

	result := &Result{
		Chapters:    chapters,
		FrontMatter: fm,
	}
	if opts.Preview {
		preview, err := p.preview(chapters, opts.Render)
		if err != nil {
			return nil, err
		}
		result.HTML = preview
	}

	logger.Debug("markdown.parsed",
		"chapters", len(chapters),
		"bytes", len(source),
		"preview", opts.Preview,
	)
	return result, nil
}

// ValidateSource rejects sources that are not valid UTF-8 or contain NUL bytes.
func ValidateSource(source []byte) error {
	if !utf8.Valid(source) {
		return invalidInput("source is not valid UTF-8")
	}
	if bytes.IndexByte(source, 0) >= 0 {
		return invalidInput("source contains NUL bytes")
	}
	return nil
}

// HasFrontMatter reports whether source opens with a YAML ("---") or TOML
// ("+++") frontmatter delimiter line.
func HasFrontMatter(source []byte) bool {
	line, _, _ := bytes.Cut(source, []byte("\n"))
	line = bytes.TrimRight(line, " \t\r")
	return bytes.Equal(line, []byte("---")) || bytes.Equal(line, []byte("+++"))
}

func invalidInput(reason string) error {
	return goerrors.Wrap(ErrInvalidInput, goerrors.CategoryValidation, "markdown: "+reason).
		WithTextCode(invalidInputCode)
}

func (p *Parser) splitFrontMatter(logger interfaces.Logger, source []byte) (interfaces.FrontMatter, []byte) {
	if !HasFrontMatter(source) {
		return interfaces.FrontMatter{}, source
	}
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		logger.Warn("markdown.frontmatter.ignored", "error", err)
		return interfaces.FrontMatter{}, source
	}
	return fm, body
}

// preview renders every chapter as an h1 title followed by its HTML body.
func (p *Parser) preview(chapters []domain.Chapter, opts interfaces.RenderOptions) (string, error) {
	var out strings.Builder
	for _, chapter := range chapters {
		out.WriteString(`<h1 id="`)
		out.WriteString(html.EscapeString(chapter.ID))
		out.WriteString(`" class="chapter-title">`)
		out.WriteString(html.EscapeString(chapter.Title))
		out.WriteString("</h1>\n")
		if chapter.Content == "" {
			continue
		}
		rendered, err := p.renderer.RenderWithOptions([]byte(chapter.Content), opts)
		if err != nil {
			return "", err
		}
		out.Write(rendered)
	}
	return out.String(), nil
}

func (p *Parser) mergeOptions(opts interfaces.ParseOptions) interfaces.ParseOptions {
	merged := opts
	merged.Setext = opts.Setext || p.defaults.Setext
	merged.Preview = opts.Preview || p.defaults.Preview
	merged.Render = mergeRenderOptions(p.defaults.Render, opts.Render)
	return merged
}
