package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-scribe/pkg/interfaces"
)

// GoldmarkRenderer implements interfaces.MarkdownRenderer using goldmark. It
// holds no state besides its defaults and is safe for concurrent use.
type GoldmarkRenderer struct {
	defaults interfaces.RenderOptions
	engine   goldmark.Markdown
}

var _ interfaces.MarkdownRenderer = (*GoldmarkRenderer)(nil)

// NewGoldmarkRenderer constructs a renderer. Without extensions it enables GFM,
// linkify and task lists.
func NewGoldmarkRenderer(defaults interfaces.RenderOptions) *GoldmarkRenderer {
	return &GoldmarkRenderer{
		defaults: defaults,
		engine:   newGoldmarkEngine(defaults),
	}
}

// Render converts Markdown into HTML with the renderer defaults.
func (r *GoldmarkRenderer) Render(markdown []byte) ([]byte, error) {
	return convert(r.engine, markdown)
}

// RenderWithOptions converts Markdown into HTML merging opts over the defaults.
func (r *GoldmarkRenderer) RenderWithOptions(markdown []byte, opts interfaces.RenderOptions) ([]byte, error) {
	merged := mergeRenderOptions(r.defaults, opts)
	if sameRenderOptions(merged, r.defaults) {
		return convert(r.engine, markdown)
	}
	return convert(newGoldmarkEngine(merged), markdown)
}

func convert(engine goldmark.Markdown, markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

func newGoldmarkEngine(opts interfaces.RenderOptions) goldmark.Markdown {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	if exts := collectExtensions(opts.Extensions); len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}
	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// collectExtensions resolves extension names. Unknown names are ignored.
func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := seen[key]; ok || key == "" {
			continue
		}
		if ext, ok := extensionRegistry[key]; ok {
			extenders = append(extenders, ext)
			seen[key] = struct{}{}
		}
	}
	return extenders
}

func mergeRenderOptions(base, override interfaces.RenderOptions) interfaces.RenderOptions {
	result := base
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	if override.HardWraps {
		result.HardWraps = true
	}
	if override.SafeMode {
		result.SafeMode = true
	}
	return result
}

func sameRenderOptions(a, b interfaces.RenderOptions) bool {
	if a.HardWraps != b.HardWraps || a.SafeMode != b.SafeMode || len(a.Extensions) != len(b.Extensions) {
		return false
	}
	for i := range a.Extensions {
		if a.Extensions[i] != b.Extensions[i] {
			return false
		}
	}
	return true
}
