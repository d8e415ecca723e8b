package markdown

import (
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-scribe/internal/domain"
)

const (
	exportExtension    = ".md"
	exportFallbackName = "untitled-project"
)

// RenderRuns writes runs back as markdown, wrapping bold text in "**" and
// italic text in "*".
func RenderRuns(runs []domain.Run) string {
	var out strings.Builder
	for _, run := range runs {
		if run.Text == "" {
			continue
		}
		marker := ""
		switch {
		case run.Bold && run.Italic:
			marker = "***"
		case run.Bold:
			marker = "**"
		case run.Italic:
			marker = "*"
		}
		out.WriteString(marker)
		out.WriteString(run.Text)
		out.WriteString(marker)
	}
	return out.String()
}

// RenderParagraphs is the inverse of the import formatter: each paragraph is
// prefixed with two spaces per indent level and paragraphs are separated by a
// blank line.
func RenderParagraphs(paragraphs []domain.Paragraph) string {
	blocks := make([]string, 0, len(paragraphs))
	for _, paragraph := range paragraphs {
		text := RenderRuns(paragraph.Children)
		if paragraph.Indent > 0 && text != "" {
			text = strings.Repeat("  ", paragraph.Indent) + text
		}
		blocks = append(blocks, text)
	}
	return strings.TrimRight(strings.Join(blocks, "\n\n"), "\n")
}

// RenderBreak renders a break as an ATX heading followed by its paragraphs.
func RenderBreak(title string, paragraphs []domain.Paragraph) string {
	heading := "# " + strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	body := RenderParagraphs(paragraphs)
	if strings.TrimSpace(body) == "" {
		return heading + "\n"
	}
	return heading + "\n\n" + body + "\n"
}

// ExportFileName returns the slug of title with a ".md" extension.
func ExportFileName(title string) string {
	name, err := slug.Normalize(title)
	if err != nil || strings.TrimSpace(name) == "" {
		name = exportFallbackName
	}
	return name + exportExtension
}
