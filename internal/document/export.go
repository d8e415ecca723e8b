package document

import (
	"strings"

	"github.com/goliatone/go-scribe/internal/domain"
	"github.com/goliatone/go-scribe/internal/markdown"
)

// Export is a project rendered as a markdown file.
type Export struct {
	FileName string `json:"fileName"`
	Markdown string `json:"markdown"`
}

// ExportProject renders every break as "# Title" followed by its paragraphs.
// Breaks with unreadable content export as an empty section.
func ExportProject(project *domain.Project) Export {
	if project == nil {
		return Export{FileName: markdown.ExportFileName("")}
	}
	sections := make([]string, 0, len(project.Breaks))
	for _, br := range project.Breaks {
		_, paragraphs, _ := SanitizeContent(br.Content)
		sections = append(sections, markdown.RenderBreak(br.Title, paragraphs))
	}
	return Export{
		FileName: markdown.ExportFileName(project.Title),
		Markdown: strings.Join(sections, "\n"),
	}
}
