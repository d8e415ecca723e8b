package document

import (
	"path"
	"strings"

	"github.com/goliatone/go-scribe/internal/domain"
	"github.com/goliatone/go-scribe/internal/identity"
	"github.com/goliatone/go-scribe/internal/markdown"
)

const (
	// DefaultProjectTitle names projects without a usable title.
	DefaultProjectTitle = "Untitled Project"
	// DefaultBreakTitle names breaks added without a title.
	DefaultBreakTitle = "Untitled Break"
	firstBreakTitle   = "Break 1"
)

// Options configures an Assembler.
type Options struct {
	// IDs generates project and break identifiers. Defaults to identity.NewID.
	IDs identity.Generator
}

// Assembler converts chapters into projects and breaks.
type Assembler struct {
	ids identity.Generator
}

// NewAssembler builds an Assembler.
func NewAssembler(opts Options) *Assembler {
	return &Assembler{ids: identity.OrDefault(opts.IDs)}
}

// Assemble converts chapters with a default Assembler.
func Assemble(title string, chapters []domain.Chapter) *domain.Project {
	return NewAssembler(Options{}).Assemble(title, chapters)
}

// Assemble builds a project with one break per chapter. The current break is
// the first one, or nil when chapters is empty. chapters is not modified.
func (a *Assembler) Assemble(title string, chapters []domain.Chapter) *domain.Project {
	project := &domain.Project{
		ID:     a.ids(identity.ProjectPrefix),
		Title:  ProjectTitle(title),
		Breaks: make([]domain.Break, 0, len(chapters)),
	}
	for _, chapter := range chapters {
		project.Breaks = append(project.Breaks, a.BreakFromChapter(chapter))
	}
	if len(project.Breaks) > 0 {
		project.SetCurrentBreak(project.Breaks[0].ID)
	}
	return project
}

// BreakFromChapter converts a chapter into a break. The word count is taken
// from the raw chapter content.
func (a *Assembler) BreakFromChapter(chapter domain.Chapter) domain.Break {
	return domain.Break{
		ID:        a.ids(identity.BreakPrefix),
		Title:     chapter.Title,
		Content:   EncodeContent(Paragraphs(chapter.Content)),
		WordCount: WordCount(chapter.Content),
	}
}

// NewBreak returns an empty break titled title, or DefaultBreakTitle.
func (a *Assembler) NewBreak(title string) domain.Break {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultBreakTitle
	}
	return domain.Break{
		ID:      a.ids(identity.BreakPrefix),
		Title:   title,
		Content: EmptyContent,
	}
}

// EmptyProject returns a project holding a single empty "Break 1".
func (a *Assembler) EmptyProject(title string) *domain.Project {
	first := a.NewBreak(firstBreakTitle)
	project := &domain.Project{
		ID:     a.ids(identity.ProjectPrefix),
		Title:  ProjectTitle(title),
		Breaks: []domain.Break{first},
	}
	project.SetCurrentBreak(first.ID)
	return project
}

// Paragraphs splits content at blank lines and formats every block. Blank
// blocks are skipped; content without any text yields one empty paragraph.
func Paragraphs(content string) []domain.Paragraph {
	blocks := strings.Split(content, "\n\n")
	paragraphs := make([]domain.Paragraph, 0, len(blocks))
	for _, block := range blocks {
		if strings.TrimSpace(block) == "" {
			continue
		}
		paragraphs = append(paragraphs, markdown.FormatParagraph(block))
	}
	if len(paragraphs) == 0 {
		return []domain.Paragraph{domain.EmptyParagraph()}
	}
	return paragraphs
}

// ProjectTitle trims title and falls back to DefaultProjectTitle.
func ProjectTitle(title string) string {
	if trimmed := strings.TrimSpace(title); trimmed != "" {
		return trimmed
	}
	return DefaultProjectTitle
}

// TitleFromFileName strips directories and the extension from name.
func TitleFromFileName(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSpace(strings.TrimSuffix(base, path.Ext(base)))
}
