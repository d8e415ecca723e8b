package markdown

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-scribe/internal/domain"
)

const (
	// DefaultChapterTitle names the single chapter produced for input without headings.
	DefaultChapterTitle = "Main Content"

	untitledChapterPrefix = "Untitled Chapter "
	chapterIDPrefix       = "chapter-"
)

// SplitOptions tunes heading detection.
type SplitOptions struct {
	// Setext enables "Title" lines underlined with "=" as headings. ATX headings
	// are always recognised and win over Setext underlines.
	Setext bool
}

// SplitChapters splits text into chapters at heading boundaries. The result is
// never empty: text without headings becomes a single DefaultChapterTitle
// chapter holding the trimmed input.
func SplitChapters(text string, opts SplitOptions) []domain.Chapter {
	s := &splitter{
		text: normalizeNewlines(text),
		opts: opts,
	}
	return s.run()
}

type section struct {
	title   string
	heading bool
	start   int
}

type splitter struct {
	text     string
	opts     SplitOptions
	chapters []domain.Chapter
	headings int
}

func (s *splitter) run() []domain.Chapter {
	text := s.text
	current := section{}
	fence := ""

	for start := 0; start < len(text); {
		line, next := lineAt(text, start)

		if fence != "" {
			if strings.HasPrefix(strings.TrimLeft(line, " "), fence) {
				fence = ""
			}
			start = next
			continue
		}
		if marker := fenceMarker(line); marker != "" {
			fence = marker
			start = next
			continue
		}

		if title, ok := atxHeading(line); ok {
			s.close(current, start)
			current = section{title: title, heading: true, start: next}
			start = next
			continue
		}

		if s.opts.Setext && next < len(text) && isSetextTitle(line) {
			underline, after := lineAt(text, next)
			if isSetextUnderline(underline) {
				s.close(current, start)
				current = section{title: strings.TrimSpace(line), heading: true, start: after}
				start = after
				continue
			}
		}

		start = next
	}
	s.close(current, len(text))

	if s.headings == 0 {
		return []domain.Chapter{{
			ID:      chapterIDPrefix + "1",
			Title:   DefaultChapterTitle,
			Content: strings.TrimSpace(text),
		}}
	}
	return s.chapters
}

// close pushes the section ending at end. Leading text without a heading is
// only kept when it has content.
func (s *splitter) close(sec section, end int) {
	if sec.heading {
		s.headings++
	}
	if sec.start > end {
		sec.start = end
	}
	content := strings.TrimSpace(s.text[sec.start:end])
	if !sec.heading && content == "" {
		return
	}

	position := len(s.chapters) + 1
	title := sec.title
	if title == "" {
		title = untitledChapterPrefix + strconv.Itoa(position)
	}
	s.chapters = append(s.chapters, domain.Chapter{
		ID:      chapterIDPrefix + strconv.Itoa(position),
		Title:   title,
		Content: content,
	})
}

func lineAt(text string, start int) (string, int) {
	idx := strings.IndexByte(text[start:], '\n')
	if idx < 0 {
		return text[start:], len(text)
	}
	return text[start : start+idx], start + idx + 1
}

// atxHeading reports whether line is an ATX heading ("#", "## Title", ...) and
// returns its text.
func atxHeading(line string) (string, bool) {
	if line == "" || line[0] != '#' {
		return "", false
	}
	i := 0
	for i < len(line) && line[i] == '#' {
		i++
	}
	if i < len(line) && line[i] != ' ' && line[i] != '\t' {
		return "", false
	}
	return stripClosingHashes(strings.TrimSpace(line[i:])), true
}

// stripClosingHashes drops an optional closing "#" sequence. The sequence must
// be preceded by whitespace or make up the whole title.
func stripClosingHashes(title string) string {
	trimmed := strings.TrimRight(title, "#")
	if trimmed == title {
		return title
	}
	if trimmed == "" {
		return ""
	}
	last := trimmed[len(trimmed)-1]
	if last != ' ' && last != '\t' {
		return title
	}
	return strings.TrimSpace(trimmed)
}

// isSetextTitle reports whether line can carry a Setext title. Only the line
// directly above the underline becomes the title, so lines before it stay in
// the previous chapter.
func isSetextTitle(line string) bool {
	return strings.TrimSpace(line) != "" && !isSetextUnderline(line)
}

func isSetextUnderline(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed != "" && strings.Trim(trimmed, "=") == ""
}

func fenceMarker(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	switch {
	case strings.HasPrefix(trimmed, "```"):
		return "```"
	case strings.HasPrefix(trimmed, "~~~"):
		return "~~~"
	default:
		return ""
	}
}

func normalizeNewlines(text string) string {
	if strings.IndexByte(text, '\r') < 0 {
		return text
	}
	return strings.ReplaceAll(text, "\r\n", "\n")
}
