package markdown

import (
	"strings"

	"github.com/goliatone/go-scribe/internal/domain"
)

type delimiter struct {
	marker string
	bold   bool
}

// Doubled markers are tried first so "**" is never read as two italics.
var delimiters = [...]delimiter{
	{marker: "**", bold: true},
	{marker: "__", bold: true},
	{marker: "*"},
	{marker: "_"},
}

// FormatParagraph converts one paragraph block into a domain.Paragraph. Leading
// line breaks are skipped, then every two leading spaces or tabs add one indent
// level.
func FormatParagraph(block string) domain.Paragraph {
	indent, body := splitIndent(block)
	return domain.Paragraph{
		Type:     domain.ParagraphType,
		Indent:   indent,
		Children: FormatRuns(body),
	}
}

// FormatRuns splits text into styled runs. Emphasis spans are non-greedy and
// never nest; a span must close on the line it opened. Unmatched markers stay
// in the text. The result always holds at least one run.
func FormatRuns(text string) []domain.Run {
	f := &formatter{text: text, lineEnd: -1}
	return f.scan()
}

func splitIndent(block string) (int, string) {
	i := 0
	for i < len(block) && (block[i] == '\n' || block[i] == '\r') {
		i++
	}
	width := 0
	for i < len(block) && (block[i] == ' ' || block[i] == '\t') {
		i++
		width++
	}
	return width / 2, block[i:]
}

type formatter struct {
	text  string
	runs  []domain.Run
	plain strings.Builder
	// exhausted marks delimiter kinds with no closer left on the current line.
	exhausted [len(delimiters)]bool
	lineEnd   int
}

func (f *formatter) scan() []domain.Run {
	text := f.text
	for i := 0; i < len(text); {
		switch text[i] {
		case '\n':
			f.plain.WriteByte('\n')
			f.exhausted = [len(delimiters)]bool{}
			f.lineEnd = -1
			i++
		case '*', '_':
			i = f.emphasis(i)
		default:
			next := i + 1
			for next < len(text) && !isSpecial(text[next]) {
				next++
			}
			f.plain.WriteString(text[i:next])
			i = next
		}
	}
	f.flush()
	if len(f.runs) == 0 {
		return []domain.Run{{Text: ""}}
	}
	return f.runs
}

// emphasis tries to open a span at i and returns the position to continue from.
func (f *formatter) emphasis(i int) int {
	text := f.text
	for kind, d := range delimiters {
		if !strings.HasPrefix(text[i:], d.marker) {
			continue
		}
		open := i + len(d.marker)
		if f.exhausted[kind] {
			if d.bold {
				f.plain.WriteString(d.marker)
				return open
			}
			continue
		}
		end := f.currentLineEnd(i)
		rel := strings.Index(text[open:end], d.marker)
		if rel < 0 {
			f.exhausted[kind] = true
			if d.bold {
				// a doubled opener only pairs with a doubled closer
				f.plain.WriteString(d.marker)
				return open
			}
			continue
		}
		f.span(text[open:open+rel], d.bold)
		return open + rel + len(d.marker)
	}
	f.plain.WriteByte(text[i])
	return i + 1
}

func (f *formatter) currentLineEnd(i int) int {
	if f.lineEnd < i {
		idx := strings.IndexByte(f.text[i:], '\n')
		if idx < 0 {
			f.lineEnd = len(f.text)
		} else {
			f.lineEnd = i + idx
		}
	}
	return f.lineEnd
}

func (f *formatter) span(content string, bold bool) {
	f.flush()
	if content == "" {
		return
	}
	f.runs = append(f.runs, domain.Run{Text: content, Bold: bold, Italic: !bold})
}

func (f *formatter) flush() {
	if f.plain.Len() == 0 {
		return
	}
	f.runs = append(f.runs, domain.Run{Text: f.plain.String()})
	f.plain.Reset()
}

func isSpecial(c byte) bool {
	return c == '*' || c == '_' || c == '\n'
}
