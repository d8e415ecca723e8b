package domain

import (
	"errors"
	"fmt"
)

// ParagraphType is the only block type produced by the import pipeline.
const ParagraphType = "paragraph"

// ErrCurrentBreakInvalid reports a project whose current break pointer does not
// reference one of its breaks.
var ErrCurrentBreakInvalid = errors.New("scribe domain: current break does not reference a project break")

// Chapter is the transient record produced by the markdown splitter before it
// is assembled into a Break.
type Chapter struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Run is a contiguous span of paragraph text sharing the same styling.
type Run struct {
	Text   string `json:"text"`
	Bold   bool   `json:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty"`
}

// Paragraph is a rich-text block made of runs.
type Paragraph struct {
	Type     string `json:"type"`
	Indent   int    `json:"indent"`
	Children []Run  `json:"children"`
}

// EmptyParagraph returns the placeholder block used for blank documents.
func EmptyParagraph() Paragraph {
	return Paragraph{
		Type:     ParagraphType,
		Children: []Run{{Text: ""}},
	}
}

// Text flattens the paragraph runs.
func (p Paragraph) Text() string {
	switch len(p.Children) {
	case 0:
		return ""
	case 1:
		return p.Children[0].Text
	}
	size := 0
	for _, run := range p.Children {
		size += len(run.Text)
	}
	buf := make([]byte, 0, size)
	for _, run := range p.Children {
		buf = append(buf, run.Text...)
	}
	return string(buf)
}

// Break is a chapter/section of a writing project. Content holds the JSON
// encoded paragraph list.
type Break struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	WordCount int    `json:"wordCount"`
}

// Project owns an ordered list of breaks and tracks the break open in the editor.
type Project struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Breaks         []Break `json:"breaks"`
	CurrentBreakID *string `json:"currentBreakId"`
}

// BreakIndex returns the position of the break with the given id or -1.
func (p *Project) BreakIndex(id string) int {
	if p == nil {
		return -1
	}
	for i := range p.Breaks {
		if p.Breaks[i].ID == id {
			return i
		}
	}
	return -1
}

// CurrentBreak returns the break referenced by CurrentBreakID.
func (p *Project) CurrentBreak() (Break, bool) {
	if p == nil || p.CurrentBreakID == nil {
		return Break{}, false
	}
	idx := p.BreakIndex(*p.CurrentBreakID)
	if idx < 0 {
		return Break{}, false
	}
	return p.Breaks[idx], true
}

// SetCurrentBreak points the project at id. An empty id clears the pointer.
func (p *Project) SetCurrentBreak(id string) {
	if id == "" {
		p.CurrentBreakID = nil
		return
	}
	value := id
	p.CurrentBreakID = &value
}

// WordCount sums the word counts of every break.
func (p *Project) WordCount() int {
	if p == nil {
		return 0
	}
	total := 0
	for _, br := range p.Breaks {
		total += br.WordCount
	}
	return total
}

// Validate checks the current-break invariant: a project with breaks points at
// one of them, a project without breaks points at nothing.
func (p *Project) Validate() error {
	if p == nil {
		return errors.New("scribe domain: project is nil")
	}
	if len(p.Breaks) == 0 {
		if p.CurrentBreakID != nil {
			return fmt.Errorf("%w: %q set on empty project", ErrCurrentBreakInvalid, *p.CurrentBreakID)
		}
		return nil
	}
	if p.CurrentBreakID == nil {
		return fmt.Errorf("%w: project %s has breaks but no current break", ErrCurrentBreakInvalid, p.ID)
	}
	if p.BreakIndex(*p.CurrentBreakID) < 0 {
		return fmt.Errorf("%w: %q", ErrCurrentBreakInvalid, *p.CurrentBreakID)
	}
	return nil
}

// Clone returns a deep copy so callers can mutate the result freely.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	out := &Project{
		ID:     p.ID,
		Title:  p.Title,
		Breaks: append([]Break(nil), p.Breaks...),
	}
	if p.CurrentBreakID != nil {
		out.SetCurrentBreak(*p.CurrentBreakID)
	}
	return out
}
