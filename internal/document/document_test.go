package document

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-scribe/internal/domain"
	"github.com/goliatone/go-scribe/internal/identity"
	"github.com/goliatone/go-scribe/internal/markdown"
)

func newTestAssembler() *Assembler {
	return NewAssembler(Options{IDs: identity.Sequence()})
}

func decode(t *testing.T, content string) []domain.Paragraph {
	t.Helper()
	var paragraphs []domain.Paragraph
	if err := json.Unmarshal([]byte(content), &paragraphs); err != nil {
		t.Fatalf("decode content: %v", err)
	}
	return paragraphs
}

func TestAssembleExampleDocument(t *testing.T) {
	chapters := markdown.SplitChapters("# Chapter One\nHello **world**.", markdown.SplitOptions{})
	project := newTestAssembler().Assemble("", chapters)

	if project.ID != "project-1" || project.Title != DefaultProjectTitle {
		t.Fatalf("unexpected project header %#v", project)
	}
	if len(project.Breaks) != 1 {
		t.Fatalf("expected one break, got %d", len(project.Breaks))
	}
	br := project.Breaks[0]
	if br.ID != "break-1" || br.Title != "Chapter One" || br.WordCount != 2 {
		t.Fatalf("unexpected break %#v", br)
	}
	if project.CurrentBreakID == nil || *project.CurrentBreakID != br.ID {
		t.Fatalf("expected current break to be first break")
	}

	paragraphs := decode(t, br.Content)
	want := []domain.Run{{Text: "Hello "}, {Text: "world", Bold: true}, {Text: "."}}
	if len(paragraphs) != 1 || len(paragraphs[0].Children) != len(want) {
		t.Fatalf("unexpected paragraphs %#v", paragraphs)
	}
	for i, run := range want {
		if paragraphs[0].Children[i] != run {
			t.Fatalf("run %d: want %#v, got %#v", i, run, paragraphs[0].Children[i])
		}
	}
	if err := project.Validate(); err != nil {
		t.Fatalf("expected valid project: %v", err)
	}
}

func TestAssembleContentJSONShape(t *testing.T) {
	project := newTestAssembler().Assemble("Book", []domain.Chapter{{ID: "chapter-1", Title: "A", Content: "  *x*"}})
	want := `[{"type":"paragraph","indent":1,"children":[{"text":"x","italic":true}]}]`
	if project.Breaks[0].Content != want {
		t.Fatalf("unexpected content\nwant: %s\ngot:  %s", want, project.Breaks[0].Content)
	}
}

func TestAssembleEmptyInput(t *testing.T) {
	chapters := markdown.SplitChapters("", markdown.SplitOptions{})
	project := newTestAssembler().Assemble("", chapters)

	if len(project.Breaks) != 1 {
		t.Fatalf("expected one break, got %d", len(project.Breaks))
	}
	if project.Breaks[0].WordCount != 0 {
		t.Fatalf("expected zero words, got %d", project.Breaks[0].WordCount)
	}
	if project.Breaks[0].Content != EmptyContent {
		t.Fatalf("expected empty content, got %s", project.Breaks[0].Content)
	}
}

func TestAssembleNoChapters(t *testing.T) {
	project := newTestAssembler().Assemble("Empty", nil)
	if project.CurrentBreakID != nil {
		t.Fatalf("expected nil current break, got %v", *project.CurrentBreakID)
	}
	if len(project.Breaks) != 0 {
		t.Fatalf("expected no breaks")
	}
}

func TestAssembleDoesNotMutateChapters(t *testing.T) {
	chapters := []domain.Chapter{
		{ID: "chapter-1", Title: "One", Content: "a b c"},
		{ID: "chapter-2", Title: "Two", Content: "d"},
	}
	snapshot := append([]domain.Chapter(nil), chapters...)

	newTestAssembler().Assemble("x", chapters)

	for i := range chapters {
		if chapters[i] != snapshot[i] {
			t.Fatalf("chapter %d mutated: %#v", i, chapters[i])
		}
	}
}

func TestAssembleWordCountUsesRawContent(t *testing.T) {
	content := "One **two** three\n\n  four\n\n\n_five_ six"
	project := newTestAssembler().Assemble("", []domain.Chapter{{Title: "T", Content: content}})
	if got := project.Breaks[0].WordCount; got != 6 {
		t.Fatalf("expected 6 words, got %d", got)
	}
	paragraphs := decode(t, project.Breaks[0].Content)
	if len(paragraphs) != 3 {
		t.Fatalf("expected blank blocks to be skipped, got %d paragraphs", len(paragraphs))
	}
}

func TestAssembleUniqueIDsWithDefaultGenerator(t *testing.T) {
	chapters := make([]domain.Chapter, 200)
	for i := range chapters {
		chapters[i] = domain.Chapter{Title: "c"}
	}
	project := Assemble("", chapters)

	seen := map[string]struct{}{project.ID: {}}
	for _, br := range project.Breaks {
		if !strings.HasPrefix(br.ID, identity.BreakPrefix) {
			t.Fatalf("unexpected break id %s", br.ID)
		}
		if _, ok := seen[br.ID]; ok {
			t.Fatalf("duplicate id %s", br.ID)
		}
		seen[br.ID] = struct{}{}
	}
}

func TestEmptyProject(t *testing.T) {
	project := newTestAssembler().EmptyProject("")
	if project.Title != DefaultProjectTitle {
		t.Fatalf("unexpected title %q", project.Title)
	}
	if len(project.Breaks) != 1 || project.Breaks[0].Title != "Break 1" {
		t.Fatalf("unexpected breaks %#v", project.Breaks)
	}
	if project.Breaks[0].Content != `[{"type":"paragraph","indent":0,"children":[{"text":""}]}]` {
		t.Fatalf("unexpected empty content %s", project.Breaks[0].Content)
	}
	if err := project.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestSanitizeContent(t *testing.T) {
	valid := `[{"type":"paragraph","children":[{"text":"hi","bold":true}]}]`
	cases := []struct {
		name    string
		content string
		changed bool
	}{
		{name: "valid", content: valid, changed: false},
		{name: "not json", content: "<p>hi</p>", changed: true},
		{name: "empty array", content: "[]", changed: true},
		{name: "wrong type", content: `[{"type":"heading","children":[{"text":"x"}]}]`, changed: true},
		{name: "missing children", content: `[{"type":"paragraph"}]`, changed: true},
		{name: "negative indent", content: `[{"type":"paragraph","indent":-1,"children":[{"text":"x"}]}]`, changed: true},
		{name: "empty string", content: "", changed: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, paragraphs, changed := SanitizeContent(tc.content)
			if changed != tc.changed {
				t.Fatalf("expected changed=%v, got %v", tc.changed, changed)
			}
			if changed && got != EmptyContent {
				t.Fatalf("expected EmptyContent, got %s", got)
			}
			if !changed && got != tc.content {
				t.Fatalf("expected content unchanged, got %s", got)
			}
			if len(paragraphs) == 0 {
				t.Fatalf("expected at least one paragraph")
			}
		})
	}
}

func TestValidateContentWrapsSentinel(t *testing.T) {
	if err := ValidateContent("{}"); !errors.Is(err, ErrInvalidContent) {
		t.Fatalf("expected ErrInvalidContent, got %v", err)
	}
}

func TestContentWordCount(t *testing.T) {
	content := EncodeContent([]domain.Paragraph{
		markdown.FormatParagraph("one **two**"),
		markdown.FormatParagraph("three"),
	})
	if got := ContentWordCount(content); got != 3 {
		t.Fatalf("expected 3 words, got %d", got)
	}
	if got := ContentWordCount("garbage"); got != 0 {
		t.Fatalf("expected invalid content to count 0, got %d", got)
	}
}

func TestTitleFromFileName(t *testing.T) {
	cases := map[string]string{
		"novel.md":                     "novel",
		"/tmp/drafts/My Book.markdown": "My Book",
		`C:\docs\story.txt`:            "story",
		"":                             "",
		"noext":                        "noext",
	}
	for input, want := range cases {
		if got := TitleFromFileName(input); got != want {
			t.Fatalf("TitleFromFileName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestExportProject(t *testing.T) {
	asm := newTestAssembler()
	chapters := markdown.SplitChapters("# One\nHello **world**.\n\n  indented\n# Two\n", markdown.SplitOptions{})
	project := asm.Assemble("My Book", chapters)
	project.Breaks = append(project.Breaks, domain.Break{ID: "break-x", Title: "Broken", Content: "not json"})

	export := ExportProject(project)
	if export.FileName != "my-book.md" {
		t.Fatalf("unexpected file name %q", export.FileName)
	}
	want := "# One\n\nHello **world**.\n\n  indented\n\n# Two\n\n# Broken\n"
	if export.Markdown != want {
		t.Fatalf("unexpected markdown\nwant: %q\ngot:  %q", want, export.Markdown)
	}

	reparsed := markdown.SplitChapters(export.Markdown, markdown.SplitOptions{})
	if len(reparsed) != 3 || reparsed[0].Content != "Hello **world**.\n\n  indented" {
		t.Fatalf("expected export to re-import cleanly, got %#v", reparsed)
	}
}
