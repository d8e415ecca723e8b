package markdown

import (
	"testing"

	"github.com/goliatone/go-scribe/internal/domain"
)

func TestSplitChapters(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		setext bool
		want   []domain.Chapter
	}{
		{
			name:  "single heading",
			input: "# Chapter One\nHello **world**.",
			want:  []domain.Chapter{{ID: "chapter-1", Title: "Chapter One", Content: "Hello **world**."}},
		},
		{
			name:  "no heading falls back to main content",
			input: "  No heading here.\n",
			want:  []domain.Chapter{{ID: "chapter-1", Title: DefaultChapterTitle, Content: "No heading here."}},
		},
		{
			name:  "empty chapter between headings",
			input: "# A\n\n# B\ntext",
			want: []domain.Chapter{
				{ID: "chapter-1", Title: "A", Content: ""},
				{ID: "chapter-2", Title: "B", Content: "text"},
			},
		},
		{
			name:  "empty input",
			input: "",
			want:  []domain.Chapter{{ID: "chapter-1", Title: DefaultChapterTitle, Content: ""}},
		},
		{
			name:  "non blank preamble becomes untitled chapter",
			input: "Intro text\n# One\nbody",
			want: []domain.Chapter{
				{ID: "chapter-1", Title: "Untitled Chapter 1", Content: "Intro text"},
				{ID: "chapter-2", Title: "One", Content: "body"},
			},
		},
		{
			name:  "blank preamble is dropped",
			input: "\n  \n## One\nbody",
			want:  []domain.Chapter{{ID: "chapter-1", Title: "One", Content: "body"}},
		},
		{
			name:  "heading without text gets synthetic title",
			input: "# First\na\n#\nb",
			want: []domain.Chapter{
				{ID: "chapter-1", Title: "First", Content: "a"},
				{ID: "chapter-2", Title: "Untitled Chapter 2", Content: "b"},
			},
		},
		{
			name:  "hash without space is text",
			input: "# Tags\n#hashtag stays",
			want:  []domain.Chapter{{ID: "chapter-1", Title: "Tags", Content: "#hashtag stays"}},
		},
		{
			name:  "closing hashes are stripped",
			input: "## Title ##\nx\n# C#\ny",
			want: []domain.Chapter{
				{ID: "chapter-1", Title: "Title", Content: "x"},
				{ID: "chapter-2", Title: "C#", Content: "y"},
			},
		},
		{
			name:  "fenced code never splits",
			input: "# Real\n```\n# not a heading\n```\nafter",
			want:  []domain.Chapter{{ID: "chapter-1", Title: "Real", Content: "```\n# not a heading\n```\nafter"}},
		},
		{
			name:  "tilde fence",
			input: "# Real\n~~~\n# nope\n~~~",
			want:  []domain.Chapter{{ID: "chapter-1", Title: "Real", Content: "~~~\n# nope\n~~~"}},
		},
		{
			name:  "crlf line endings",
			input: "# A\r\nx\r\n# B\r\ny",
			want: []domain.Chapter{
				{ID: "chapter-1", Title: "A", Content: "x"},
				{ID: "chapter-2", Title: "B", Content: "y"},
			},
		},
		{
			name:   "setext headings when enabled",
			input:  "Title\n=====\nbody\n\nOther\n===\nmore",
			setext: true,
			want: []domain.Chapter{
				{ID: "chapter-1", Title: "Title", Content: "body"},
				{ID: "chapter-2", Title: "Other", Content: "more"},
			},
		},
		{
			name:  "setext ignored by default",
			input: "Title\n=====\nbody",
			want:  []domain.Chapter{{ID: "chapter-1", Title: DefaultChapterTitle, Content: "Title\n=====\nbody"}},
		},
		{
			name:   "setext title is the line above the underline",
			input:  "# A\nline one\nline two\n===",
			setext: true,
			want: []domain.Chapter{
				{ID: "chapter-1", Title: "A", Content: "line one"},
				{ID: "chapter-2", Title: "line two", Content: ""},
			},
		},
		{
			name:   "setext heading without blank line before it",
			input:  "para\nTitle\n===\nbody",
			setext: true,
			want: []domain.Chapter{
				{ID: "chapter-1", Title: "Untitled Chapter 1", Content: "para"},
				{ID: "chapter-2", Title: "Title", Content: "body"},
			},
		},
		{
			name:   "setext underline alone is content",
			input:  "# A\n\n===\ntext",
			setext: true,
			want:   []domain.Chapter{{ID: "chapter-1", Title: "A", Content: "===\ntext"}},
		},
		{
			name:  "single-level closing sequence and hash-only heading",
			input: "# Title ##\nbody\n## C# notes\nmore\n### ###\nlast",
			want: []domain.Chapter{
				{ID: "chapter-1", Title: "Title", Content: "body"},
				{ID: "chapter-2", Title: "C# notes", Content: "more"},
				{ID: "chapter-3", Title: "Untitled Chapter 3", Content: "last"},
			},
		},
		{
			name:  "hashes glued to the title are kept",
			input: "# Take #2\nbody\n# Issue#\nmore",
			want: []domain.Chapter{
				{ID: "chapter-1", Title: "Take #2", Content: "body"},
				{ID: "chapter-2", Title: "Issue#", Content: "more"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitChapters(tc.input, SplitOptions{Setext: tc.setext})
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d chapters, got %d: %#v", len(tc.want), len(got), got)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("chapter %d mismatch\nwant: %#v\ngot:  %#v", i, tc.want[i], got[i])
				}
			}
		})
	}
}

func TestSplitChaptersCountsATXHeadings(t *testing.T) {
	input := "# One\na\n## Two\nb\n### Three\nc\n#### Four\n"
	got := SplitChapters(input, SplitOptions{})
	want := []string{"One", "Two", "Three", "Four"}
	if len(got) != len(want) {
		t.Fatalf("expected %d chapters, got %d", len(want), len(got))
	}
	for i, title := range want {
		if got[i].Title != title {
			t.Fatalf("chapter %d: expected title %q, got %q", i, title, got[i].Title)
		}
	}
}
