// Package markdown turns markdown sources into chapters and back.
//
// SplitChapters cuts a source at ATX (and optionally Setext) headings,
// FormatParagraph turns a paragraph into styled runs, and Parser wraps both
// with input validation, frontmatter handling and goldmark HTML previews.
// The Loader and Service types discover markdown files on disk for bulk
// imports, and the Render helpers write documents back as markdown.
package markdown
