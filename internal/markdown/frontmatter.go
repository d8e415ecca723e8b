package markdown

import (
	"bytes"
	"fmt"
	"maps"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-scribe/pkg/interfaces"
)

// ParseFrontMatter extracts metadata and the Markdown body from source.
// Sources without a frontmatter block return empty metadata and the whole
// source as body.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

// BuildDocument assembles an interfaces.Document from a file path, its raw
// content and modification time.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		FilePath:     path,
		FrontMatter:  fm,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title   string         `yaml:"title"`
	Author  string         `yaml:"author"`
	Summary string         `yaml:"summary"`
	Tags    []string       `yaml:"tags"`
	Date    time.Time      `yaml:"date"`
	Custom  map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	raw := make(map[string]any, len(env.Custom)+5)
	maps.Copy(raw, env.Custom)

	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Author != "" {
		raw["author"] = env.Author
	}
	if env.Summary != "" {
		raw["summary"] = env.Summary
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	if !env.Date.IsZero() {
		raw["date"] = env.Date
	}

	custom := maps.Clone(env.Custom)
	if custom == nil {
		custom = map[string]any{}
	}

	return interfaces.FrontMatter{
		Title:   env.Title,
		Author:  env.Author,
		Summary: env.Summary,
		Tags:    append([]string(nil), env.Tags...),
		Date:    env.Date,
		Custom:  custom,
		Raw:     raw,
	}
}
