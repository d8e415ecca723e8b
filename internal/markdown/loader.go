package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-scribe/pkg/interfaces"
)

// LoaderConfig configures how Markdown files are discovered within a base directory.
type LoaderConfig struct {
	// BasePath is the root directory where Markdown documents live.
	BasePath string
	// Pattern limits discovered files to those matching the glob (defaults to "*.md").
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Loader turns filesystem paths into Markdown documents with metadata.
type Loader struct {
	fs        fs.FS
	basePath  string
	pattern   string
	recursive bool
}

// NewLoader constructs a Loader over filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = "*.md"
	}
	return &Loader{
		fs:        filesystem,
		basePath:  filepath.Clean(cfg.BasePath),
		pattern:   pattern,
		recursive: cfg.Recursive,
	}
}

// LoadFile reads a single Markdown document. Sources that are not text fail
// with ErrInvalidInput.
func (l *Loader) LoadFile(ctx context.Context, name string) (*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := l.makeRelative(name)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}
	if err := ValidateSource(data); err != nil {
		return nil, fmt.Errorf("markdown loader %s: %w", rel, err)
	}
	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", rel, err)
	}

	doc, err := BuildDocument(rel, data, info.ModTime())
	if err != nil {
		// unreadable frontmatter is kept as part of the body
		doc = &interfaces.Document{FilePath: rel, Body: data, LastModified: info.ModTime()}
	}
	sum := sha256.Sum256(data)
	doc.Checksum = sum[:]

	return &DocumentResult{Document: doc, Source: data}, nil
}

// LoadDirectory discovers Markdown files under dir, sorted by path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, opts LoadParams) ([]*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := l.makeRelative(dir)
	if err != nil {
		return nil, err
	}

	recursive := l.recursive
	if opts.Recursive != nil {
		recursive = *opts.Recursive
	}
	pattern := l.pattern
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		pattern = trimmed
	}

	var results []*DocumentResult
	walkErr := fs.WalkDir(l.fs, root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if current != root && !recursive {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !matchesPattern(current, pattern) {
			return nil
		}
		result, err := l.LoadFile(ctx, current)
		if err != nil {
			return err
		}
		results = append(results, result)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Document.FilePath < results[j].Document.FilePath
	})
	return results, nil
}

func matchesPattern(name, pattern string) bool {
	pattern = filepath.ToSlash(strings.ReplaceAll(pattern, "**/", ""))
	target := path.Base(name)
	if strings.Contains(pattern, "/") {
		target = name
	}
	match, err := path.Match(pattern, target)
	return err == nil && match
}

// makeRelative maps name onto the loader filesystem, which uses slash
// separated paths relative to BasePath.
func (l *Loader) makeRelative(name string) (string, error) {
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) {
		if l.basePath == "" || l.basePath == "." {
			return "", fmt.Errorf("markdown loader: absolute path %s provided without base path", name)
		}
		rel, err := filepath.Rel(l.basePath, clean)
		if err != nil {
			return "", fmt.Errorf("markdown loader: make relative %s: %w", name, err)
		}
		clean = rel
	}
	return filepath.ToSlash(clean), nil
}

// DocumentResult carries the parsed document along with the raw source.
type DocumentResult struct {
	Document *interfaces.Document
	Source   []byte
}

// LoadParams provide call-specific overrides for discovery.
type LoadParams struct {
	Pattern   string
	Recursive *bool
}
