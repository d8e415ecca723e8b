package workspace

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-scribe/internal/document"
	"github.com/goliatone/go-scribe/internal/markdown"
	"github.com/goliatone/go-scribe/pkg/interfaces"
)

// ImportDirectory loads every markdown document under dir and imports each as
// its own project.
func (s *service) ImportDirectory(ctx context.Context, dir string, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if s.loader == nil {
		return nil, ErrLoaderRequired
	}
	docs, err := s.loader.LoadDirectory(ctx, dir, interfaces.LoadOptions{})
	if err != nil {
		return nil, err
	}
	return s.ImportDocuments(ctx, docs, opts)
}

// ImportDocuments imports already loaded documents. Failures are collected per
// document and the first one is returned alongside the partial result. With
// opts.Select the last imported project becomes current.
func (s *service) ImportDocuments(ctx context.Context, docs []*interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	acc := newImportAccumulator()
	lastID := ""
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			acc.addError(err)
			break
		}
		id, err := s.importDocument(ctx, doc, opts)
		if err != nil {
			acc.addError(err)
			continue
		}
		if opts.DryRun {
			acc.skip(doc.FilePath)
			continue
		}
		acc.created(id)
		lastID = id
	}

	if opts.Select && lastID != "" {
		if _, err := s.SelectProject(ctx, lastID); err != nil {
			acc.addError(err)
		}
	}

	s.logger.Info("workspace.import.batch",
		"documents", len(docs),
		"created", len(acc.projectIDs),
		"skipped", len(acc.skipped),
		"errors", len(acc.errors),
	)
	return acc.result(), firstError(acc.errors)
}

func (s *service) importDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("workspace importer: %w: document is nil", markdown.ErrInvalidInput)
	}
	if err := markdown.ValidateSource(doc.Body); err != nil {
		return "", fmt.Errorf("workspace importer: %s: %w", doc.FilePath, err)
	}

	// the loader already stripped the frontmatter
	chapters := markdown.SplitChapters(string(doc.Body), markdown.SplitOptions{Setext: opts.Parse.Setext})
	title := strings.TrimSpace(doc.FrontMatter.Title)
	if title == "" {
		title = document.TitleFromFileName(doc.FilePath)
	}
	project := s.assembler.Assemble(title, chapters)
	if opts.DryRun {
		return project.ID, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.saveProject(ctx, project); err != nil {
		return "", fmt.Errorf("workspace importer: %s: %w", doc.FilePath, err)
	}
	return project.ID, nil
}

type importAccumulator struct {
	projectIDs []string
	skipped    []string
	errors     []error
}

func newImportAccumulator() *importAccumulator {
	return &importAccumulator{
		projectIDs: []string{},
		skipped:    []string{},
		errors:     []error{},
	}
}

func (a *importAccumulator) created(id string) {
	if id != "" {
		a.projectIDs = append(a.projectIDs, id)
	}
}

func (a *importAccumulator) skip(path string) {
	if path != "" {
		a.skipped = append(a.skipped, path)
	}
}

func (a *importAccumulator) addError(err error) {
	if err != nil {
		a.errors = append(a.errors, err)
	}
}

func (a *importAccumulator) result() *interfaces.ImportResult {
	return &interfaces.ImportResult{
		ProjectIDs: a.projectIDs,
		Skipped:    a.skipped,
		Errors:     a.errors,
	}
}

func firstError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}
