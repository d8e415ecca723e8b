package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-scribe/internal/document"
	"github.com/goliatone/go-scribe/internal/domain"
	"github.com/goliatone/go-scribe/internal/identity"
	"github.com/goliatone/go-scribe/internal/logging"
	"github.com/goliatone/go-scribe/internal/markdown"
	"github.com/goliatone/go-scribe/internal/storage"
	"github.com/goliatone/go-scribe/pkg/interfaces"
)

// Service manages the projects of a workspace and the break open in each.
type Service interface {
	CreateEmptyProject(ctx context.Context) (*domain.Project, error)
	CreateProject(ctx context.Context, title string) (*domain.Project, error)
	ImportProject(ctx context.Context, input ImportInput) (*ImportOutcome, error)
	ImportDocuments(ctx context.Context, docs []*interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error)
	ImportDirectory(ctx context.Context, dir string, opts interfaces.ImportOptions) (*interfaces.ImportResult, error)
	ListProjects(ctx context.Context) ([]*domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	SelectProject(ctx context.Context, id string) (*domain.Project, error)
	CurrentProject(ctx context.Context) (*domain.Project, error)
	RenameProject(ctx context.Context, id, title string) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) (*domain.Project, error)
	AddBreak(ctx context.Context, projectID, title string) (*domain.Project, error)
	RemoveBreak(ctx context.Context, projectID, breakID string) (*domain.Project, error)
	SwitchBreak(ctx context.Context, projectID, breakID string) (*domain.Project, error)
	UpdateBreak(ctx context.Context, input UpdateBreakInput) (*domain.Project, error)
	ReorderBreak(ctx context.Context, projectID string, from, to int) (*domain.Project, error)
	TotalWordCount(ctx context.Context, projectID string) (int, error)
	ExportProject(ctx context.Context, projectID string) (document.Export, error)
	ExportProjectJSON(ctx context.Context, projectID string) ([]byte, error)
	EraseAll(ctx context.Context) (*domain.Project, error)
}

// ImportInput carries a markdown source to turn into a project.
type ImportInput struct {
	// Name is the originating file name. It titles the project when the
	// frontmatter has no title.
	Name    string
	Source  []byte
	Options interfaces.ParseOptions
	// DryRun parses and assembles without persisting or selecting.
	DryRun bool
}

// ImportOutcome is the project produced by an import.
type ImportOutcome struct {
	Project     *domain.Project        `json:"project"`
	FrontMatter interfaces.FrontMatter `json:"frontMatter"`
	HTML        string                 `json:"html,omitempty"`
	Persisted   bool                   `json:"persisted"`
}

// UpdateBreakInput captures the mutable break fields. Nil fields are kept.
type UpdateBreakInput struct {
	ProjectID string
	BreakID   string
	Title     *string
	Content   *string
}

// DocumentLoader reads markdown documents from a directory.
type DocumentLoader interface {
	LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error)
}

// ServiceOption configures the workspace service.
type ServiceOption func(*service)

// WithIDGenerator overrides project and break id generation.
func WithIDGenerator(gen identity.Generator) ServiceOption {
	return func(s *service) {
		if gen != nil {
			s.assembler = document.NewAssembler(document.Options{IDs: gen})
		}
	}
}

// WithParser overrides the markdown parser used for imports.
func WithParser(parser *markdown.Parser) ServiceOption {
	return func(s *service) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// WithDocumentLoader enables ImportDirectory.
func WithDocumentLoader(loader DocumentLoader) ServiceOption {
	return func(s *service) {
		s.loader = loader
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	store     storage.Store
	assembler *document.Assembler
	parser    *markdown.Parser
	loader    DocumentLoader
	logger    interfaces.Logger
	// mu serialises read-modify-write cycles against the store.
	mu sync.Mutex
}

// NewService constructs a workspace service backed by store.
func NewService(store storage.Store, opts ...ServiceOption) Service {
	if store == nil {
		panic(ErrStoreRequired)
	}
	s := &service{
		store:     store,
		assembler: document.NewAssembler(document.Options{}),
		parser:    markdown.NewParser(),
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) CreateEmptyProject(ctx context.Context) (*domain.Project, error) {
	return s.CreateProject(ctx, document.DefaultProjectTitle)
}

// CreateProject persists a project holding one empty break and selects it.
func (s *service) CreateProject(ctx context.Context, title string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createProjectLocked(ctx, title)
}

func (s *service) createProjectLocked(ctx context.Context, title string) (*domain.Project, error) {
	project := s.assembler.EmptyProject(title)
	if err := s.storeAndSelect(ctx, project); err != nil {
		return nil, err
	}
	s.logger.Info("workspace.project.created", "project_id", project.ID, "title", project.Title)
	return project, nil
}

// ImportProject runs the whole parse and assemble pipeline before touching the
// store, so a failed import leaves the project list unchanged. The imported
// project becomes the current one.
func (s *service) ImportProject(ctx context.Context, input ImportInput) (*ImportOutcome, error) {
	result, err := s.parser.Parse(ctx, input.Source, input.Options)
	if err != nil {
		s.logger.Warn("workspace.import.failed", "source", input.Name, "error", err)
		return nil, err
	}

	title := strings.TrimSpace(result.FrontMatter.Title)
	if title == "" {
		title = document.TitleFromFileName(input.Name)
	}
	project := s.assembler.Assemble(title, result.Chapters)
	outcome := &ImportOutcome{
		Project:     project,
		FrontMatter: result.FrontMatter,
		HTML:        result.HTML,
	}
	logger := logging.WithImportContext(s.logger, input.Name, project.ID)
	if input.DryRun {
		logger.Debug("workspace.import.dry_run", "breaks", len(project.Breaks))
		return outcome, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storeAndSelect(ctx, project); err != nil {
		logger.Warn("workspace.import.failed", "error", err)
		return nil, err
	}
	outcome.Persisted = true
	logger.Info("workspace.import.completed", "breaks", len(project.Breaks), "words", project.WordCount())
	return outcome, nil
}

// ListProjects returns every stored project ordered by key.
func (s *service) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	return s.loadProjects(ctx)
}

func (s *service) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	return s.loadProject(ctx, id)
}

func (s *service) SelectProject(ctx context.Context, id string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.loadProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.setCurrentProject(ctx, project.ID); err != nil {
		return nil, err
	}
	s.logger.Debug("workspace.project.selected", "project_id", project.ID)
	return project, nil
}

// CurrentProject returns the selected project. A missing or dangling selection
// falls back to the first stored project, and an empty workspace gets a fresh
// empty project.
func (s *service) CurrentProject(ctx context.Context) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentProjectLocked(ctx)
}

func (s *service) currentProjectLocked(ctx context.Context) (*domain.Project, error) {
	id, err := s.currentProjectID(ctx)
	if err != nil {
		return nil, err
	}
	if id != "" {
		project, err := s.loadProject(ctx, id)
		if err == nil {
			return project, nil
		}
		if !isMissingProject(err) {
			return nil, err
		}
		s.logger.Warn("workspace.current.dangling", "project_id", id)
	}
	return s.fallbackCurrentLocked(ctx)
}

func (s *service) fallbackCurrentLocked(ctx context.Context) (*domain.Project, error) {
	projects, err := s.loadProjects(ctx)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return s.createProjectLocked(ctx, document.DefaultProjectTitle)
	}
	if err := s.setCurrentProject(ctx, projects[0].ID); err != nil {
		return nil, err
	}
	return projects[0], nil
}

func (s *service) RenameProject(ctx context.Context, id, title string) (*domain.Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	return s.mutate(ctx, id, func(project *domain.Project) error {
		project.Title = title
		return nil
	})
}

// DeleteProject removes a project and returns the current project afterwards.
func (s *service) DeleteProject(ctx context.Context, id string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.loadProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, storage.ProjectKey(project.ID)); err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, storage.JournalKey(project.ID)); err != nil && !isStoreMiss(err) {
		return nil, err
	}
	s.logger.Info("workspace.project.deleted", "project_id", project.ID)

	currentID, err := s.currentProjectID(ctx)
	if err != nil {
		return nil, err
	}
	if currentID != project.ID {
		return s.currentProjectLocked(ctx)
	}
	return s.fallbackCurrentLocked(ctx)
}

// AddBreak appends an empty break and makes it current.
func (s *service) AddBreak(ctx context.Context, projectID, title string) (*domain.Project, error) {
	return s.mutate(ctx, projectID, func(project *domain.Project) error {
		br := s.assembler.NewBreak(title)
		project.Breaks = append(project.Breaks, br)
		project.SetCurrentBreak(br.ID)
		return nil
	})
}

// RemoveBreak drops a break. When it was current the first remaining break
// becomes current, or none when the project is left empty.
func (s *service) RemoveBreak(ctx context.Context, projectID, breakID string) (*domain.Project, error) {
	return s.mutate(ctx, projectID, func(project *domain.Project) error {
		idx := project.BreakIndex(breakID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrBreakNotFound, breakID)
		}
		wasCurrent := project.CurrentBreakID != nil && *project.CurrentBreakID == breakID
		project.Breaks = append(project.Breaks[:idx:idx], project.Breaks[idx+1:]...)
		switch {
		case len(project.Breaks) == 0:
			project.SetCurrentBreak("")
		case wasCurrent:
			project.SetCurrentBreak(project.Breaks[0].ID)
		}
		return nil
	})
}

func (s *service) SwitchBreak(ctx context.Context, projectID, breakID string) (*domain.Project, error) {
	return s.mutate(ctx, projectID, func(project *domain.Project) error {
		if project.BreakIndex(breakID) < 0 {
			return fmt.Errorf("%w: %s", ErrBreakNotFound, breakID)
		}
		project.SetCurrentBreak(breakID)
		return nil
	})
}

// UpdateBreak applies a title and/or content change. Content failing the
// paragraph schema is replaced by one empty paragraph, and the word count is
// recomputed from the stored text.
func (s *service) UpdateBreak(ctx context.Context, input UpdateBreakInput) (*domain.Project, error) {
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, ErrTitleRequired
	}
	return s.mutate(ctx, input.ProjectID, func(project *domain.Project) error {
		idx := project.BreakIndex(input.BreakID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrBreakNotFound, input.BreakID)
		}
		br := &project.Breaks[idx]
		if input.Title != nil {
			br.Title = strings.TrimSpace(*input.Title)
		}
		if input.Content != nil {
			content, paragraphs, changed := document.SanitizeContent(*input.Content)
			if changed {
				logging.WithBreakContext(s.logger, project.ID, br.ID).Warn("workspace.break.content_rejected")
			}
			br.Content = content
			br.WordCount = document.WordCount(document.PlainText(paragraphs))
		}
		return nil
	})
}

// ReorderBreak moves the break at position from to position to.
func (s *service) ReorderBreak(ctx context.Context, projectID string, from, to int) (*domain.Project, error) {
	return s.mutate(ctx, projectID, func(project *domain.Project) error {
		n := len(project.Breaks)
		if from < 0 || from >= n || to < 0 || to >= n {
			return fmt.Errorf("%w: %d -> %d of %d", ErrBreakOutOfRange, from, to, n)
		}
		if from == to {
			return nil
		}
		moved := project.Breaks[from]
		breaks := append(project.Breaks[:from:from], project.Breaks[from+1:]...)
		breaks = append(breaks[:to], append([]domain.Break{moved}, breaks[to:]...)...)
		project.Breaks = breaks
		return nil
	})
}

func (s *service) TotalWordCount(ctx context.Context, projectID string) (int, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return 0, err
	}
	return project.WordCount(), nil
}

func (s *service) ExportProject(ctx context.Context, projectID string) (document.Export, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return document.Export{}, err
	}
	return document.ExportProject(project), nil
}

// ExportProjectJSON returns the stored project as indented JSON.
func (s *service) ExportProjectJSON(ctx context.Context, projectID string) ([]byte, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(project, "", "  ")
}

// EraseAll clears the store, journals included, and seeds one empty project.
func (s *service) EraseAll(ctx context.Context) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return nil, err
	}
	s.logger.Info("workspace.erased")
	return s.createProjectLocked(ctx, document.DefaultProjectTitle)
}

// mutate loads a project, applies fn to a copy and persists the result. The
// stored value is untouched when fn fails.
func (s *service) mutate(ctx context.Context, projectID string, fn func(*domain.Project) error) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	next := project.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	if err := s.saveProject(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}
