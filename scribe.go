package scribe

import (
	"context"

	"github.com/gin-gonic/gin"

	workspacecmd "github.com/goliatone/go-scribe/internal/commands/workspace"
	"github.com/goliatone/go-scribe/internal/di"
	"github.com/goliatone/go-scribe/internal/domain"
	"github.com/goliatone/go-scribe/internal/journal"
	"github.com/goliatone/go-scribe/internal/markdown"
	"github.com/goliatone/go-scribe/internal/storage"
	"github.com/goliatone/go-scribe/internal/workspace"
	"github.com/goliatone/go-scribe/pkg/interfaces"
)

// WorkspaceService exports the workspace service contract for consumers of the scribe package.
type WorkspaceService = workspace.Service

// JournalService exports the journal service contract.
type JournalService = journal.Service

// Store exports the key/value persistence port.
type Store = storage.Store

// CommandHandlers exports the workspace and journal command handlers.
type CommandHandlers = *workspacecmd.HandlerSet

type (
	Project   = domain.Project
	Break     = domain.Break
	Chapter   = domain.Chapter
	Paragraph = domain.Paragraph
	Run       = domain.Run
	Note      = journal.Note

	ParseResult  = markdown.Result
	ParseOptions = interfaces.ParseOptions
	ImportInput  = workspace.ImportInput
)

var (
	ErrInvalidInput     = markdown.ErrInvalidInput
	ErrProjectNotFound  = workspace.ErrProjectNotFound
	ErrBreakNotFound    = workspace.ErrBreakNotFound
	ErrTitleRequired    = workspace.ErrTitleRequired
	ErrNoteEmpty        = journal.ErrNoteEmpty
	ErrUnsupportedImage = journal.ErrUnsupportedImage
	ErrNotFound         = storage.ErrNotFound
)

// Module represents the top level scribe runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a scribe module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Workspace returns the configured workspace service.
func (m *Module) Workspace() WorkspaceService {
	return m.container.WorkspaceService()
}

// Journal returns the configured journal service.
func (m *Module) Journal() JournalService {
	return m.container.JournalService()
}

// Store returns the store backing the workspace.
func (m *Module) Store() Store {
	return m.container.Store()
}

// Commands returns the command handlers wired to the module services.
func (m *Module) Commands() CommandHandlers {
	return m.container.Commands()
}

// Markdown returns the filesystem markdown service when the content
// directory is available.
func (m *Module) Markdown() interfaces.MarkdownService {
	if m == nil || m.container == nil {
		return nil
	}
	if svc := m.container.MarkdownService(); svc != nil {
		return svc
	}
	return nil
}

// Parse splits source into chapters with the module parser.
func (m *Module) Parse(ctx context.Context, source []byte, opts ParseOptions) (*ParseResult, error) {
	return m.container.Parser().Parse(ctx, source, opts)
}

// Router returns a gin engine serving the HTTP API.
func (m *Module) Router() (*gin.Engine, error) {
	return m.container.Router()
}

// Close releases resources held by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
