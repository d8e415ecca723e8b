package workspacecmd

import (
	"errors"
	"time"

	"github.com/goliatone/go-scribe/internal/commands"
	"github.com/goliatone/go-scribe/internal/journal"
	"github.com/goliatone/go-scribe/internal/workspace"
	"github.com/goliatone/go-scribe/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	timeout time.Duration
}

// WithTimeout overrides the execution timeout of every handler. Zero keeps
// the default and a negative value disables the timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *options) {
		cfg.timeout = timeout
	}
}

// Handlers lists every handler in registration order.
func (s *HandlerSet) Handlers() []any {
	return []any{
		s.ImportProject,
		s.ImportDirectory,
		s.CreateProject,
		s.RenameProject,
		s.DeleteProject,
		s.SelectProject,
		s.AddBreak,
		s.RemoveBreak,
		s.SwitchBreak,
		s.UpdateBreak,
		s.ReorderBreak,
		s.EraseWorkspace,
		s.AddNote,
	}
}

// RegisterWorkspaceCommands builds the workspace and journal handlers and
// registers them with reg when it is not nil.
func RegisterWorkspaceCommands(reg CommandRegistry, ws workspace.Service, notes journal.Service, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if ws == nil {
		return nil, errors.New("workspace command registration: workspace service is nil")
	}
	if notes == nil {
		return nil, errors.New("workspace command registration: journal service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	set := NewHandlerSet(ws, notes, commands.CommandLogger(provider, "workspace"), cfg.timeout)
	if reg != nil {
		for _, handler := range set.Handlers() {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}
