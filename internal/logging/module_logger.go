package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-scribe/pkg/interfaces"
)

const (
	rootModule      = "scribe"
	markdownModule  = "scribe.markdown"
	workspaceModule = "scribe.workspace"
	journalModule   = "scribe.journal"
	storageModule   = "scribe.storage"
	httpModule      = "scribe.http"
	commandsModule  = "scribe.commands"
)

const (
	fieldImportSource = "import_source"
	fieldProjectID    = "project_id"
	fieldBreakID      = "break_id"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field so entries can be filtered per component.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// MarkdownLogger returns the logger namespace reserved for the import pipeline.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// WorkspaceLogger returns the logger namespace reserved for the project manager.
func WorkspaceLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, workspaceModule)
}

// JournalLogger returns the logger namespace reserved for project journals.
func JournalLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, journalModule)
}

// StorageLogger returns the logger namespace reserved for store adapters.
func StorageLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storageModule)
}

// HTTPLogger returns the logger namespace reserved for the HTTP surface.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// CommandLogger returns a logger below scribe.commands, e.g. scribe.commands.workspace.
func CommandLogger(provider interfaces.LoggerProvider, name string) interfaces.Logger {
	name = strings.Trim(strings.TrimSpace(name), ".")
	if name == "" {
		return ModuleLogger(provider, commandsModule)
	}
	return ModuleLogger(provider, commandsModule+"."+name)
}

// WithImportContext enriches the logger with the import source name and the
// resulting project id. Empty values are ignored.
func WithImportContext(logger interfaces.Logger, source, projectID string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(source); trimmed != "" {
		fields[fieldImportSource] = trimmed
	}
	if trimmed := strings.TrimSpace(projectID); trimmed != "" {
		fields[fieldProjectID] = trimmed
	}
	return WithFields(logger, fields)
}

// WithBreakContext annotates entries with the project and break being edited.
func WithBreakContext(logger interfaces.Logger, projectID, breakID string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(projectID); trimmed != "" {
		fields[fieldProjectID] = trimmed
	}
	if trimmed := strings.TrimSpace(breakID); trimmed != "" {
		fields[fieldBreakID] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
