package workspacecmd

import (
	"context"
	"errors"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-scribe/internal/commands"
	"github.com/goliatone/go-scribe/internal/domain"
	"github.com/goliatone/go-scribe/internal/journal"
	"github.com/goliatone/go-scribe/internal/logging"
	"github.com/goliatone/go-scribe/internal/workspace"
	"github.com/goliatone/go-scribe/pkg/interfaces"
)

var (
	_ command.Commander[ImportProjectCommand]   = (*commands.Handler[ImportProjectCommand])(nil)
	_ command.Commander[ImportDirectoryCommand] = (*commands.Handler[ImportDirectoryCommand])(nil)
	_ command.Commander[AddNoteCommand]         = (*commands.Handler[AddNoteCommand])(nil)
)

// HandlerSet groups the workspace and journal command handlers.
type HandlerSet struct {
	ImportProject   *commands.Handler[ImportProjectCommand]
	ImportDirectory *commands.Handler[ImportDirectoryCommand]
	CreateProject   *commands.Handler[CreateProjectCommand]
	RenameProject   *commands.Handler[RenameProjectCommand]
	DeleteProject   *commands.Handler[DeleteProjectCommand]
	SelectProject   *commands.Handler[SelectProjectCommand]
	AddBreak        *commands.Handler[AddBreakCommand]
	RemoveBreak     *commands.Handler[RemoveBreakCommand]
	SwitchBreak     *commands.Handler[SwitchBreakCommand]
	UpdateBreak     *commands.Handler[UpdateBreakCommand]
	ReorderBreak    *commands.Handler[ReorderBreakCommand]
	EraseWorkspace  *commands.Handler[EraseWorkspaceCommand]
	AddNote         *commands.Handler[AddNoteCommand]
}

// NewHandlerSet builds every handler over the given services.
func NewHandlerSet(ws workspace.Service, notes journal.Service, logger interfaces.Logger, timeout time.Duration) *HandlerSet {
	logger = logging.Ensure(logger)
	b := builder{logger: logger, timeout: timeout}

	return &HandlerSet{
		ImportProject: build(b, "workspace.import_project",
			func(msg ImportProjectCommand) map[string]any {
				return map[string]any{"source": msg.Name, "bytes": len(msg.Source), "dry_run": msg.DryRun}
			},
			func(ctx context.Context, msg ImportProjectCommand) error {
				outcome, err := ws.ImportProject(ctx, workspace.ImportInput{
					Name:    msg.Name,
					Source:  msg.Source,
					Options: interfaces.ParseOptions{Setext: msg.Setext, Preview: msg.Preview},
					DryRun:  msg.DryRun,
				})
				if err != nil {
					return classify(err)
				}
				logging.WithImportContext(logger, msg.Name, outcome.Project.ID).
					Info("workspace.command.import_project.completed", "breaks", len(outcome.Project.Breaks))
				if msg.Result != nil {
					msg.Result.Project = outcome.Project
					msg.Result.Outcome = outcome
				}
				return nil
			}),
		ImportDirectory: build(b, "workspace.import_directory",
			func(msg ImportDirectoryCommand) map[string]any {
				return map[string]any{"directory": msg.Directory, "dry_run": msg.DryRun}
			},
			func(ctx context.Context, msg ImportDirectoryCommand) error {
				result, err := ws.ImportDirectory(ctx, msg.Directory, interfaces.ImportOptions{
					Select: msg.Select,
					DryRun: msg.DryRun,
					Parse:  interfaces.ParseOptions{Setext: msg.Setext},
				})
				if msg.Result != nil {
					msg.Result.Import = result
				}
				if result != nil {
					logging.WithFields(logger, map[string]any{
						"created_count": len(result.ProjectIDs),
						"skipped_count": len(result.Skipped),
						"error_count":   len(result.Errors),
						"dry_run":       msg.DryRun,
					}).Info("workspace.command.import_directory.completed")
				}
				return classify(err)
			}),
		CreateProject: build(b, "workspace.create_project",
			func(msg CreateProjectCommand) map[string]any {
				return map[string]any{"title": msg.Title}
			},
			func(ctx context.Context, msg CreateProjectCommand) error {
				return storeProject(msg.Result)(ws.CreateProject(ctx, msg.Title))
			}),
		RenameProject: build(b, "workspace.rename_project",
			projectFields[RenameProjectCommand](func(msg RenameProjectCommand) string { return msg.ProjectID }),
			func(ctx context.Context, msg RenameProjectCommand) error {
				return storeProject(msg.Result)(ws.RenameProject(ctx, msg.ProjectID, msg.Title))
			}),
		DeleteProject: build(b, "workspace.delete_project",
			projectFields[DeleteProjectCommand](func(msg DeleteProjectCommand) string { return msg.ProjectID }),
			func(ctx context.Context, msg DeleteProjectCommand) error {
				return storeProject(msg.Result)(ws.DeleteProject(ctx, msg.ProjectID))
			}),
		SelectProject: build(b, "workspace.select_project",
			projectFields[SelectProjectCommand](func(msg SelectProjectCommand) string { return msg.ProjectID }),
			func(ctx context.Context, msg SelectProjectCommand) error {
				return storeProject(msg.Result)(ws.SelectProject(ctx, msg.ProjectID))
			}),
		AddBreak: build(b, "workspace.add_break",
			projectFields[AddBreakCommand](func(msg AddBreakCommand) string { return msg.ProjectID }),
			func(ctx context.Context, msg AddBreakCommand) error {
				return storeProject(msg.Result)(ws.AddBreak(ctx, msg.ProjectID, msg.Title))
			}),
		RemoveBreak: build(b, "workspace.remove_break",
			func(msg RemoveBreakCommand) map[string]any {
				return map[string]any{"project_id": msg.ProjectID, "break_id": msg.BreakID}
			},
			func(ctx context.Context, msg RemoveBreakCommand) error {
				return storeProject(msg.Result)(ws.RemoveBreak(ctx, msg.ProjectID, msg.BreakID))
			}),
		SwitchBreak: build(b, "workspace.switch_break",
			func(msg SwitchBreakCommand) map[string]any {
				return map[string]any{"project_id": msg.ProjectID, "break_id": msg.BreakID}
			},
			func(ctx context.Context, msg SwitchBreakCommand) error {
				return storeProject(msg.Result)(ws.SwitchBreak(ctx, msg.ProjectID, msg.BreakID))
			}),
		UpdateBreak: build(b, "workspace.update_break",
			func(msg UpdateBreakCommand) map[string]any {
				fields := map[string]any{"project_id": msg.ProjectID, "break_id": msg.BreakID}
				if msg.Title != nil {
					fields["title_changed"] = true
				}
				if msg.Content != nil {
					fields["content_bytes"] = len(*msg.Content)
				}
				return fields
			},
			func(ctx context.Context, msg UpdateBreakCommand) error {
				return storeProject(msg.Result)(ws.UpdateBreak(ctx, workspace.UpdateBreakInput{
					ProjectID: msg.ProjectID,
					BreakID:   msg.BreakID,
					Title:     msg.Title,
					Content:   msg.Content,
				}))
			}),
		ReorderBreak: build(b, "workspace.reorder_break",
			func(msg ReorderBreakCommand) map[string]any {
				return map[string]any{"project_id": msg.ProjectID, "from": msg.From, "to": msg.To}
			},
			func(ctx context.Context, msg ReorderBreakCommand) error {
				return storeProject(msg.Result)(ws.ReorderBreak(ctx, msg.ProjectID, msg.From, msg.To))
			}),
		EraseWorkspace: build(b, "workspace.erase",
			nil,
			func(ctx context.Context, msg EraseWorkspaceCommand) error {
				return storeProject(msg.Result)(ws.EraseAll(ctx))
			}),
		AddNote: build(b, "journal.add_note",
			func(msg AddNoteCommand) map[string]any {
				return map[string]any{"project_id": msg.ProjectID, "note_type": string(msg.NoteType)}
			},
			func(ctx context.Context, msg AddNoteCommand) error {
				var (
					result *journal.AddResult
					err    error
				)
				switch msg.NoteType {
				case journal.NoteImage:
					result, err = notes.AddImageNote(ctx, msg.ProjectID, msg.Content)
				default:
					result, err = notes.AddTextNote(ctx, msg.ProjectID, msg.Content)
				}
				if err != nil {
					return classify(err)
				}
				if msg.Result != nil {
					msg.Result.Note = result
				}
				return nil
			}),
	}
}

type builder struct {
	logger  interfaces.Logger
	timeout time.Duration
}

func build[T command.Message](b builder, operation string, fields func(T) map[string]any, exec func(context.Context, T) error) *commands.Handler[T] {
	opts := []commands.HandlerOption[T]{
		commands.WithLogger[T](b.logger),
		commands.WithOperation[T](operation),
		commands.WithTelemetry[T](commands.DefaultTelemetry[T](b.logger)),
	}
	if fields != nil {
		opts = append(opts, commands.WithMessageFields[T](fields))
	}
	if b.timeout != 0 {
		opts = append(opts, commands.WithTimeout[T](b.timeout))
	}
	return commands.NewHandler[T](exec, opts...)
}

func projectFields[T command.Message](id func(T) string) func(T) map[string]any {
	return func(msg T) map[string]any {
		return map[string]any{"project_id": id(msg)}
	}
}

// storeProject copies a service result into the message Result.
func storeProject(result *Result) func(*domain.Project, error) error {
	return func(project *domain.Project, err error) error {
		if err != nil {
			return classify(err)
		}
		if result != nil {
			result.Project = project
		}
		return nil
	}
}

// classify marks errors caused by caller input as validation failures.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, workspace.ErrTitleRequired),
		errors.Is(err, workspace.ErrBreakOutOfRange),
		errors.Is(err, journal.ErrNoteEmpty),
		errors.Is(err, journal.ErrUnsupportedImage),
		errors.Is(err, journal.ErrProjectIDRequired):
		return commands.Rejected(err)
	default:
		return err
	}
}
