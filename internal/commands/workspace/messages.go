package workspacecmd

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-scribe/internal/domain"
	"github.com/goliatone/go-scribe/internal/journal"
	"github.com/goliatone/go-scribe/internal/workspace"
	"github.com/goliatone/go-scribe/pkg/interfaces"
)

const (
	importProjectMessageType   = "scribe.workspace.import_project"
	importDirectoryMessageType = "scribe.workspace.import_directory"
	createProjectMessageType   = "scribe.workspace.create_project"
	renameProjectMessageType   = "scribe.workspace.rename_project"
	deleteProjectMessageType   = "scribe.workspace.delete_project"
	selectProjectMessageType   = "scribe.workspace.select_project"
	addBreakMessageType        = "scribe.workspace.add_break"
	removeBreakMessageType     = "scribe.workspace.remove_break"
	switchBreakMessageType     = "scribe.workspace.switch_break"
	updateBreakMessageType     = "scribe.workspace.update_break"
	reorderBreakMessageType    = "scribe.workspace.reorder_break"
	eraseWorkspaceMessageType  = "scribe.workspace.erase"
	addNoteMessageType         = "scribe.journal.add_note"

	maxTitleLength = 200
	maxNameLength  = 255
)

// Result receives the state produced by a command. Messages carry an optional
// pointer so callers can read back what the handler produced.
type Result struct {
	Project *domain.Project
	Outcome *workspace.ImportOutcome
	Import  *interfaces.ImportResult
	Note    *journal.AddResult
}

func notBlank(code, message string) validation.Rule {
	return validation.By(func(value any) error {
		var text string
		switch v := value.(type) {
		case string:
			text = v
		case *string:
			if v == nil {
				return nil
			}
			text = *v
		}
		if strings.TrimSpace(text) == "" {
			return validation.NewError(code, message)
		}
		return nil
	})
}

// ImportProjectCommand imports a markdown source as a new project.
type ImportProjectCommand struct {
	// Name is the originating file name, used as title fallback.
	Name string `json:"name"`
	// Source is the raw markdown. Empty sources import as one empty chapter.
	Source []byte `json:"source"`
	// Setext enables "=" underlined headings.
	Setext bool `json:"setext,omitempty"`
	// Preview renders an HTML preview alongside the import.
	Preview bool `json:"preview,omitempty"`
	// DryRun parses and assembles without persisting.
	DryRun bool    `json:"dry_run,omitempty"`
	Result *Result `json:"-"`
}

// Type implements command.Message.
func (ImportProjectCommand) Type() string { return importProjectMessageType }

// Validate implements command.Message.
func (cmd ImportProjectCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Name, validation.Length(0, maxNameLength)),
	)
}

// ImportDirectoryCommand imports every markdown file below Directory.
type ImportDirectoryCommand struct {
	Directory string  `json:"directory"`
	Select    bool    `json:"select,omitempty"`
	DryRun    bool    `json:"dry_run,omitempty"`
	Setext    bool    `json:"setext,omitempty"`
	Result    *Result `json:"-"`
}

// Type implements command.Message.
func (ImportDirectoryCommand) Type() string { return importDirectoryMessageType }

// Validate implements command.Message.
func (cmd ImportDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required,
			notBlank("scribe.workspace.import_directory.directory_required", "directory is required")),
	)
}

// CreateProjectCommand creates a project with one empty break. A blank title
// selects the default project title.
type CreateProjectCommand struct {
	Title  string  `json:"title"`
	Result *Result `json:"-"`
}

// Type implements command.Message.
func (CreateProjectCommand) Type() string { return createProjectMessageType }

// Validate implements command.Message.
func (cmd CreateProjectCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Title, validation.Length(0, maxTitleLength)),
	)
}

// RenameProjectCommand retitles a project.
type RenameProjectCommand struct {
	ProjectID string  `json:"project_id"`
	Title     string  `json:"title"`
	Result    *Result `json:"-"`
}

// Type implements command.Message.
func (RenameProjectCommand) Type() string { return renameProjectMessageType }

// Validate implements command.Message.
func (cmd RenameProjectCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ProjectID, validation.Required),
		validation.Field(&cmd.Title, validation.Required, validation.Length(1, maxTitleLength),
			notBlank("scribe.workspace.rename_project.title_required", "title is required")),
	)
}

// DeleteProjectCommand removes a project and its journal.
type DeleteProjectCommand struct {
	ProjectID string  `json:"project_id"`
	Result    *Result `json:"-"`
}

// Type implements command.Message.
func (DeleteProjectCommand) Type() string { return deleteProjectMessageType }

// Validate implements command.Message.
func (cmd DeleteProjectCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ProjectID, validation.Required),
	)
}

// SelectProjectCommand makes a project current.
type SelectProjectCommand struct {
	ProjectID string  `json:"project_id"`
	Result    *Result `json:"-"`
}

// Type implements command.Message.
func (SelectProjectCommand) Type() string { return selectProjectMessageType }

// Validate implements command.Message.
func (cmd SelectProjectCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ProjectID, validation.Required),
	)
}

// AddBreakCommand appends a break and makes it current.
type AddBreakCommand struct {
	ProjectID string  `json:"project_id"`
	Title     string  `json:"title"`
	Result    *Result `json:"-"`
}

// Type implements command.Message.
func (AddBreakCommand) Type() string { return addBreakMessageType }

// Validate implements command.Message.
func (cmd AddBreakCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ProjectID, validation.Required),
		validation.Field(&cmd.Title, validation.Length(0, maxTitleLength)),
	)
}

// RemoveBreakCommand drops a break from a project.
type RemoveBreakCommand struct {
	ProjectID string  `json:"project_id"`
	BreakID   string  `json:"break_id"`
	Result    *Result `json:"-"`
}

// Type implements command.Message.
func (RemoveBreakCommand) Type() string { return removeBreakMessageType }

// Validate implements command.Message.
func (cmd RemoveBreakCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ProjectID, validation.Required),
		validation.Field(&cmd.BreakID, validation.Required),
	)
}

// SwitchBreakCommand changes the current break of a project.
type SwitchBreakCommand struct {
	ProjectID string  `json:"project_id"`
	BreakID   string  `json:"break_id"`
	Result    *Result `json:"-"`
}

// Type implements command.Message.
func (SwitchBreakCommand) Type() string { return switchBreakMessageType }

// Validate implements command.Message.
func (cmd SwitchBreakCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ProjectID, validation.Required),
		validation.Field(&cmd.BreakID, validation.Required),
	)
}

// ErrNothingToUpdate rejects UpdateBreakCommand messages without changes.
var ErrNothingToUpdate = errors.New("workspace command: title or content is required")

// UpdateBreakCommand changes the title and/or content of a break.
type UpdateBreakCommand struct {
	ProjectID string  `json:"project_id"`
	BreakID   string  `json:"break_id"`
	Title     *string `json:"title,omitempty"`
	// Content is the JSON encoded paragraph list.
	Content *string `json:"content,omitempty"`
	Result  *Result `json:"-"`
}

// Type implements command.Message.
func (UpdateBreakCommand) Type() string { return updateBreakMessageType }

// Validate implements command.Message.
func (cmd UpdateBreakCommand) Validate() error {
	if cmd.Title == nil && cmd.Content == nil {
		return ErrNothingToUpdate
	}
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ProjectID, validation.Required),
		validation.Field(&cmd.BreakID, validation.Required),
		validation.Field(&cmd.Title,
			notBlank("scribe.workspace.update_break.title_required", "title cannot be blank"),
			validation.Length(1, maxTitleLength)),
	)
}

// ReorderBreakCommand moves a break to a new position.
type ReorderBreakCommand struct {
	ProjectID string  `json:"project_id"`
	From      int     `json:"from"`
	To        int     `json:"to"`
	Result    *Result `json:"-"`
}

// Type implements command.Message.
func (ReorderBreakCommand) Type() string { return reorderBreakMessageType }

// Validate implements command.Message.
func (cmd ReorderBreakCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ProjectID, validation.Required),
		validation.Field(&cmd.From, validation.Min(0)),
		validation.Field(&cmd.To, validation.Min(0)),
	)
}

// EraseWorkspaceCommand wipes every project and journal. Confirm must be set.
type EraseWorkspaceCommand struct {
	Confirm bool    `json:"confirm"`
	Result  *Result `json:"-"`
}

// Type implements command.Message.
func (EraseWorkspaceCommand) Type() string { return eraseWorkspaceMessageType }

// Validate implements command.Message.
func (cmd EraseWorkspaceCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Confirm, validation.Required.Error("confirmation is required")),
	)
}

// AddNoteCommand appends a text or image note to a project journal.
type AddNoteCommand struct {
	ProjectID string           `json:"project_id"`
	NoteType  journal.NoteType `json:"type"`
	// Content is the note text, or a data URL for image notes.
	Content string  `json:"content"`
	Result  *Result `json:"-"`
}

// Type implements command.Message.
func (AddNoteCommand) Type() string { return addNoteMessageType }

// Validate implements command.Message.
func (cmd AddNoteCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ProjectID, validation.Required),
		validation.Field(&cmd.NoteType, validation.Required, validation.In(journal.NoteText, journal.NoteImage)),
		validation.Field(&cmd.Content, validation.Required,
			notBlank("scribe.journal.add_note.content_required", "content is required")),
	)
}
