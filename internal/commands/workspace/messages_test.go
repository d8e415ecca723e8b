package workspacecmd

import (
	"errors"
	"testing"

	"github.com/goliatone/go-scribe/internal/journal"
)

func strPtr(value string) *string { return &value }

func TestMessagesValidate(t *testing.T) {
	cases := []struct {
		name    string
		msg     interface{ Validate() error }
		wantErr bool
	}{
		{name: "import empty source allowed", msg: ImportProjectCommand{Name: "draft.md"}},
		{name: "import directory blank", msg: ImportDirectoryCommand{Directory: "   "}, wantErr: true},
		{name: "import directory", msg: ImportDirectoryCommand{Directory: "content"}},
		{name: "create without title", msg: CreateProjectCommand{}},
		{name: "rename blank title", msg: RenameProjectCommand{ProjectID: "p1", Title: "  "}, wantErr: true},
		{name: "rename missing project", msg: RenameProjectCommand{Title: "New"}, wantErr: true},
		{name: "rename", msg: RenameProjectCommand{ProjectID: "p1", Title: "New"}},
		{name: "delete missing project", msg: DeleteProjectCommand{}, wantErr: true},
		{name: "select", msg: SelectProjectCommand{ProjectID: "p1"}},
		{name: "add break without title", msg: AddBreakCommand{ProjectID: "p1"}},
		{name: "remove break missing id", msg: RemoveBreakCommand{ProjectID: "p1"}, wantErr: true},
		{name: "switch break", msg: SwitchBreakCommand{ProjectID: "p1", BreakID: "b1"}},
		{name: "update nothing", msg: UpdateBreakCommand{ProjectID: "p1", BreakID: "b1"}, wantErr: true},
		{name: "update blank title", msg: UpdateBreakCommand{ProjectID: "p1", BreakID: "b1", Title: strPtr(" ")}, wantErr: true},
		{name: "update content", msg: UpdateBreakCommand{ProjectID: "p1", BreakID: "b1", Content: strPtr("[]")}},
		{name: "reorder negative", msg: ReorderBreakCommand{ProjectID: "p1", From: -1}, wantErr: true},
		{name: "reorder", msg: ReorderBreakCommand{ProjectID: "p1", From: 0, To: 2}},
		{name: "erase unconfirmed", msg: EraseWorkspaceCommand{}, wantErr: true},
		{name: "erase", msg: EraseWorkspaceCommand{Confirm: true}},
		{name: "note unknown type", msg: AddNoteCommand{ProjectID: "p1", NoteType: "audio", Content: "x"}, wantErr: true},
		{name: "note blank content", msg: AddNoteCommand{ProjectID: "p1", NoteType: journal.NoteText, Content: " "}, wantErr: true},
		{name: "note", msg: AddNoteCommand{ProjectID: "p1", NoteType: journal.NoteText, Content: "idea"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestUpdateBreakCommandNothingToUpdate(t *testing.T) {
	err := UpdateBreakCommand{ProjectID: "p1", BreakID: "b1"}.Validate()
	if !errors.Is(err, ErrNothingToUpdate) {
		t.Fatalf("expected ErrNothingToUpdate, got %v", err)
	}
}

func TestMessageTypes(t *testing.T) {
	types := map[string]string{
		ImportProjectCommand{}.Type():  "scribe.workspace.import_project",
		CreateProjectCommand{}.Type():  "scribe.workspace.create_project",
		EraseWorkspaceCommand{}.Type(): "scribe.workspace.erase",
		AddNoteCommand{}.Type():        "scribe.journal.add_note",
	}
	for got, want := range types {
		if got != want {
			t.Fatalf("expected message type %q, got %q", want, got)
		}
	}
}
