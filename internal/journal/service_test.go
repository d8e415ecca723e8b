package journal_test

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goliatone/go-scribe/internal/identity"
	"github.com/goliatone/go-scribe/internal/journal"
	"github.com/goliatone/go-scribe/internal/storage"
)

var (
	pngDataURL  = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	jpegDataURL = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"))
)

func newJournal(t *testing.T) journal.Service {
	t.Helper()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := storage.NewMemoryStore()
	seedProjects(t, store, "project-1", "p", "a", "b")
	return journal.NewService(store,
		journal.WithIDGenerator(identity.Sequence()),
		journal.WithNow(func() time.Time { return now }),
	)
}

func seedProjects(t *testing.T, store storage.Store, ids ...string) {
	t.Helper()
	for _, id := range ids {
		if err := store.Save(context.Background(), storage.ProjectKey(id), []byte(`{"id":"`+id+`"}`)); err != nil {
			t.Fatalf("seed project %s: %v", id, err)
		}
	}
}

func TestJournal_AddTextNote(t *testing.T) {
	ctx := context.Background()
	svc := newJournal(t)

	result, err := svc.AddTextNote(ctx, "project-1", "  remember the lighthouse  ")
	if err != nil {
		t.Fatalf("AddTextNote() error = %v", err)
	}
	if result.Note.Content != "remember the lighthouse" || result.Note.Type != journal.NoteText {
		t.Fatalf("unexpected note %+v", result.Note)
	}
	if result.Note.ID != "note-1" || result.Total != 1 || result.Reminder {
		t.Fatalf("unexpected result %+v", result)
	}

	if _, err := svc.AddTextNote(ctx, "project-1", " \n\t"); !errors.Is(err, journal.ErrNoteEmpty) {
		t.Fatalf("expected ErrNoteEmpty, got %v", err)
	}
	if _, err := svc.AddTextNote(ctx, " ", "text"); !errors.Is(err, journal.ErrProjectIDRequired) {
		t.Fatalf("expected ErrProjectIDRequired, got %v", err)
	}

	notes, err := svc.List(ctx, "project-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}
}

func TestJournal_AddImageNote(t *testing.T) {
	ctx := context.Background()
	svc := newJournal(t)

	cases := []struct {
		name    string
		value   string
		wantErr error
	}{
		{name: "png", value: pngDataURL},
		{name: "jpeg", value: jpegDataURL},
		{name: "gif", value: "data:image/gif;base64," + base64.StdEncoding.EncodeToString([]byte("GIF89a")), wantErr: journal.ErrUnsupportedImage},
		{name: "mismatched payload", value: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("plain text")), wantErr: journal.ErrUnsupportedImage},
		{name: "not base64", value: "data:image/png;base64,@@@", wantErr: journal.ErrUnsupportedImage},
		{name: "plain url", value: "https://example.com/a.png", wantErr: journal.ErrUnsupportedImage},
		{name: "empty", value: "", wantErr: journal.ErrNoteEmpty},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := svc.AddImageNote(ctx, "project-1", tc.value)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("AddImageNote() error = %v", err)
			}
			if result.Note.Type != journal.NoteImage {
				t.Fatalf("expected image note, got %+v", result.Note)
			}
		})
	}
}

func TestJournal_SearchMatchesTextAndKeepsImages(t *testing.T) {
	ctx := context.Background()
	svc := newJournal(t)

	for _, text := range []string{"The Harbour at dawn", "a quiet street", "harbour lights"} {
		if _, err := svc.AddTextNote(ctx, "p", text); err != nil {
			t.Fatalf("AddTextNote() error = %v", err)
		}
	}
	if _, err := svc.AddImageNote(ctx, "p", pngDataURL); err != nil {
		t.Fatalf("AddImageNote() error = %v", err)
	}

	matches, err := svc.Search(ctx, "p", "HARBOUR")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 2 text matches and the image, got %+v", matches)
	}
	if matches[2].Type != journal.NoteImage {
		t.Fatalf("expected image note last, got %+v", matches[2])
	}

	all, err := svc.Search(ctx, "p", "")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("empty term should match everything, got %d", len(all))
	}
}

func TestJournal_Backup(t *testing.T) {
	ctx := context.Background()
	svc := newJournal(t)

	_, _ = svc.AddTextNote(ctx, "p", "first")
	_, _ = svc.AddImageNote(ctx, "p", pngDataURL)
	_, _ = svc.AddTextNote(ctx, "p", "second")

	backup, err := svc.Backup(ctx, "p")
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	want := "first\n\n[Image: " + pngDataURL + "]\n\nsecond"
	if backup != want {
		t.Fatalf("unexpected backup:\n%q\nwant\n%q", backup, want)
	}

	empty, err := svc.Backup(ctx, "other")
	if err != nil {
		t.Fatalf("Backup() empty error = %v", err)
	}
	if empty != "" {
		t.Fatalf("expected empty backup, got %q", empty)
	}
}

func TestJournal_ReminderCadence(t *testing.T) {
	ctx := context.Background()
	svc := newJournal(t)

	var reminders []int
	for i := 1; i <= 16; i++ {
		result, err := svc.AddTextNote(ctx, "p", fmt.Sprintf("note %d", i))
		if err != nil {
			t.Fatalf("AddTextNote() error = %v", err)
		}
		if result.Reminder {
			reminders = append(reminders, result.Total)
		}
	}
	want := []int{6, 11, 16}
	if len(reminders) != len(want) {
		t.Fatalf("expected reminders at %v, got %v", want, reminders)
	}
	for i := range want {
		if reminders[i] != want[i] {
			t.Fatalf("expected reminders at %v, got %v", want, reminders)
		}
	}
}

func TestJournal_JournalsArePerProject(t *testing.T) {
	ctx := context.Background()
	svc := newJournal(t)

	_, _ = svc.AddTextNote(ctx, "a", "alpha")
	_, _ = svc.AddTextNote(ctx, "b", "beta")

	notes, err := svc.List(ctx, "a")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(notes) != 1 || notes[0].Content != "alpha" {
		t.Fatalf("unexpected notes %+v", notes)
	}
}

func TestJournal_CorruptedJournal(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	if err := store.Save(ctx, storage.JournalKey("p"), []byte("{")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc := journal.NewService(store)
	if _, err := svc.List(ctx, "p"); !errors.Is(err, journal.ErrJournalCorrupted) {
		t.Fatalf("expected ErrJournalCorrupted, got %v", err)
	}
}

func TestJournal_AddRequiresStoredProject(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	svc := journal.NewService(store)

	if _, err := svc.AddTextNote(ctx, "ghost", "lost idea"); !errors.Is(err, journal.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
	if _, err := svc.AddImageNote(ctx, "ghost", pngDataURL); !errors.Is(err, journal.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound for image note, got %v", err)
	}
	if _, err := store.Load(ctx, storage.JournalKey("ghost")); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected no journal for unknown project, got %v", err)
	}

	notes, err := svc.List(ctx, "ghost")
	if err != nil || len(notes) != 0 {
		t.Fatalf("expected empty list for unknown project, got %v, %v", notes, err)
	}
}
