package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-scribe/internal/identity"
	"github.com/goliatone/go-scribe/internal/logging"
	"github.com/goliatone/go-scribe/internal/storage"
	"github.com/goliatone/go-scribe/pkg/interfaces"
)

// Service records free-form notes next to a project.
type Service interface {
	AddTextNote(ctx context.Context, projectID, content string) (*AddResult, error)
	AddImageNote(ctx context.Context, projectID, dataURL string) (*AddResult, error)
	List(ctx context.Context, projectID string) ([]Note, error)
	Search(ctx context.Context, projectID, term string) ([]Note, error)
	Backup(ctx context.Context, projectID string) (string, error)
}

// ServiceOption configures the journal service.
type ServiceOption func(*service)

// WithIDGenerator overrides note id generation.
func WithIDGenerator(gen identity.Generator) ServiceOption {
	return func(s *service) {
		if gen != nil {
			s.ids = gen
		}
	}
}

// WithNow overrides the time source.
func WithNow(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
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
	store  storage.Store
	ids    identity.Generator
	now    func() time.Time
	logger interfaces.Logger
	mu     sync.Mutex
}

// NewService constructs a journal service backed by store.
func NewService(store storage.Store, opts ...ServiceOption) Service {
	if store == nil {
		panic(ErrStoreRequired)
	}
	s := &service{
		store:  store,
		ids:    identity.NewID,
		now:    time.Now,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddTextNote appends a trimmed text note.
func (s *service) AddTextNote(ctx context.Context, projectID, content string) (*AddResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrNoteEmpty
	}
	return s.add(ctx, projectID, NoteText, content)
}

// AddImageNote appends a png or jpeg image given as a base64 data URL.
func (s *service) AddImageNote(ctx context.Context, projectID, dataURL string) (*AddResult, error) {
	if strings.TrimSpace(dataURL) == "" {
		return nil, ErrNoteEmpty
	}
	if err := validateImageDataURL(dataURL); err != nil {
		return nil, err
	}
	return s.add(ctx, projectID, NoteImage, strings.TrimSpace(dataURL))
}

func (s *service) add(ctx context.Context, projectID string, kind NoteType, content string) (*AddResult, error) {
	projectID, err := normalizeProjectID(projectID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	journal, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	note := Note{
		ID:        s.ids(identity.NotePrefix),
		Type:      kind,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	journal.Notes = append(journal.Notes, note)

	total := len(journal.Notes)
	reminder := dueReminder(total, journal.LastReminderCount)
	if reminder {
		journal.LastReminderCount = total
	}
	if err := s.save(ctx, journal); err != nil {
		return nil, err
	}

	s.logger.Debug("journal.note.added",
		"project_id", projectID,
		"note_id", note.ID,
		"type", string(kind),
		"total", total,
	)
	if reminder {
		s.logger.Info("journal.backup.reminder", "project_id", projectID, "total", total)
	}
	return &AddResult{Note: note, Reminder: reminder, Total: total}, nil
}

// List returns notes in insertion order.
func (s *service) List(ctx context.Context, projectID string) ([]Note, error) {
	projectID, err := normalizeProjectID(projectID)
	if err != nil {
		return nil, err
	}
	journal, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return journal.Notes, nil
}

// Search filters text notes by a case-insensitive substring. Image notes
// always match.
func (s *service) Search(ctx context.Context, projectID, term string) ([]Note, error) {
	notes, err := s.List(ctx, projectID)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(term)
	out := make([]Note, 0, len(notes))
	for _, note := range notes {
		if note.Type != NoteText || strings.Contains(strings.ToLower(note.Content), needle) {
			out = append(out, note)
		}
	}
	return out, nil
}

// Backup renders the journal as plain text: text notes verbatim, image notes
// as "[Image: <data URL>]", separated by blank lines.
func (s *service) Backup(ctx context.Context, projectID string) (string, error) {
	notes, err := s.List(ctx, projectID)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(notes))
	for _, note := range notes {
		if note.Type == NoteImage {
			parts = append(parts, "[Image: "+note.Content+"]")
			continue
		}
		parts = append(parts, note.Content)
	}
	return strings.Join(parts, "\n\n"), nil
}

// requireProject keeps notes from creating journals for projects that were
// never stored.
func (s *service) requireProject(ctx context.Context, projectID string) error {
	if _, err := s.store.Load(ctx, storage.ProjectKey(projectID)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
		}
		return err
	}
	return nil
}

func (s *service) load(ctx context.Context, projectID string) (*Journal, error) {
	raw, err := s.store.Load(ctx, storage.JournalKey(projectID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &Journal{ProjectID: projectID, Notes: []Note{}}, nil
		}
		return nil, err
	}
	var journal Journal
	if err := json.Unmarshal(raw, &journal); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrJournalCorrupted, projectID, err)
	}
	journal.ProjectID = projectID
	if journal.Notes == nil {
		journal.Notes = []Note{}
	}
	return &journal, nil
}

func (s *service) save(ctx context.Context, journal *Journal) error {
	raw, err := json.Marshal(journal)
	if err != nil {
		return fmt.Errorf("journal: encode %s: %w", journal.ProjectID, err)
	}
	return s.store.Save(ctx, storage.JournalKey(journal.ProjectID), raw)
}

func normalizeProjectID(projectID string) (string, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return "", ErrProjectIDRequired
	}
	return projectID, nil
}
