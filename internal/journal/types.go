package journal

import (
	"errors"
	"time"
)

var (
	ErrStoreRequired     = errors.New("journal: store is required")
	ErrProjectIDRequired = errors.New("journal: project id is required")
	ErrNoteEmpty         = errors.New("journal: note is empty")
	ErrUnsupportedImage  = errors.New("journal: image must be a png or jpeg data URL")
	ErrJournalCorrupted  = errors.New("journal: stored journal is unreadable")
	ErrProjectNotFound   = errors.New("journal: project not found")
)

// NoteType distinguishes text notes from image notes.
type NoteType string

const (
	NoteText  NoteType = "text"
	NoteImage NoteType = "image"
)

const (
	// ReminderThreshold is the note count a journal must exceed, and the number
	// of notes added since the previous reminder, before a backup reminder is
	// raised again.
	ReminderThreshold = 5
)

// Note is a journal entry. Image notes hold a data URL.
type Note struct {
	ID        string    `json:"id"`
	Type      NoteType  `json:"type"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Journal is the note list of one project.
type Journal struct {
	ProjectID         string `json:"projectId"`
	Notes             []Note `json:"notes"`
	LastReminderCount int    `json:"lastReminderCount"`
}

// AddResult reports an added note and whether a backup reminder is due.
type AddResult struct {
	Note     Note `json:"note"`
	Reminder bool `json:"reminder"`
	Total    int  `json:"total"`
}

// dueReminder reports whether a journal holding total notes should remind
// the writer to back up.
func dueReminder(total, lastReminder int) bool {
	return total > ReminderThreshold && total-lastReminder >= ReminderThreshold
}
