package storage

import (
	"errors"
	"strings"

	"github.com/goliatone/go-scribe/pkg/interfaces"
)

// ErrNotFound indicates that no value is stored under the requested key.
var ErrNotFound = errors.New("storage: key not found")

// ErrKeyRequired rejects blank keys.
var ErrKeyRequired = errors.New("storage: key is required")

const (
	// ProjectPrefix namespaces project documents.
	ProjectPrefix = "projects/"
	// JournalPrefix namespaces per-project journals.
	JournalPrefix = "journal/"
	// CurrentProjectKey holds the id of the selected project.
	CurrentProjectKey = "workspace/current"
)

// Store persists opaque values by key and broadcasts mutations.
type Store interface {
	interfaces.KeyValueStore
	interfaces.StoreSubscriber
}

// ChangeType enumerates store mutations.
type ChangeType = interfaces.StoreChangeType

// ChangeEvent reports a key mutation to subscribers.
type ChangeEvent = interfaces.StoreChangeEvent

const (
	ChangeCreated = interfaces.StoreChangeCreated
	ChangeUpdated = interfaces.StoreChangeUpdated
	ChangeDeleted = interfaces.StoreChangeDeleted
)

// ProjectKey returns the key of the project document with id.
func ProjectKey(id string) string {
	return ProjectPrefix + strings.TrimSpace(id)
}

// JournalKey returns the key of the journal owned by projectID.
func JournalKey(projectID string) string {
	return JournalPrefix + strings.TrimSpace(projectID)
}

// ProjectIDFromKey extracts the project id from a project key.
func ProjectIDFromKey(key string) (string, bool) {
	id, ok := strings.CutPrefix(key, ProjectPrefix)
	return id, ok && id != ""
}

func normalizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrKeyRequired
	}
	return key, nil
}
