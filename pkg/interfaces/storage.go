package interfaces

import "context"

// KeyValueStore is the persistence port used by the workspace and journal
// services. Values are opaque byte slices, usually JSON documents.
type KeyValueStore interface {
	// Load returns the stored value or an error matching storage.ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys lists stored keys with the given prefix in ascending order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Clear(ctx context.Context) error
}

// StoreChangeType enumerates mutations broadcast by stores.
type StoreChangeType string

const (
	StoreChangeCreated StoreChangeType = "created"
	StoreChangeUpdated StoreChangeType = "updated"
	StoreChangeDeleted StoreChangeType = "deleted"
)

// StoreChangeEvent describes a single key mutation.
type StoreChangeEvent struct {
	Type StoreChangeType `json:"type"`
	Key  string          `json:"key"`
}

// StoreSubscriber is implemented by stores that broadcast change events. The
// returned channel is closed when ctx is cancelled.
type StoreSubscriber interface {
	Subscribe(ctx context.Context) (<-chan StoreChangeEvent, error)
}
