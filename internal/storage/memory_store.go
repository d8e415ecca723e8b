package storage

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"sync"
)

// MemoryStore keeps values in a map. It backs tests and single-process runs.
type MemoryStore struct {
	mu          sync.RWMutex
	values      map[string][]byte
	broadcaster *changeBroadcaster
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values:      map[string][]byte{},
		broadcaster: newChangeBroadcaster(),
	}
}

// Load returns a copy of the value stored under key.
func (s *MemoryStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(value), nil
}

// Save stores a copy of value. Saving identical bytes emits no event.
func (s *MemoryStore) Save(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	previous, existed := s.values[key]
	s.values[key] = bytes.Clone(value)
	s.mu.Unlock()

	switch {
	case !existed:
		s.broadcaster.Broadcast(ChangeEvent{Type: ChangeCreated, Key: key})
	case !bytes.Equal(previous, value):
		s.broadcaster.Broadcast(ChangeEvent{Type: ChangeUpdated, Key: key})
	}
	return nil
}

// Delete removes key or returns ErrNotFound.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if _, ok := s.values[key]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.values, key)
	s.mu.Unlock()

	s.broadcaster.Broadcast(ChangeEvent{Type: ChangeDeleted, Key: key})
	return nil
}

// Keys lists keys with prefix in ascending order.
func (s *MemoryStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	s.mu.RUnlock()
	slices.Sort(keys)
	return keys, nil
}

// Clear removes every key, emitting one deleted event per key.
func (s *MemoryStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	s.values = map[string][]byte{}
	s.mu.Unlock()

	slices.Sort(keys)
	for _, key := range keys {
		s.broadcaster.Broadcast(ChangeEvent{Type: ChangeDeleted, Key: key})
	}
	return nil
}

// Subscribe delivers change events until the context is cancelled.
func (s *MemoryStore) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return s.broadcaster.Subscribe(ctx)
}
