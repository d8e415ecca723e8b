package storage

import (
	"context"
	"sync"
)

const watcherBuffer = 16

type changeBroadcaster struct {
	mu       sync.Mutex
	watchers map[uint64]chan ChangeEvent
	nextID   uint64
}

func newChangeBroadcaster() *changeBroadcaster {
	return &changeBroadcaster{
		watchers: make(map[uint64]chan ChangeEvent),
	}
}

// Subscribe registers a watcher until ctx is done. Slow watchers miss events
// instead of blocking writers.
func (b *changeBroadcaster) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		ch := make(chan ChangeEvent)
		close(ch)
		return ch, nil
	}
	ch := make(chan ChangeEvent, watcherBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.watchers[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.watchers, id)
		close(ch)
		b.mu.Unlock()
	}()

	return ch, nil
}

func (b *changeBroadcaster) Broadcast(evt ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.watchers {
		select {
		case ch <- evt:
		default:
		}
	}
}
