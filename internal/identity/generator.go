package identity

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

const (
	ProjectPrefix = "project-"
	BreakPrefix   = "break-"
	NotePrefix    = "note-"
)

// Generator returns a new unique identifier with the given prefix.
type Generator func(prefix string) string

// NewID returns prefix followed by a UUIDv7. Version 7 ids embed a millisecond
// timestamp plus random bits, so ids minted in the same millisecond still differ.
func NewID(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return prefix + id.String()
}

// Sequence returns a deterministic Generator producing prefix-1, prefix-2, ...
// with one counter per prefix. It is safe for concurrent use.
func Sequence() Generator {
	var mu sync.Mutex
	counters := map[string]int{}
	return func(prefix string) string {
		mu.Lock()
		defer mu.Unlock()
		counters[prefix]++
		return prefix + strconv.Itoa(counters[prefix])
	}
}

// OrDefault returns gen, or NewID when gen is nil.
func OrDefault(gen Generator) Generator {
	if gen == nil {
		return NewID
	}
	return gen
}
