package identity

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsDeterministic(t *testing.T) {
	first := RecordUUID("projects/abc")
	second := RecordUUID(" projects/abc ")
	if first != second {
		t.Fatalf("expected identical ids, got %s and %s", first, second)
	}
	if first == RecordUUID("projects/abd") {
		t.Fatalf("expected different keys to produce different ids")
	}
	if UUID("   ") != uuid.Nil {
		t.Fatalf("expected blank key to map to uuid.Nil")
	}
}

func TestNewIDIsUniqueWithinMillisecond(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := NewID(BreakPrefix)
		if !strings.HasPrefix(id, BreakPrefix) {
			t.Fatalf("expected prefix %q, got %q", BreakPrefix, id)
		}
		parsed, err := uuid.Parse(strings.TrimPrefix(id, BreakPrefix))
		if err != nil {
			t.Fatalf("parse %q: %v", id, err)
		}
		if parsed.Version() != 7 {
			t.Fatalf("expected uuid v7, got v%d", parsed.Version())
		}
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestSequenceCountsPerPrefix(t *testing.T) {
	gen := Sequence()
	if got := gen(ProjectPrefix); got != "project-1" {
		t.Fatalf("unexpected id %s", got)
	}
	if got := gen(BreakPrefix); got != "break-1" {
		t.Fatalf("unexpected id %s", got)
	}
	if got := gen(BreakPrefix); got != "break-2" {
		t.Fatalf("unexpected id %s", got)
	}
}

func TestSequenceConcurrentUse(t *testing.T) {
	gen := Sequence()
	var wg sync.WaitGroup
	ids := make(chan string, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- gen(NotePrefix)
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]struct{}{}
	for id := range ids {
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = struct{}{}
	}
}
