package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const recordNamespace = "scribe:record:"

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by entity type to avoid cross-entity collisions.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// RecordUUID returns the primary key of the SQL row holding storage key.
func RecordUUID(storageKey string) uuid.UUID {
	return UUID(recordNamespace + strings.TrimSpace(storageKey))
}
