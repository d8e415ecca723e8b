package workspace

import (
	"errors"

	"github.com/goliatone/go-scribe/internal/storage"
)

func isMissingProject(err error) bool {
	return errors.Is(err, ErrProjectNotFound) || errors.Is(err, ErrProjectCorrupted)
}

func isStoreMiss(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
