package workspace

import "errors"

var (
	ErrStoreRequired    = errors.New("workspace: store is required")
	ErrProjectNotFound  = errors.New("workspace: project not found")
	ErrBreakNotFound    = errors.New("workspace: break not found")
	ErrTitleRequired    = errors.New("workspace: title is required")
	ErrBreakOutOfRange  = errors.New("workspace: break position out of range")
	ErrLoaderRequired   = errors.New("workspace: document loader is required")
	ErrProjectCorrupted = errors.New("workspace: stored project is unreadable")
)
