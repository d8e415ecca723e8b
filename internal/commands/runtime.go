package commands

import (
	"context"
	"time"

	"github.com/goliatone/go-scribe/internal/logging"
	"github.com/goliatone/go-scribe/pkg/interfaces"
)

// DefaultCommandTimeout applies when a handler is built without WithTimeout.
const DefaultCommandTimeout = 30 * time.Second

// EnsureContext substitutes context.Background for a nil context.
func EnsureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// WithCommandTimeout bounds ctx by timeout. A non-positive timeout leaves ctx
// untouched and returns a no-op cancel.
func WithCommandTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// EnsureLogger is logging.Ensure for handler options.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	return logging.Ensure(logger)
}
