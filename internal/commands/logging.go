package commands

import (
	"github.com/goliatone/go-scribe/internal/logging"
	"github.com/goliatone/go-scribe/pkg/interfaces"
)

// CommandLogger returns a module-scoped logger for command handlers tagged
// with the command component.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	return logging.WithFields(logging.CommandLogger(provider, module), map[string]any{
		"component": "command",
	})
}
