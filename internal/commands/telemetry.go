package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-scribe/internal/logging"
	"github.com/goliatone/go-scribe/pkg/interfaces"
)

// Log events emitted around every workspace command.
const (
	EventCommandStart        = "scribe.command.start"
	EventCommandSuccess      = "scribe.command.success"
	EventCommandFailed       = "scribe.command.failed"
	EventCommandContextError = "scribe.command.context_error"
)

// TelemetryStatus classifies how a command run ended.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo is handed to a Telemetry hook once a command returns.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry observes a finished command run.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs the outcome event with the run duration. Message
// fields are attached when logger supports interfaces.FieldsLogger.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	logger = logging.Ensure(logger)
	return func(_ context.Context, _ T, info TelemetryInfo) {
		entry := logging.WithFields(logger, info.Fields)
		args := []any{"duration_ms", info.Duration.Milliseconds()}
		switch info.Status {
		case TelemetryStatusSuccess:
			entry.Info(EventCommandSuccess, args...)
		case TelemetryStatusContextError:
			entry.Error(EventCommandContextError, append(args, "error", info.Error)...)
		default:
			entry.Error(EventCommandFailed, append(args, "error", info.Error)...)
		}
	}
}
