package commands

import (
	"context"
	"errors"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-scribe/internal/logging"
	"github.com/goliatone/go-scribe/pkg/interfaces"
)

const defaultHandlerTimeout = DefaultCommandTimeout

// HandlerOption configures a Handler instance.
type HandlerOption[T command.Message] func(*Handler[T])

// MessageFields extracts structured log fields from a message.
type MessageFields[T command.Message] func(msg T) map[string]any

// Handler wraps command execution with shared concerns: validation, timeout,
// logging, telemetry and error tagging.
type Handler[T command.Message] struct {
	exec      command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
	fields    MessageFields[T]
	telemetry Telemetry[T]
	now       func() time.Time
}

// NewHandler creates a handler that satisfies go-command's Commander interface.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:    fn,
		logger:  logging.NoOp(),
		timeout: defaultHandlerTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute conforms to command.Commander[T].Execute.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return wrapValidationError(err)
	}

	ctx = EnsureContext(ctx)
	ctx, cancel := WithCommandTimeout(ctx, h.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return wrapContextError(err)
	}

	fields := map[string]any{
		"command": command.GetMessageType(msg),
	}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	if h.fields != nil {
		for key, value := range h.fields(msg) {
			fields[key] = value
		}
	}
	logger := logging.WithFields(h.logger, fields)
	logger.Debug(EventCommandStart)

	started := h.now()
	err := h.exec(ctx, msg)
	status := TelemetryStatusSuccess
	switch {
	case err != nil && isContextError(err):
		status = TelemetryStatusContextError
		err = wrapContextError(err)
	case err != nil:
		status = TelemetryStatusFailed
		err = wrapExecuteError(err)
	case ctx.Err() != nil:
		status = TelemetryStatusContextError
		err = wrapContextError(ctx.Err())
	}

	if h.telemetry != nil {
		h.telemetry(ctx, msg, TelemetryInfo{
			Command:   command.GetMessageType(msg),
			Operation: h.operation,
			Fields:    fields,
			Duration:  h.now().Sub(started),
			Error:     err,
			Status:    status,
			Logger:    logger,
		})
		return err
	}

	switch status {
	case TelemetryStatusSuccess:
		logger.Info(EventCommandSuccess)
	case TelemetryStatusContextError:
		logger.Error(EventCommandContextError, "error", err)
	default:
		logger.Error(EventCommandFailed, "error", err)
	}
	return err
}

// WithTimeout overrides the default execution timeout.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		if timeout <= 0 {
			h.timeout = 0
			return
		}
		h.timeout = timeout
	}
}

// WithLogger injects the logger used during execution. Defaults to a no-op logger.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.logger = EnsureLogger(logger)
	}
}

// WithOperation sets the operation name emitted with every log entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithMessageFields adds message derived fields to every log entry.
func WithMessageFields[T command.Message](fn MessageFields[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.fields = fn
	}
}

// WithTelemetry replaces the built-in outcome logging with fn.
func WithTelemetry[T command.Message](fn Telemetry[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.telemetry = fn
	}
}

// WithClock overrides the time source used for durations.
func WithClock[T command.Message](now func() time.Time) HandlerOption[T] {
	return func(h *Handler[T]) {
		if now != nil {
			h.now = now
		}
	}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
