package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	workspacecmd "github.com/goliatone/go-scribe/internal/commands/workspace"
	"github.com/goliatone/go-scribe/internal/journal"
	"github.com/goliatone/go-scribe/internal/logging"
	"github.com/goliatone/go-scribe/internal/markdown"
	"github.com/goliatone/go-scribe/internal/workspace"
	"github.com/goliatone/go-scribe/pkg/interfaces"
)

const (
	// DefaultBasePath is where the API mounts unless WithBasePath overrides it.
	DefaultBasePath = "/api"
	// DefaultMaxImportBytes caps import and preview request bodies.
	DefaultMaxImportBytes int64 = 10 << 20
)

// API serves the workspace, journal, preview and event endpoints.
type API struct {
	basePath       string
	maxImportBytes int64
	workspace      workspace.Service
	journal        journal.Service
	commands       *workspacecmd.HandlerSet
	parser         *markdown.Parser
	events         interfaces.StoreSubscriber
	logger         interfaces.Logger
	pingInterval   time.Duration
}

// Option mutates the API configuration.
type Option func(*API)

// NewAPI constructs an API. Reads go straight to the services; mutations run
// through the command handlers.
func NewAPI(ws workspace.Service, notes journal.Service, commands *workspacecmd.HandlerSet, opts ...Option) *API {
	api := &API{
		basePath:       DefaultBasePath,
		maxImportBytes: DefaultMaxImportBytes,
		workspace:      ws,
		journal:        notes,
		commands:       commands,
		parser:         markdown.NewParser(),
		logger:         logging.NoOp(),
		pingInterval:   30 * time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/api").
func WithBasePath(path string) Option {
	return func(api *API) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithMaxImportBytes caps the size of import and preview bodies.
func WithMaxImportBytes(limit int64) Option {
	return func(api *API) {
		if limit > 0 {
			api.maxImportBytes = limit
		}
	}
}

// WithParser sets the parser used by the preview endpoint.
func WithParser(parser *markdown.Parser) Option {
	return func(api *API) {
		if parser != nil {
			api.parser = parser
		}
	}
}

// WithEvents enables the websocket event stream.
func WithEvents(events interfaces.StoreSubscriber) Option {
	return func(api *API) {
		api.events = events
	}
}

// WithLogger sets the request logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		api.logger = logging.Ensure(logger)
	}
}

// WithPingInterval overrides the websocket keepalive interval.
func WithPingInterval(interval time.Duration) Option {
	return func(api *API) {
		if interval > 0 {
			api.pingInterval = interval
		}
	}
}

// Register attaches the endpoints to router.
func (api *API) Register(router gin.IRouter) error {
	if router == nil {
		return errors.New("http: router is required")
	}
	if api == nil {
		return errors.New("http: api is nil")
	}
	if api.workspace == nil || api.journal == nil || api.commands == nil {
		return errors.New("http: workspace, journal and command handlers are required")
	}

	group := router.Group(joinPath(api.basePath, ""))

	api.registerProjectRoutes(group)
	api.registerBreakRoutes(group)
	api.registerJournalRoutes(group)
	group.POST("/preview", api.preview)
	if api.events != nil {
		group.GET("/events", api.streamEvents)
	}
	return nil
}

// NewRouter returns a gin engine with recovery, request logging and the API
// mounted.
func NewRouter(api *API) (*gin.Engine, error) {
	engine := gin.New()
	engine.Use(gin.Recovery())
	if api != nil {
		engine.Use(requestLogger(api.logger))
	}
	if err := api.Register(engine); err != nil {
		return nil, err
	}
	return engine, nil
}

func requestLogger(logger interfaces.Logger) gin.HandlerFunc {
	logger = logging.Ensure(logger)
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := logging.WithFields(logger, map[string]any{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": status,
		})
		args := []any{"duration_ms", time.Since(started).Milliseconds()}
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("http.request", append(args, "errors", c.Errors.String())...)
		case status >= http.StatusBadRequest:
			entry.Warn("http.request", args...)
		default:
			entry.Debug("http.request", args...)
		}
	}
}
