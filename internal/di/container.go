package di

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	workspacecmd "github.com/goliatone/go-scribe/internal/commands/workspace"
	scribehttp "github.com/goliatone/go-scribe/internal/http"
	"github.com/goliatone/go-scribe/internal/identity"
	"github.com/goliatone/go-scribe/internal/journal"
	"github.com/goliatone/go-scribe/internal/logging"
	"github.com/goliatone/go-scribe/internal/logging/console"
	"github.com/goliatone/go-scribe/internal/logging/gologger"
	"github.com/goliatone/go-scribe/internal/markdown"
	"github.com/goliatone/go-scribe/internal/runtimeconfig"
	"github.com/goliatone/go-scribe/internal/storage"
	"github.com/goliatone/go-scribe/internal/workspace"
	"github.com/goliatone/go-scribe/pkg/interfaces"
)

// Container wires module dependencies from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	store         storage.Store
	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	markdownFS  fs.FS
	markdownSvc *markdown.Service
	parser      *markdown.Parser
	ids         identity.Generator

	workspaceSvc workspace.Service
	journalSvc   journal.Service

	commandRegistry workspacecmd.CommandRegistry
	commands        *workspacecmd.HandlerSet
	unsubscribe     func()

	closeOnce sync.Once
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithStore overrides the store selected by the storage config.
func WithStore(store storage.Store) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithBunDB supplies an open database for the bun store. The container does
// not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache used by the bun store.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithMarkdownFS reads directory imports from filesystem instead of the
// configured content directory.
func WithMarkdownFS(filesystem fs.FS) Option {
	return func(c *Container) {
		c.markdownFS = filesystem
	}
}

// WithIDGenerator overrides project, break and note id generation.
func WithIDGenerator(gen identity.Generator) Option {
	return func(c *Container) {
		c.ids = gen
	}
}

// WithCommandRegistry registers the command handlers with registry.
func WithCommandRegistry(registry workspacecmd.CommandRegistry) Option {
	return func(c *Container) {
		c.commandRegistry = registry
	}
}

// WithWorkspaceService overrides the default workspace service binding.
func WithWorkspaceService(svc workspace.Service) Option {
	return func(c *Container) {
		c.workspaceSvc = svc
	}
}

// WithJournalService overrides the default journal service binding.
func WithJournalService(svc journal.Service) Option {
	return func(c *Container) {
		c.journalSvc = svc
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "scribe.di")

	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureMarkdown()
	c.configureServices()
	if err := c.configureCommands(); err != nil {
		c.Close()
		return nil, err
	}

	c.logger.Info("container.configured",
		"storage", c.storageProvider(),
		"cache", c.cacheService != nil,
		"commands", c.Config.Commands.Enabled,
		"dispatcher", c.unsubscribe != nil,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return fmt.Errorf("di: configure go-logger: %w", err)
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{}
		if level := strings.TrimSpace(c.Config.Logging.Level); level != "" {
			parsed, err := console.ParseLevel(level)
			if err != nil {
				return fmt.Errorf("di: configure console logger: %w", err)
			}
			opts.MinLevel = &parsed
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureStorage() error {
	if c.store != nil {
		return nil
	}

	if strings.ToLower(strings.TrimSpace(c.Config.Storage.Provider)) != runtimeconfig.StorageProviderBun {
		c.store = storage.NewMemoryStore()
		return nil
	}

	if c.bunDB == nil {
		db, err := storage.OpenDB(c.Config.Storage.Driver, c.Config.Storage.DSN)
		if err != nil {
			return fmt.Errorf("di: open storage: %w", err)
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if err := storage.Migrate(context.Background(), c.bunDB); err != nil {
		c.closeDB()
		return fmt.Errorf("di: migrate storage: %w", err)
	}

	c.configureCacheDefaults()

	storeOpts := []storage.BunOption{
		storage.WithStoreLogger(logging.StorageLogger(c.loggerProvider)),
	}
	if c.cacheService != nil {
		storeOpts = append(storeOpts, storage.WithCache(c.cacheService, c.keySerializer))
	}
	c.store = storage.NewBunStore(c.bunDB, storeOpts...)
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		service, serializer, err := storage.NewRepositoryCache(c.cacheTTL)
		if err != nil {
			c.logger.Warn("container.cache.disabled", "error", err)
			return
		}
		c.cacheService = service
		c.keySerializer = serializer
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureMarkdown() {
	mdCfg := c.Config.Markdown
	svcCfg := markdown.Config{
		BasePath:  mdCfg.ContentDir,
		Pattern:   mdCfg.Pattern,
		Recursive: mdCfg.Recursive,
		Parse: interfaces.ParseOptions{
			Setext: mdCfg.Setext,
			Render: interfaces.RenderOptions{
				Extensions: append([]string(nil), mdCfg.Parser.Extensions...),
				HardWraps:  mdCfg.Parser.HardWraps,
				SafeMode:   mdCfg.Parser.SafeMode,
			},
		},
	}
	logger := logging.MarkdownLogger(c.loggerProvider)

	if c.markdownFS != nil {
		c.markdownSvc = markdown.NewServiceFS(c.markdownFS, svcCfg, nil, logger)
	} else {
		svc, err := markdown.NewService(svcCfg, nil, logger)
		if err != nil {
			c.logger.Warn("container.markdown.directory_unavailable", "content_dir", mdCfg.ContentDir, "error", err)
		}
		c.markdownSvc = svc
	}

	if c.markdownSvc != nil {
		c.parser = c.markdownSvc.Parser()
		return
	}
	c.parser = markdown.NewParser(
		markdown.WithLogger(logger),
		markdown.WithDefaults(svcCfg.Parse),
	)
}

func (c *Container) configureServices() {
	if c.workspaceSvc == nil {
		opts := []workspace.ServiceOption{
			workspace.WithParser(c.parser),
			workspace.WithLogger(logging.WorkspaceLogger(c.loggerProvider)),
		}
		if c.ids != nil {
			opts = append(opts, workspace.WithIDGenerator(c.ids))
		}
		if c.markdownSvc != nil {
			opts = append(opts, workspace.WithDocumentLoader(c.markdownSvc))
		}
		c.workspaceSvc = workspace.NewService(c.store, opts...)
	}

	if c.journalSvc == nil {
		opts := []journal.ServiceOption{
			journal.WithLogger(logging.JournalLogger(c.loggerProvider)),
		}
		if c.ids != nil {
			opts = append(opts, journal.WithIDGenerator(c.ids))
		}
		c.journalSvc = journal.NewService(c.store, opts...)
	}
}

// configureCommands always builds the handler set used by the HTTP surface.
// Registry registration and dispatcher subscription follow the commands config.
func (c *Container) configureCommands() error {
	var registry workspacecmd.CommandRegistry
	if c.Config.Commands.Enabled {
		registry = c.commandRegistry
	}

	set, err := workspacecmd.RegisterWorkspaceCommands(
		registry,
		c.workspaceSvc,
		c.journalSvc,
		c.loggerProvider,
		workspacecmd.WithTimeout(c.Config.Commands.Timeout),
	)
	if err != nil {
		return fmt.Errorf("di: register commands: %w", err)
	}
	c.commands = set

	if c.Config.Commands.Enabled && c.Config.Commands.AutoRegisterDispatcher {
		c.unsubscribe = workspacecmd.SubscribeDispatcher(set)
	}
	return nil
}

func (c *Container) storageProvider() string {
	if c.bunDB != nil {
		return runtimeconfig.StorageProviderBun
	}
	return runtimeconfig.StorageProviderMemory
}

// LoggerProvider returns the configured provider, nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Store returns the key/value store backing the workspace.
func (c *Container) Store() storage.Store {
	return c.store
}

// MarkdownService returns the filesystem markdown service. It is nil when the
// content directory is unavailable.
func (c *Container) MarkdownService() *markdown.Service {
	return c.markdownSvc
}

// Parser returns the markdown parser shared by imports and previews.
func (c *Container) Parser() *markdown.Parser {
	return c.parser
}

func (c *Container) WorkspaceService() workspace.Service {
	return c.workspaceSvc
}

func (c *Container) JournalService() journal.Service {
	return c.journalSvc
}

// Commands returns the workspace and journal command handlers.
func (c *Container) Commands() *workspacecmd.HandlerSet {
	return c.commands
}

// HTTPAPI builds the API from the HTTP config.
func (c *Container) HTTPAPI() *scribehttp.API {
	opts := []scribehttp.Option{
		scribehttp.WithBasePath(c.Config.HTTP.BasePath),
		scribehttp.WithMaxImportBytes(c.Config.HTTP.MaxImportBytes),
		scribehttp.WithParser(c.parser),
		scribehttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	}
	if c.Config.Features.Events {
		opts = append(opts, scribehttp.WithEvents(c.store))
	}
	return scribehttp.NewAPI(c.workspaceSvc, c.journalSvc, c.commands, opts...)
}

// Router returns a gin engine serving HTTPAPI.
func (c *Container) Router() (*gin.Engine, error) {
	return scribehttp.NewRouter(c.HTTPAPI())
}

// Close releases the dispatcher subscriptions and any database the container
// opened itself.
func (c *Container) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.unsubscribe != nil {
			c.unsubscribe()
		}
		err = c.closeDB()
	})
	return err
}

func (c *Container) closeDB() error {
	if c.bunDB == nil || !c.ownsDB {
		return nil
	}
	if err := c.bunDB.Close(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
