package di

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/goliatone/go-command/runner"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-quickstart/internal/catalog"
	quickstartcmd "github.com/goliatone/go-quickstart/internal/commands/quickstart"
	"github.com/goliatone/go-quickstart/internal/ingest"
	"github.com/goliatone/go-quickstart/internal/logging"
	"github.com/goliatone/go-quickstart/internal/logging/console"
	"github.com/goliatone/go-quickstart/internal/logging/gologger"
	"github.com/goliatone/go-quickstart/internal/runtimeconfig"
	"github.com/goliatone/go-quickstart/internal/source"
	"github.com/goliatone/go-quickstart/pkg/interfaces"
)

// Container wires the quickstart services from a validated configuration.
type Container struct {
	cfg runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	sourceFS       fs.FS
	bunDB          *bun.DB
	ownsDB         bool
	store          interfaces.CatalogStore
	registry       quickstartcmd.CommandRegistry
	dispatch       *quickstartcmd.DispatcherRegistry

	pipeline *ingest.Pipeline
	loader   *source.Loader
	handlers *quickstartcmd.HandlerSet
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by cfg.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithSourceFS sets the filesystem quickstart directories are read from.
// Defaults to the working directory.
func WithSourceFS(filesystem fs.FS) Option {
	return func(c *Container) {
		c.sourceFS = filesystem
	}
}

// WithBunDB stores records through db instead of opening cfg.Storage.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCatalogStore overrides the catalog store entirely.
func WithCatalogStore(store interfaces.CatalogStore) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithCommandRegistry registers the quickstart command handlers with reg.
func WithCommandRegistry(reg quickstartcmd.CommandRegistry) Option {
	return func(c *Container) {
		c.registry = reg
	}
}

// WithDispatcher subscribes the quickstart handlers to the go-command
// dispatcher. runnerOpts configure retries and timeouts of each dispatch.
// Close removes the subscriptions.
func WithDispatcher(runnerOpts ...runner.Option) Option {
	return func(c *Container) {
		c.dispatch = quickstartcmd.NewDispatcherRegistry(runnerOpts...)
		c.registry = c.dispatch
	}
}

// NewContainer validates cfg, applies opts and builds the services.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureStore(); err != nil {
		return nil, err
	}

	if c.sourceFS == nil {
		c.sourceFS = os.DirFS(".")
	}
	c.loader = source.NewLoader(c.sourceFS, source.LoaderConfig{
		PathPrefix:   cfg.Source.PathPrefix,
		AssetBaseURL: cfg.Source.AssetBaseURL,
	}, logging.SourceLogger(c.loggerProvider))

	c.pipeline = ingest.NewPipeline(ingest.Options{
		RepositoryURL: strings.TrimSpace(cfg.RepositoryURL),
		Policy:        cfg.ParsePolicy,
		Logger:        logging.IngestLogger(c.loggerProvider),
	})

	handlers, err := quickstartcmd.RegisterQuickstartCommands(c.registry, quickstartcmd.Dependencies{
		Source:   c.loader,
		Ingester: c.pipeline,
		Store:    c.store,
	}, c.loggerProvider)
	if err != nil {
		return nil, err
	}
	c.handlers = handlers

	return c, nil
}

// Config returns the configuration the container was built from.
func (c *Container) Config() runtimeconfig.Config { return c.cfg }

// LoggerProvider returns the active logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// Pipeline returns the normalization pipeline.
func (c *Container) Pipeline() *ingest.Pipeline { return c.pipeline }

// Loader returns the filesystem loader.
func (c *Container) Loader() *source.Loader { return c.loader }

// CatalogStore returns the catalog store, or nil when storage is disabled.
func (c *Container) CatalogStore() interfaces.CatalogStore { return c.store }

// IngestDirectoryHandler returns the handler for IngestDirectoryCommand.
func (c *Container) IngestDirectoryHandler() *quickstartcmd.IngestDirectoryHandler {
	return c.handlers.Ingest
}

// SyncCatalogHandler returns the handler for SyncCatalogCommand.
func (c *Container) SyncCatalogHandler() *quickstartcmd.SyncCatalogHandler {
	return c.handlers.Sync
}

// Close removes dispatcher subscriptions and releases the database opened
// by the container, if any.
func (c *Container) Close() error {
	if c.dispatch != nil {
		c.dispatch.Close()
	}
	if c.ownsDB && c.bunDB != nil {
		return c.bunDB.Close()
	}
	return nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(c.cfg.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:  c.cfg.Logging.Level,
			Format: c.cfg.Logging.Format,
			Focus:  c.cfg.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		level, ok := console.ParseLevel(c.cfg.Logging.Level)
		if !ok {
			level = console.LevelInfo
		}
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: level})
	}
	return nil
}

func (c *Container) configureStore() error {
	if c.store != nil {
		return nil
	}

	logger := logging.CatalogLogger(c.loggerProvider)
	switch {
	case c.bunDB != nil:
		db := c.bunDB
		c.store = newLazyStore(func(ctx context.Context) (interfaces.CatalogStore, error) {
			store := catalog.NewBunStore(db, logger)
			return store, store.EnsureSchema(ctx)
		})
	case strings.TrimSpace(c.cfg.Storage.Driver) != "":
		storage := c.cfg.Storage
		c.store = newLazyStore(func(ctx context.Context) (interfaces.CatalogStore, error) {
			db, err := catalog.Open(storage)
			if err != nil {
				return nil, err
			}
			store := catalog.NewBunStore(db, logger)
			if err := store.EnsureSchema(ctx); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("catalog %s: %w", storage.Driver, err)
			}
			c.bunDB, c.ownsDB = db, true
			logger.Info("quickstart.catalog.opened", "driver", storage.Driver)
			return store, nil
		})
	}

	if c.store == nil || c.cfg.Storage.CacheSize <= 0 {
		return nil
	}
	cached, err := catalog.NewCachedStore(c.store, c.cfg.Storage.CacheSize)
	if err != nil {
		return fmt.Errorf("catalog cache: %w", err)
	}
	c.store = cached
	return nil
}

// lazyStore opens its backing store on first use. A failed open is not
// remembered; the next call tries again.
type lazyStore struct {
	open  func(context.Context) (interfaces.CatalogStore, error)
	mu    sync.Mutex
	store interfaces.CatalogStore
}

func newLazyStore(open func(context.Context) (interfaces.CatalogStore, error)) *lazyStore {
	return &lazyStore{open: open}
}

func (s *lazyStore) get(ctx context.Context) (interfaces.CatalogStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		return s.store, nil
	}
	store, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	s.store = store
	return store, nil
}

func (s *lazyStore) Upsert(ctx context.Context, record *interfaces.QuickstartRecord) error {
	store, err := s.get(ctx)
	if err != nil {
		return err
	}
	return store.Upsert(ctx, record)
}

func (s *lazyStore) Get(ctx context.Context, id string) (*interfaces.QuickstartRecord, error) {
	store, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return store.Get(ctx, id)
}

func (s *lazyStore) List(ctx context.Context) ([]*interfaces.QuickstartRecord, error) {
	store, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return store.List(ctx)
}

func (s *lazyStore) Delete(ctx context.Context, id string) error {
	store, err := s.get(ctx)
	if err != nil {
		return err
	}
	return store.Delete(ctx, id)
}
