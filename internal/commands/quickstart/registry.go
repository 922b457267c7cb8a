package quickstartcmd

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-quickstart/internal/commands"
	"github.com/goliatone/go-quickstart/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// DispatcherRegistry subscribes quickstart handlers to the go-command
// dispatcher so messages can be sent with dispatcher.Dispatch.
type DispatcherRegistry struct {
	runnerOpts []runner.Option

	mu   sync.Mutex
	subs []dispatcher.Subscription
}

// NewDispatcherRegistry returns a registry whose subscriptions run with
// runnerOpts, e.g. runner.WithMaxRetries.
func NewDispatcherRegistry(runnerOpts ...runner.Option) *DispatcherRegistry {
	return &DispatcherRegistry{runnerOpts: runnerOpts}
}

// RegisterCommand subscribes handler for its message type.
func (r *DispatcherRegistry) RegisterCommand(handler any) error {
	var sub dispatcher.Subscription
	switch h := handler.(type) {
	case *IngestDirectoryHandler:
		sub = dispatcher.SubscribeCommand[IngestDirectoryCommand](h, r.runnerOpts...)
	case *SyncCatalogHandler:
		sub = dispatcher.SubscribeCommand[SyncCatalogCommand](h, r.runnerOpts...)
	default:
		return fmt.Errorf("quickstart command: unsupported handler %T", handler)
	}

	r.mu.Lock()
	r.subs = append(r.subs, sub)
	r.mu.Unlock()
	return nil
}

// Close removes every subscription made through the registry.
func (r *DispatcherRegistry) Close() {
	r.mu.Lock()
	subs := r.subs
	r.subs = nil
	r.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

// HandlerSet groups the handlers built by RegisterQuickstartCommands.
type HandlerSet struct {
	Ingest *IngestDirectoryHandler
	Sync   *SyncCatalogHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	ingestHandlerOpts []commands.HandlerOption[IngestDirectoryCommand]
	syncHandlerOpts   []commands.HandlerOption[SyncCatalogCommand]
}

// WithIngestHandlerOptions forwards options to the IngestDirectoryHandler constructor.
func WithIngestHandlerOptions(opts ...commands.HandlerOption[IngestDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.ingestHandlerOpts = append(cfg.ingestHandlerOpts, opts...)
	}
}

// WithSyncHandlerOptions forwards options to the SyncCatalogHandler constructor.
func WithSyncHandlerOptions(opts ...commands.HandlerOption[SyncCatalogCommand]) Option {
	return func(cfg *options) {
		cfg.syncHandlerOpts = append(cfg.syncHandlerOpts, opts...)
	}
}

// RegisterQuickstartCommands builds the quickstart handlers and registers
// them with reg when it is non-nil.
func RegisterQuickstartCommands(reg CommandRegistry, deps Dependencies, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "quickstart")
	set := &HandlerSet{
		Ingest: NewIngestDirectoryHandler(deps, logger, cfg.ingestHandlerOpts...),
		Sync:   NewSyncCatalogHandler(deps, logger, cfg.syncHandlerOpts...),
	}

	if reg != nil {
		if err := reg.RegisterCommand(set.Ingest); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(set.Sync); err != nil {
			return nil, err
		}
	}
	return set, nil
}
