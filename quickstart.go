package quickstart

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/goliatone/go-command/runner"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-quickstart/internal/catalog"
	quickstartcmd "github.com/goliatone/go-quickstart/internal/commands/quickstart"
	"github.com/goliatone/go-quickstart/internal/di"
	"github.com/goliatone/go-quickstart/internal/httpapi"
	"github.com/goliatone/go-quickstart/internal/ingest"
	"github.com/goliatone/go-quickstart/internal/logging"
	"github.com/goliatone/go-quickstart/pkg/interfaces"
)

// Record is the normalized quickstart record.
type Record = interfaces.QuickstartRecord

// DashboardRecord, Screenshot and AlertRecord are the nested record parts.
type (
	DashboardRecord = interfaces.DashboardRecord
	Screenshot      = interfaces.Screenshot
	AlertRecord     = interfaces.AlertRecord
	Documentation   = interfaces.Documentation
	InstallPlan     = interfaces.InstallPlan
)

// FileMetadata is one raw file of a quickstart directory.
type FileMetadata = interfaces.FileMetadata

// FileType classifies a raw file.
type FileType = interfaces.FileType

// SyncReport summarizes a catalog sync.
type SyncReport = quickstartcmd.SyncReport

// SyncFailure describes one quickstart that failed during a sync.
type SyncFailure = quickstartcmd.SyncFailure

// Option customises the module wiring.
type Option = di.Option

const (
	FileTypeYAML  = interfaces.FileTypeYAML
	FileTypeJSON  = interfaces.FileTypeJSON
	FileTypeImage = interfaces.FileTypeImage
	FileTypeOther = interfaces.FileTypeOther
)

var (
	ErrConfigNotFound     = ingest.ErrConfigNotFound
	ErrConfigAmbiguous    = ingest.ErrConfigAmbiguous
	ErrConfigParse        = ingest.ErrConfigParse
	ErrDashboardParse     = ingest.ErrDashboardParse
	ErrAlertParse         = ingest.ErrAlertParse
	ErrRecordNotFound     = catalog.ErrRecordNotFound
	ErrStoreNotConfigured = quickstartcmd.ErrStoreNotConfigured
	ErrSyncIncomplete     = quickstartcmd.ErrSyncIncomplete
)

// WithLoggerProvider overrides the logger provider selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

// WithSourceFS sets the filesystem quickstart directories are read from.
func WithSourceFS(filesystem fs.FS) Option {
	return di.WithSourceFS(filesystem)
}

// WithBunDB stores records through db instead of opening Config.Storage.
func WithBunDB(db *bun.DB) Option {
	return di.WithBunDB(db)
}

// WithCatalogStore overrides the catalog store.
func WithCatalogStore(store interfaces.CatalogStore) Option {
	return di.WithCatalogStore(store)
}

// WithDispatcher subscribes the ingest and sync handlers to the go-command
// dispatcher, so IngestDirectoryCommand and SyncCatalogCommand can be sent
// with dispatcher.Dispatch.
func WithDispatcher(runnerOpts ...runner.Option) Option {
	return di.WithDispatcher(runnerOpts...)
}

// IngestDirectoryCommand and SyncCatalogCommand are the dispatchable messages.
type (
	IngestDirectoryCommand = quickstartcmd.IngestDirectoryCommand
	SyncCatalogCommand     = quickstartcmd.SyncCatalogCommand
)

// Module is the top level quickstart runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a Module from cfg.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Ingest normalizes files into a single record.
func (m *Module) Ingest(ctx context.Context, files []FileMetadata) (*Record, error) {
	return m.container.Pipeline().Ingest(ctx, files)
}

// IngestDirectory loads dir from the source filesystem and normalizes it.
// When store is true the record is also written to the catalog.
func (m *Module) IngestDirectory(ctx context.Context, dir string, store bool) (*Record, error) {
	var record Record
	err := m.container.IngestDirectoryHandler().Execute(ctx, quickstartcmd.IngestDirectoryCommand{
		Directory: dir,
		Store:     store,
		Output:    &record,
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Sync ingests every quickstart under root into the catalog. The report is
// returned even when some quickstarts failed.
func (m *Module) Sync(ctx context.Context, root string, dryRun bool) (SyncReport, error) {
	var report SyncReport
	err := m.container.SyncCatalogHandler().Execute(ctx, quickstartcmd.SyncCatalogCommand{
		Root:   root,
		DryRun: dryRun,
		Report: &report,
	})
	return report, err
}

// Catalog returns the catalog store, or nil when storage is disabled.
func (m *Module) Catalog() interfaces.CatalogStore {
	return m.container.CatalogStore()
}

// Handler returns the read-only catalog JSON API. It fails with
// ErrStoreNotConfigured when storage is disabled.
func (m *Module) Handler() (http.Handler, error) {
	store := m.container.CatalogStore()
	if store == nil {
		return nil, ErrStoreNotConfigured
	}
	logger := logging.HTTPLogger(m.container.LoggerProvider())
	return httpapi.NewServer(store, httpapi.WithLogger(logger)), nil
}

// Close releases resources held by the module.
func (m *Module) Close() error {
	return m.container.Close()
}
