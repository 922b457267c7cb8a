package quickstartcmd

import (
	"context"
	"errors"
	"fmt"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-quickstart/internal/commands"
	"github.com/goliatone/go-quickstart/internal/logging"
	"github.com/goliatone/go-quickstart/pkg/interfaces"
)

const (
	ingestOperation = "quickstart.ingest_directory"
	syncOperation   = "quickstart.sync_catalog"
)

var (
	// ErrStoreNotConfigured is returned when a command needs the catalog but none was supplied.
	ErrStoreNotConfigured = errors.New("quickstart command: catalog store not configured")
	// ErrSyncIncomplete is returned after a sync in which at least one quickstart failed.
	ErrSyncIncomplete = errors.New("quickstart command: sync incomplete")
)

var (
	_ command.Commander[IngestDirectoryCommand] = (*IngestDirectoryHandler)(nil)
	_ command.Commander[SyncCatalogCommand]     = (*SyncCatalogHandler)(nil)
)

// Source yields raw quickstart files, e.g. *source.Loader.
type Source interface {
	LoadQuickstart(ctx context.Context, dir string) ([]interfaces.FileMetadata, error)
	Discover(ctx context.Context, root string) ([]string, error)
}

// Dependencies groups the collaborators shared by the quickstart handlers.
// Store may be nil for preview-only use.
type Dependencies struct {
	Source   Source
	Ingester interfaces.QuickstartIngester
	Store    interfaces.CatalogStore
}

func (d Dependencies) validate() error {
	if d.Source == nil {
		return errors.New("quickstart command: source is nil")
	}
	if d.Ingester == nil {
		return errors.New("quickstart command: ingester is nil")
	}
	return nil
}

func (d Dependencies) ingest(ctx context.Context, dir string) (*interfaces.QuickstartRecord, error) {
	files, err := d.Source.LoadQuickstart(ctx, dir)
	if err != nil {
		return nil, err
	}
	return d.Ingester.Ingest(ctx, files)
}

// IngestDirectoryHandler runs IngestDirectoryCommand through the shared handler.
type IngestDirectoryHandler struct {
	inner *commands.Handler[IngestDirectoryCommand]
}

// NewIngestDirectoryHandler creates a handler bound to deps.
func NewIngestDirectoryHandler(deps Dependencies, logger interfaces.Logger, opts ...commands.HandlerOption[IngestDirectoryCommand]) *IngestDirectoryHandler {
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg IngestDirectoryCommand) error {
		if msg.Store && deps.Store == nil {
			return ErrStoreNotConfigured
		}

		record, err := deps.ingest(ctx, msg.Directory)
		if err != nil {
			return err
		}
		if msg.Store {
			if err := deps.Store.Upsert(ctx, record); err != nil {
				return err
			}
		}
		if msg.Output != nil {
			*msg.Output = *record
		}

		logging.WithFields(logger, map[string]any{
			"directory":  msg.Directory,
			"name":       record.Name,
			"dashboards": len(record.Dashboards),
			"alerts":     len(record.Alerts),
			"stored":     msg.Store,
		}).Info("quickstart.command.ingest_directory.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[IngestDirectoryCommand]{
		commands.WithLogger[IngestDirectoryCommand](logger),
		commands.WithOperation[IngestDirectoryCommand](ingestOperation),
		commands.WithMessageFields(func(msg IngestDirectoryCommand) map[string]any {
			fields := map[string]any{"directory": msg.Directory}
			if msg.Store {
				fields["store"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[IngestDirectoryCommand](logger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &IngestDirectoryHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[IngestDirectoryCommand].
func (h *IngestDirectoryHandler) Execute(ctx context.Context, msg IngestDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SyncCatalogHandler runs SyncCatalogCommand through the shared handler.
type SyncCatalogHandler struct {
	inner *commands.Handler[SyncCatalogCommand]
}

// NewSyncCatalogHandler creates a handler bound to deps. A failing quickstart
// is recorded in the report and the sync moves on to the next one. Syncs
// run without a deadline unless opts supply commands.WithTimeout.
func NewSyncCatalogHandler(deps Dependencies, logger interfaces.Logger, opts ...commands.HandlerOption[SyncCatalogCommand]) *SyncCatalogHandler {
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg SyncCatalogCommand) error {
		if !msg.DryRun && deps.Store == nil {
			return ErrStoreNotConfigured
		}

		dirs, err := deps.Source.Discover(ctx, msg.Root)
		if err != nil {
			return err
		}

		report := SyncReport{Discovered: len(dirs)}
		for _, dir := range dirs {
			if err := ctx.Err(); err != nil {
				return err
			}

			itemCtx := logging.ContextWithFields(ctx, map[string]any{"directory": dir})
			record, err := deps.ingest(itemCtx, dir)
			if err == nil && !msg.DryRun {
				err = deps.Store.Upsert(itemCtx, record)
			}
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logging.WithFields(logger, map[string]any{"directory": dir}).
					Warn("quickstart.command.sync_catalog.quickstart_failed", "error", err)
				report.Failures = append(report.Failures, SyncFailure{Directory: dir, Err: err})
				continue
			}

			report.Records = append(report.Records, record)
			if !msg.DryRun {
				report.Stored++
			}
		}

		if msg.Report != nil {
			*msg.Report = report
		}

		logging.WithFields(logger, map[string]any{
			"root":             msg.Root,
			"discovered_count": report.Discovered,
			"stored_count":     report.Stored,
			"failed_count":     len(report.Failures),
			"dry_run":          msg.DryRun,
		}).Info("quickstart.command.sync_catalog.completed")

		if len(report.Failures) > 0 {
			return fmt.Errorf("%w: %d of %d quickstarts failed", ErrSyncIncomplete, len(report.Failures), report.Discovered)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[SyncCatalogCommand]{
		commands.WithTimeout[SyncCatalogCommand](0),
		commands.WithLogger[SyncCatalogCommand](logger),
		commands.WithOperation[SyncCatalogCommand](syncOperation),
		commands.WithMessageFields(func(msg SyncCatalogCommand) map[string]any {
			fields := map[string]any{"root": msg.Root}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SyncCatalogCommand](logger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncCatalogHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[SyncCatalogCommand].
func (h *SyncCatalogHandler) Execute(ctx context.Context, msg SyncCatalogCommand) error {
	return h.inner.Execute(ctx, msg)
}
