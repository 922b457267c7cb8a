package ingest

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-quickstart/internal/logging"
	"github.com/goliatone/go-quickstart/pkg/interfaces"
)

// Options configures a Pipeline.
type Options struct {
	// RepositoryURL is the base URL of the source repository used to build
	// PackURL, e.g. https://github.com/org/repo/tree/main.
	RepositoryURL string
	// Policy overrides the per-parser failure actions. Nil uses DefaultParsePolicy.
	Policy ParsePolicy
	Logger interfaces.Logger
}

// Pipeline normalizes raw quickstart files. It holds no per-run state, so a
// single Pipeline may serve concurrent Ingest calls.
type Pipeline struct {
	repositoryURL string
	policy        ParsePolicy
	logger        interfaces.Logger
}

var _ interfaces.QuickstartIngester = (*Pipeline)(nil)

// NewPipeline constructs a Pipeline.
func NewPipeline(opts Options) *Pipeline {
	policy := DefaultParsePolicy()
	for parser, action := range opts.Policy {
		if parser.Valid() && action.Valid() {
			policy[parser] = action
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	return &Pipeline{
		repositoryURL: opts.RepositoryURL,
		policy:        policy,
		logger:        logger,
	}
}

// Policy returns a copy of the effective parse policy.
func (p *Pipeline) Policy() ParsePolicy {
	out := make(ParsePolicy, len(p.policy))
	for parser, action := range p.policy {
		out[parser] = action
	}
	return out
}

// Ingest classifies files and reduces them into one QuickstartRecord. The
// context is only consulted between stages; parsing itself is not
// interruptible.
func (p *Pipeline) Ingest(ctx context.Context, files []interfaces.FileMetadata) (*interfaces.QuickstartRecord, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	run := p.withRunLogger(ctx)
	buckets := Classify(files)
	run.logger.Debug("quickstart.ingest.classified",
		"root", len(buckets.Root),
		"dashboards", len(buckets.Dashboards),
		"alerts", len(buckets.Alerts),
	)

	pack, err := run.ExtractConfig(buckets.Root)
	if err != nil {
		run.logger.Error("quickstart.ingest.config_failed", "error", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dashboards, err := run.AssembleDashboards(buckets.Dashboards)
	if err != nil {
		run.logger.Error("quickstart.ingest.dashboards_failed", "error", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	alerts, err := run.NormalizeAlerts(buckets.Alerts)
	if err != nil {
		run.logger.Error("quickstart.ingest.alerts_failed", "error", err)
		return nil, err
	}

	record := Merge(pack, dashboards, alerts)
	run.logger.Debug("quickstart.ingest.completed",
		"quickstart_id", record.ID,
		"dashboards", len(record.Dashboards),
		"alerts", len(record.Alerts),
	)
	return record, nil
}

// withRunLogger returns a shallow copy whose logger is tagged with a fresh
// ingest id and the caller's context.
func (p *Pipeline) withRunLogger(ctx context.Context) *Pipeline {
	logger := logging.WithFields(p.logger, map[string]any{
		"ingest_id": uuid.NewString(),
	})
	return &Pipeline{
		repositoryURL: p.repositoryURL,
		policy:        p.policy,
		logger:        logger.WithContext(ctx),
	}
}
