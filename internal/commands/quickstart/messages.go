package quickstartcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-quickstart/pkg/interfaces"
)

const (
	ingestDirectoryMessageType = "quickstart.ingest_directory"
	syncCatalogMessageType     = "quickstart.sync_catalog"
)

// IngestDirectoryCommand loads one quickstart directory, normalizes it and
// optionally stores the resulting record.
type IngestDirectoryCommand struct {
	// Directory is the quickstart directory relative to the loader's filesystem.
	Directory string `json:"directory"`
	// Store persists the record in the catalog when true.
	Store bool `json:"store,omitempty"`
	// Output receives the normalized record when non-nil.
	Output *interfaces.QuickstartRecord `json:"-"`
}

// Type implements command.Message.
func (IngestDirectoryCommand) Type() string { return ingestDirectoryMessageType }

// Validate ensures a directory is present before handlers execute.
func (cmd IngestDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(notBlank("quickstart.ingest_directory.directory_required", "directory is required"))),
	)
}

// SyncCatalogCommand discovers every quickstart below Root and ingests them
// one by one into the catalog.
type SyncCatalogCommand struct {
	Root string `json:"root"`
	// DryRun normalizes every quickstart without touching the catalog.
	DryRun bool `json:"dry_run,omitempty"`
	// Report receives per-quickstart outcomes when non-nil.
	Report *SyncReport `json:"-"`
}

// Type implements command.Message.
func (SyncCatalogCommand) Type() string { return syncCatalogMessageType }

// Validate ensures a root is present before handlers execute.
func (cmd SyncCatalogCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Root, validation.Required, validation.By(notBlank("quickstart.sync_catalog.root_required", "root is required"))),
	)
}

// SyncReport summarizes a catalog sync.
type SyncReport struct {
	Discovered int
	Stored     int
	Records    []*interfaces.QuickstartRecord
	Failures   []SyncFailure
}

// SyncFailure records a quickstart that could not be ingested or stored.
type SyncFailure struct {
	Directory string
	Err       error
}

func notBlank(code, message string) validation.RuleFunc {
	return func(value any) error {
		if s, _ := value.(string); strings.TrimSpace(s) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
