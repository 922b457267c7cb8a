package catalog

import (
	"errors"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-quickstart/pkg/interfaces"
)

// ErrRecordNotFound indicates that no record is stored under the requested key.
var ErrRecordNotFound = errors.New("catalog: record not found")

// ErrRecordKeyRequired indicates that an operation was called with a blank key.
var ErrRecordKeyRequired = errors.New("catalog: record key is required")

// ErrRecordRequired indicates that Upsert was called with a nil record.
var ErrRecordRequired = errors.New("catalog: record is required")

var errNoDatabase = errors.New("catalog: bun store requires a database")

var (
	_ interfaces.CatalogStore = (*BunStore)(nil)
	_ interfaces.CatalogStore = (*MemoryStore)(nil)
)

// RecordKey returns the key a record is stored under: its ID, else its name.
// It returns "" when the record carries neither.
func RecordKey(record *interfaces.QuickstartRecord) string {
	if record == nil {
		return ""
	}
	if key := strings.TrimSpace(record.ID); key != "" {
		return key
	}
	return strings.TrimSpace(record.Name)
}

// keyedClone copies record for storage. A copy without a key gets a
// generated ID; the caller's record is left untouched.
func keyedClone(record *interfaces.QuickstartRecord) (*interfaces.QuickstartRecord, string) {
	stored := cloneRecord(record)
	key := RecordKey(stored)
	if key == "" {
		stored.ID = uuid.NewString()
		key = stored.ID
	}
	return stored, key
}

func cloneRecord(record *interfaces.QuickstartRecord) *interfaces.QuickstartRecord {
	if record == nil {
		return nil
	}
	cloned := *record
	cloned.Authors = slices.Clone(record.Authors)
	cloned.Keywords = slices.Clone(record.Keywords)
	cloned.Documentation = slices.Clone(record.Documentation)
	cloned.InstallPlans = slices.Clone(record.InstallPlans)
	cloned.Alerts = slices.Clone(record.Alerts)
	cloned.RelatedResources = slices.Clone(record.RelatedResources)
	cloned.Dashboards = slices.Clone(record.Dashboards)
	for i := range cloned.Dashboards {
		cloned.Dashboards[i].Screenshots = slices.Clone(cloned.Dashboards[i].Screenshots)
	}
	return &cloned
}
