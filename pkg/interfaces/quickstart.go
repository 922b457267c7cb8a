package interfaces

import "context"

// FileType is the upstream classification attached to every raw file.
type FileType string

const (
	FileTypeYAML  FileType = "yaml"
	FileTypeJSON  FileType = "json"
	FileTypeImage FileType = "image"
	FileTypeOther FileType = "other"
)

// FileMetadata describes one raw file pulled from a quickstart directory. The
// upstream fetcher guarantees POSIX repository-relative paths and decoded text
// content; image content is an opaque URL or blob reference.
type FileMetadata struct {
	FilePath string   `json:"filePath"`
	FileName string   `json:"fileName"`
	Type     FileType `json:"type"`
	Content  string   `json:"content"`
}

// QuickstartRecord is the canonical record produced for a single quickstart.
// Every field is populated; placeholders stand in for missing source data so
// rendering layers never have to nil-check.
type QuickstartRecord struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Title            string            `json:"title"`
	Summary          string            `json:"summary"`
	Description      string            `json:"description"`
	Level            string            `json:"level"`
	Authors          []string          `json:"authors"`
	Keywords         []string          `json:"keywords"`
	PackURL          string            `json:"packUrl"`
	LogoURL          string            `json:"logoUrl,omitempty"`
	Documentation    []Documentation   `json:"documentation"`
	InstallPlans     []InstallPlan     `json:"installPlans"`
	Dashboards       []DashboardRecord `json:"dashboards"`
	Alerts           []AlertRecord     `json:"alerts"`
	RelatedResources []any             `json:"relatedResources"`
}

// Documentation links an external document to a quickstart.
type Documentation struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// InstallPlan references an install plan by identifier. Name is reserved for
// a catalog lookup that is not performed today and is always empty.
type InstallPlan struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DashboardRecord pairs a dashboard definition with its screenshots.
type DashboardRecord struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Screenshots []Screenshot `json:"screenshots"`
}

// Screenshot references a rendered dashboard image.
type Screenshot struct {
	PublicURL string `json:"publicURL"`
}

// AlertRecord summarises one alert policy condition.
type AlertRecord struct {
	Details string `json:"details"`
	Name    string `json:"name"`
	Type    string `json:"type"`
}

// QuickstartIngester turns a raw file list into one normalized record.
type QuickstartIngester interface {
	Ingest(ctx context.Context, files []FileMetadata) (*QuickstartRecord, error)
}

// CatalogStore persists normalized quickstart records.
type CatalogStore interface {
	Upsert(ctx context.Context, record *QuickstartRecord) error
	Get(ctx context.Context, id string) (*QuickstartRecord, error)
	List(ctx context.Context) ([]*QuickstartRecord, error)
	Delete(ctx context.Context, id string) error
}
