package ingest

import (
	"encoding/json"
	"path"
	"strings"

	"github.com/goliatone/go-quickstart/internal/logging"
	"github.com/goliatone/go-quickstart/pkg/interfaces"
)

type dashboardDocument struct {
	Name        optionalString `json:"name"`
	Description optionalString `json:"description"`
}

// IsDashboardDefinition reports whether file is a dashboard JSON config
// rather than a screenshot asset.
func IsDashboardDefinition(file interfaces.FileMetadata) bool {
	return file.Type == interfaces.FileTypeJSON || strings.HasSuffix(strings.ToLower(file.FilePath), ".json")
}

// dashboardDir returns the directory of a dashboard definition with a
// trailing slash: the file path minus its file name.
func dashboardDir(file interfaces.FileMetadata) string {
	if file.FileName != "" && strings.HasSuffix(file.FilePath, file.FileName) {
		return strings.TrimSuffix(file.FilePath, file.FileName)
	}
	if dir := path.Dir(file.FilePath); dir != "." {
		return dir + "/"
	}
	return ""
}

// AssembleDashboards builds one DashboardRecord per JSON definition in the
// dashboard bucket, in input order. Screenshots are every non-JSON file whose
// path starts with the definition's directory; nested dashboard directories
// therefore share the screenshots of their children.
func (p *Pipeline) AssembleDashboards(files []interfaces.FileMetadata) ([]interfaces.DashboardRecord, error) {
	var definitions, screenshots []interfaces.FileMetadata
	for _, file := range files {
		if IsDashboardDefinition(file) {
			definitions = append(definitions, file)
		} else {
			screenshots = append(screenshots, file)
		}
	}

	dashboards := make([]interfaces.DashboardRecord, 0, len(definitions))
	for _, def := range definitions {
		var doc dashboardDocument
		if err := json.Unmarshal([]byte(def.Content), &doc); err != nil {
			if p.policy.OnFailure(ParserDashboardJSON) == ActionPropagate {
				return nil, parseError(ParserDashboardJSON, def.FilePath, err)
			}
			logging.WithFileContext(p.logger, def.FilePath, string(def.Type), string(BucketDashboard)).
				Warn("quickstart.dashboard.parse_failed", "error", err)
			doc = dashboardDocument{}
		}

		dir := dashboardDir(def)
		shots := make([]interfaces.Screenshot, 0)
		for _, shot := range screenshots {
			if strings.HasPrefix(shot.FilePath, dir) {
				shots = append(shots, interfaces.Screenshot{PublicURL: shot.Content})
			}
		}

		dashboards = append(dashboards, interfaces.DashboardRecord{
			Name:        doc.Name.or(FieldDashboardName),
			Description: doc.Description.or(FieldDashboardDescription),
			Screenshots: shots,
		})
	}
	return dashboards, nil
}
