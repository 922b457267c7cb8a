package ingest

import "github.com/goliatone/go-quickstart/pkg/interfaces"

// Merge combines the pack-level fields with the assembled dashboards and
// alerts. Nil slices are replaced with empty ones so every list field is
// present in the output.
func Merge(pack PackConfig, dashboards []interfaces.DashboardRecord, alerts []interfaces.AlertRecord) *interfaces.QuickstartRecord {
	return &interfaces.QuickstartRecord{
		ID:               pack.ID,
		Name:             pack.Name,
		Title:            pack.Title,
		Summary:          pack.Summary,
		Description:      pack.Description,
		Level:            pack.Level,
		Authors:          nonNil(pack.Authors),
		Keywords:         nonNil(pack.Keywords),
		PackURL:          pack.PackURL,
		LogoURL:          pack.LogoURL,
		Documentation:    nonNil(pack.Documentation),
		InstallPlans:     nonNil(pack.InstallPlans),
		Dashboards:       nonNil(dashboards),
		Alerts:           nonNil(alerts),
		RelatedResources: []any{},
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
