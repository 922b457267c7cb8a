package ingest

import (
	"context"
	"errors"
	"reflect"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-quickstart/pkg/interfaces"
)

const testRepositoryURL = "https://github.com/org/repo/tree/main"

const fullConfig = `
id: 6ba8a7d8-0d6c-4f8a-8d54-2b8c1b0b4d10
slug: foo-bar
title: "  Foo Bar  "
summary: |
  Monitor foo and bar.
description: |
  ## Why monitor Foo?
  Because.
level: Verified Partner
icon: logo.svg
authors:
  - Jane Doe
  - " John Roe "
keywords:
  - foo
  - bar
documentation:
  - name: Foo docs
    url: https://docs.example.com/foo
    description: |
      Install the foo integration.
installPlans:
  - guided-install
  - third-party-foo
`

func file(filePath, fileName string, fileType interfaces.FileType, content string) interfaces.FileMetadata {
	return interfaces.FileMetadata{
		FilePath: filePath,
		FileName: fileName,
		Type:     fileType,
		Content:  content,
	}
}

func fullQuickstart() []interfaces.FileMetadata {
	return []interfaces.FileMetadata{
		file("quickstarts/foo-bar/config.yml", "config.yml", interfaces.FileTypeYAML, fullConfig),
		file("quickstarts/foo-bar/logo.svg", "logo.svg", interfaces.FileTypeImage, "https://cdn.example.com/logo.svg"),
		file("quickstarts/foo-bar/dashboards/foo/foo.json", "foo.json", interfaces.FileTypeJSON, `{"name":"Foo overview","description":"Throughput and errors"}`),
		file("quickstarts/foo-bar/dashboards/foo/foo01.png", "foo01.png", interfaces.FileTypeImage, "https://cdn.example.com/foo01.png"),
		file("quickstarts/foo-bar/alert-policies/high-cpu.yml", "high-cpu.yml", interfaces.FileTypeYAML, "name: High CPU\ntype: STATIC\ndescription: \" CPU above 90% \"\n"),
	}
}

func newTestPipeline(policy ParsePolicy) *Pipeline {
	return NewPipeline(Options{RepositoryURL: testRepositoryURL, Policy: policy})
}

func TestIngestFullQuickstart(t *testing.T) {
	record, err := newTestPipeline(nil).Ingest(context.Background(), fullQuickstart())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	want := &interfaces.QuickstartRecord{
		ID:          "6ba8a7d8-0d6c-4f8a-8d54-2b8c1b0b4d10",
		Name:        "foo-bar",
		Title:       "Foo Bar",
		Summary:     "Monitor foo and bar.",
		Description: "## Why monitor Foo?\nBecause.",
		Level:       "VERIFIED_PARTNER",
		Authors:     []string{"Jane Doe", "John Roe"},
		Keywords:    []string{"foo", "bar"},
		PackURL:     "https://github.com/org/repo/tree/main/quickstarts/foo-bar",
		LogoURL:     "https://cdn.example.com/logo.svg",
		Documentation: []interfaces.Documentation{{
			Name:        "Foo docs",
			URL:         "https://docs.example.com/foo",
			Description: "Install the foo integration.",
		}},
		InstallPlans: []interfaces.InstallPlan{
			{ID: "guided-install"},
			{ID: "third-party-foo"},
		},
		Dashboards: []interfaces.DashboardRecord{{
			Name:        "Foo overview",
			Description: "Throughput and errors",
			Screenshots: []interfaces.Screenshot{{PublicURL: "https://cdn.example.com/foo01.png"}},
		}},
		Alerts: []interfaces.AlertRecord{{
			Details: "CPU above 90%",
			Name:    "High CPU",
			Type:    "STATIC",
		}},
		RelatedResources: []any{},
	}

	if !reflect.DeepEqual(record, want) {
		t.Fatalf("unexpected record\nwant: %#v\ngot:  %#v", want, record)
	}
}

func TestIngestWithoutDashboardsOrAlerts(t *testing.T) {
	files := []interfaces.FileMetadata{
		file("quickstarts/foo-bar/config.yml", "config.yml", interfaces.FileTypeYAML, "title: Foo"),
		file("quickstarts/foo-bar/logo.png", "logo.png", interfaces.FileTypeImage, "blob:1"),
	}

	record, err := newTestPipeline(nil).Ingest(context.Background(), files)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if record.Dashboards == nil || len(record.Dashboards) != 0 {
		t.Fatalf("expected empty dashboards, got %#v", record.Dashboards)
	}
	if record.Alerts == nil || len(record.Alerts) != 0 {
		t.Fatalf("expected empty alerts, got %#v", record.Alerts)
	}
	if record.RelatedResources == nil || len(record.RelatedResources) != 0 {
		t.Fatalf("expected empty related resources, got %#v", record.RelatedResources)
	}
}

func TestIngestIsIdempotent(t *testing.T) {
	pipeline := newTestPipeline(nil)
	files := fullQuickstart()

	first, err := pipeline.Ingest(context.Background(), files)
	if err != nil {
		t.Fatalf("first Ingest: %v", err)
	}
	second, err := pipeline.Ingest(context.Background(), files)
	if err != nil {
		t.Fatalf("second Ingest: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical records\nfirst:  %#v\nsecond: %#v", first, second)
	}
	if !reflect.DeepEqual(files, fullQuickstart()) {
		t.Fatal("expected input files to be left untouched")
	}
}

func TestIngestAppliesPlaceholders(t *testing.T) {
	files := []interfaces.FileMetadata{
		file("quickstarts/empty/config.yml", "config.yml", interfaces.FileTypeYAML, "icon: missing.png\n"),
	}

	record, err := newTestPipeline(nil).Ingest(context.Background(), files)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if !reflect.DeepEqual(record.Authors, []string{"Placeholder author"}) {
		t.Fatalf("unexpected authors: %v", record.Authors)
	}
	if !reflect.DeepEqual(record.Keywords, []string{"Placeholder keyword"}) {
		t.Fatalf("unexpected keywords: %v", record.Keywords)
	}
	checks := map[string][2]string{
		"title":       {record.Title, "Placeholder title"},
		"summary":     {record.Summary, "Placeholder summary"},
		"description": {record.Description, "Placeholder description"},
		"level":       {record.Level, "COMMUNITY"},
		"id":          {record.ID, ""},
		"name":        {record.Name, ""},
		"logo":        {record.LogoURL, ""},
	}
	for field, pair := range checks {
		if pair[0] != pair[1] {
			t.Fatalf("%s: expected %q, got %q", field, pair[1], pair[0])
		}
	}
	if len(record.Documentation) != 0 || record.Documentation == nil {
		t.Fatalf("expected empty documentation, got %#v", record.Documentation)
	}
	if len(record.InstallPlans) != 0 || record.InstallPlans == nil {
		t.Fatalf("expected empty install plans, got %#v", record.InstallPlans)
	}
}

func TestIngestMissingConfig(t *testing.T) {
	files := []interfaces.FileMetadata{
		file("quickstarts/foo/README.md", "README.md", interfaces.FileTypeOther, "# Foo"),
	}

	_, err := newTestPipeline(nil).Ingest(context.Background(), files)
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestIngestAmbiguousConfig(t *testing.T) {
	files := []interfaces.FileMetadata{
		file("quickstarts/foo/config.yml", "config.yml", interfaces.FileTypeYAML, "title: A"),
		file("quickstarts/foo/config.staging.yml", "config.staging.yml", interfaces.FileTypeYAML, "title: B"),
	}

	_, err := newTestPipeline(nil).Ingest(context.Background(), files)
	if !errors.Is(err, ErrConfigAmbiguous) {
		t.Fatalf("expected ErrConfigAmbiguous, got %v", err)
	}
}

func TestIngestMalformedConfigPropagates(t *testing.T) {
	files := []interfaces.FileMetadata{
		file("quickstarts/foo/config.yml", "config.yml", interfaces.FileTypeYAML, "title: [unterminated"),
	}

	_, err := newTestPipeline(nil).Ingest(context.Background(), files)
	if !errors.Is(err, ErrConfigParse) {
		t.Fatalf("expected ErrConfigParse, got %v", err)
	}
}

func TestIngestMalformedConfigRecoversUnderPolicy(t *testing.T) {
	files := []interfaces.FileMetadata{
		file("quickstarts/foo/config.yml", "config.yml", interfaces.FileTypeYAML, "title: [unterminated"),
	}

	record, err := newTestPipeline(RecoverAllPolicy()).Ingest(context.Background(), files)
	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if record.Title != "Placeholder title" {
		t.Fatalf("expected placeholder title, got %q", record.Title)
	}
	if record.PackURL != testRepositoryURL+"/quickstarts/foo" {
		t.Fatalf("expected pack url from path, got %q", record.PackURL)
	}
}

func TestIngestMalformedAlertPropagates(t *testing.T) {
	files := []interfaces.FileMetadata{
		file("quickstarts/foo/config.yml", "config.yml", interfaces.FileTypeYAML, "title: Foo"),
		file("quickstarts/foo/alert-policies/bad.yml", "bad.yml", interfaces.FileTypeYAML, "name: [broken"),
	}

	_, err := newTestPipeline(nil).Ingest(context.Background(), files)
	if !errors.Is(err, ErrAlertParse) {
		t.Fatalf("expected ErrAlertParse, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestIngestHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPipeline(nil).Ingest(ctx, fullQuickstart())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewPipelineIgnoresUnknownPolicyEntries(t *testing.T) {
	pipeline := newTestPipeline(ParsePolicy{
		ParserAlertYAML:  ActionRecover,
		"toml":           ActionRecover,
		ParserConfigYAML: "retry",
	})

	policy := pipeline.Policy()
	if policy[ParserAlertYAML] != ActionRecover {
		t.Fatalf("expected alert override, got %v", policy[ParserAlertYAML])
	}
	if policy[ParserConfigYAML] != ActionPropagate {
		t.Fatalf("expected config default, got %v", policy[ParserConfigYAML])
	}
	if _, ok := policy["toml"]; ok {
		t.Fatal("expected unknown parser to be dropped")
	}
}
