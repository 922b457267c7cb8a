package ingest

import (
	"testing"

	"github.com/goliatone/go-quickstart/pkg/interfaces"
)

func TestClassifyPreservesOrderAndPriority(t *testing.T) {
	files := []interfaces.FileMetadata{
		{FilePath: "quickstarts/a/config.yml"},
		{FilePath: "quickstarts/a/dashboards/x/x.json"},
		{FilePath: "quickstarts/a/alert-policies/one.yml"},
		{FilePath: "quickstarts/a/alert-policies/dashboards/odd.json"},
		{FilePath: "quickstarts/a/logo.png"},
		{FilePath: "quickstarts/a/dashboards/x/x.png"},
		{FilePath: "quickstarts/a/alert-policies/two.yml"},
	}

	buckets := Classify(files)

	assertPaths(t, "root", buckets.Root, "quickstarts/a/config.yml", "quickstarts/a/logo.png")
	assertPaths(t, "dashboards", buckets.Dashboards,
		"quickstarts/a/dashboards/x/x.json",
		"quickstarts/a/alert-policies/dashboards/odd.json",
		"quickstarts/a/dashboards/x/x.png",
	)
	assertPaths(t, "alerts", buckets.Alerts,
		"quickstarts/a/alert-policies/one.yml",
		"quickstarts/a/alert-policies/two.yml",
	)

	total := len(buckets.Root) + len(buckets.Dashboards) + len(buckets.Alerts)
	if total != len(files) {
		t.Fatalf("expected every file in exactly one bucket, got %d of %d", total, len(files))
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	buckets := Classify(nil)
	if buckets.Root == nil || buckets.Dashboards == nil || buckets.Alerts == nil {
		t.Fatalf("expected non-nil empty buckets, got %#v", buckets)
	}
	if len(buckets.Root)+len(buckets.Dashboards)+len(buckets.Alerts) != 0 {
		t.Fatalf("expected empty buckets, got %#v", buckets)
	}
}

func TestClassifyFileRequiresTrailingSlash(t *testing.T) {
	cases := map[string]Bucket{
		"quickstarts/a/dashboards.yml":       BucketRoot,
		"quickstarts/a/alert-policies.md":    BucketRoot,
		"dashboards/d1/config.json":          BucketDashboard,
		"quickstarts/a/alert-policies/x.yml": BucketAlert,
	}
	for path, want := range cases {
		if got := ClassifyFile(interfaces.FileMetadata{FilePath: path}); got != want {
			t.Fatalf("ClassifyFile(%q) = %s, want %s", path, got, want)
		}
	}
}

func assertPaths(t *testing.T, name string, files []interfaces.FileMetadata, want ...string) {
	t.Helper()
	if len(files) != len(want) {
		t.Fatalf("%s: expected %d files, got %d", name, len(want), len(files))
	}
	for i, path := range want {
		if files[i].FilePath != path {
			t.Fatalf("%s[%d]: expected %s, got %s", name, i, path, files[i].FilePath)
		}
	}
}
