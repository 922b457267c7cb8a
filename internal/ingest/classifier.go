package ingest

import (
	"strings"

	"github.com/goliatone/go-quickstart/pkg/interfaces"
)

// Bucket is one of the three path-classified groups of files.
type Bucket string

const (
	BucketRoot      Bucket = "root"
	BucketDashboard Bucket = "dashboard"
	BucketAlert     Bucket = "alert"
)

// classificationRules are evaluated in order; the first marker contained in
// the file path wins. Files matching no rule land in BucketRoot.
var classificationRules = []struct {
	marker string
	bucket Bucket
}{
	{marker: "dashboards/", bucket: BucketDashboard},
	{marker: "alert-policies/", bucket: BucketAlert},
}

// Buckets holds the classified files, each in input order.
type Buckets struct {
	Root       []interfaces.FileMetadata
	Dashboards []interfaces.FileMetadata
	Alerts     []interfaces.FileMetadata
}

// ClassifyFile returns the bucket for a single file.
func ClassifyFile(file interfaces.FileMetadata) Bucket {
	for _, rule := range classificationRules {
		if strings.Contains(file.FilePath, rule.marker) {
			return rule.bucket
		}
	}
	return BucketRoot
}

// Classify partitions files into buckets. Every file lands in exactly one
// bucket and relative order is preserved. Buckets are never nil.
func Classify(files []interfaces.FileMetadata) Buckets {
	buckets := Buckets{
		Root:       make([]interfaces.FileMetadata, 0, len(files)),
		Dashboards: []interfaces.FileMetadata{},
		Alerts:     []interfaces.FileMetadata{},
	}
	for _, file := range files {
		switch ClassifyFile(file) {
		case BucketDashboard:
			buckets.Dashboards = append(buckets.Dashboards, file)
		case BucketAlert:
			buckets.Alerts = append(buckets.Alerts, file)
		default:
			buckets.Root = append(buckets.Root, file)
		}
	}
	return buckets
}
