// Package ingest reduces the flat file list of one quickstart directory into a
// single interfaces.QuickstartRecord. Files are classified into root,
// dashboard and alert buckets, each bucket is normalized independently, and
// the results are merged. Nothing in this package performs I/O; content is
// expected to be materialized by the caller.
package ingest
