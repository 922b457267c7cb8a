package catalog

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/uptrace/bun/dialect"

	"github.com/goliatone/go-quickstart/internal/runtimeconfig"
	"github.com/goliatone/go-quickstart/pkg/interfaces"
	"github.com/goliatone/go-quickstart/pkg/testsupport"
)

func sampleRecord(id, name, title string) *interfaces.QuickstartRecord {
	return &interfaces.QuickstartRecord{
		ID:          id,
		Name:        name,
		Title:       title,
		Summary:     "Placeholder summary",
		Description: "Placeholder description",
		Level:       "COMMUNITY",
		Authors:     []string{"New Relic"},
		Keywords:    []string{"apm"},
		PackURL:     "https://example.com/tree/main/quickstarts/" + name,
		Documentation: []interfaces.Documentation{
			{Name: "Docs", URL: "https://docs.example.com", Description: "Read me"},
		},
		InstallPlans: []interfaces.InstallPlan{{ID: "agent"}},
		Dashboards: []interfaces.DashboardRecord{{
			Name:        "Overview",
			Description: "Placeholder description",
			Screenshots: []interfaces.Screenshot{{PublicURL: "https://cdn.example.com/a.png"}},
		}},
		Alerts:           []interfaces.AlertRecord{},
		RelatedResources: []any{},
	}
}

func TestBunStore_CRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record := sampleRecord("a1", "apache", "Apache")
	if err := store.Upsert(ctx, record); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	fetched, err := store.Get(ctx, "a1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(fetched, record) {
		t.Fatalf("Get() mismatch\nwant: %#v\ngot:  %#v", record, fetched)
	}

	record.Title = "Apache HTTP"
	if err := store.Upsert(ctx, record); err != nil {
		t.Fatalf("Upsert() update error = %v", err)
	}
	fetched, err = store.Get(ctx, "a1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if fetched.Title != "Apache HTTP" {
		t.Fatalf("expected updated title, got %q", fetched.Title)
	}

	if err := store.Delete(ctx, "a1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, "a1"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if err := store.Delete(ctx, "a1"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on second delete, got %v", err)
	}
}

func TestBunStore_ListOrderedByTitle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, record := range []*interfaces.QuickstartRecord{
		sampleRecord("3", "redis", "Redis"),
		sampleRecord("1", "mysql", "MySQL"),
		sampleRecord("2", "apache", "Apache"),
	} {
		if err := store.Upsert(ctx, record); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var titles []string
	for _, record := range records {
		titles = append(titles, record.Title)
	}
	if want := []string{"Apache", "MySQL", "Redis"}; !reflect.DeepEqual(titles, want) {
		t.Fatalf("expected %v, got %v", want, titles)
	}
}

func TestBunStore_KeyFallsBackToName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, sampleRecord("", "nginx", "NGINX")); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	fetched, err := store.Get(ctx, "nginx")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if fetched.ID != "" || fetched.Name != "nginx" {
		t.Fatalf("unexpected record %#v", fetched)
	}
}

func TestBunStore_GeneratedKeyLeavesCallerUntouched(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record := sampleRecord("", "", "Untitled")
	if err := store.Upsert(ctx, record); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if record.ID != "" {
		t.Fatalf("expected caller record ID to stay blank, got %q", record.ID)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 1 || records[0].ID == "" {
		t.Fatalf("expected stored record with generated ID, got %#v", records)
	}
	if _, err := store.Get(ctx, records[0].ID); err != nil {
		t.Fatalf("Get() by generated ID error = %v", err)
	}
}

func TestBunStore_RequiresKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, nil); !errors.Is(err, ErrRecordRequired) {
		t.Fatalf("expected ErrRecordRequired, got %v", err)
	}
	if _, err := store.Get(ctx, " "); !errors.Is(err, ErrRecordKeyRequired) {
		t.Fatalf("expected ErrRecordKeyRequired, got %v", err)
	}
	if err := store.Delete(ctx, ""); !errors.Is(err, ErrRecordKeyRequired) {
		t.Fatalf("expected ErrRecordKeyRequired, got %v", err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(runtimeconfig.StorageConfig{Driver: "mysql", DSN: "x"}); !errors.Is(err, ErrDriverUnsupported) {
		t.Fatalf("expected ErrDriverUnsupported, got %v", err)
	}
}

func TestOpenPgxUsesPostgresDialect(t *testing.T) {
	db, err := Open(runtimeconfig.StorageConfig{Driver: "pgx", DSN: "postgres://localhost:5432/quickstarts?sslmode=disable"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if db.Dialect().Name() != dialect.PG {
		t.Fatalf("expected pg dialect, got %v", db.Dialect().Name())
	}
}

func TestOpenSQLite(t *testing.T) {
	db, err := Open(runtimeconfig.StorageConfig{Driver: "sqlite", DSN: "file:catalog_open_test?mode=memory&cache=shared"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := NewBunStore(db, nil)
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() should be repeatable, got %v", err)
	}
}

func newTestStore(t *testing.T) *BunStore {
	t.Helper()
	db, err := testsupport.NewSQLiteBunDB(t.Name())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store := NewBunStore(db, nil)
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	return store
}
