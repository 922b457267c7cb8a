package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-quickstart/internal/logging"
	"github.com/goliatone/go-quickstart/internal/runtimeconfig"
	"github.com/goliatone/go-quickstart/pkg/interfaces"
)

// ErrDriverUnsupported is returned by Open for drivers other than sqlite, postgres and pgx.
var ErrDriverUnsupported = errors.New("catalog: unsupported storage driver")

// BunStore persists normalized quickstart records through bun.
type BunStore struct {
	db     *bun.DB
	logger interfaces.Logger
	now    func() time.Time
}

// Open connects to the database described by cfg and returns a bun handle
// using the matching dialect. "postgres" uses lib/pq and "pgx" the pgx
// stdlib driver.
func Open(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "sqlite", "sqlite3":
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("catalog: open sqlite: %w", err)
		}
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case "postgres", "pg":
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("catalog: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	case "pgx":
		sqlDB, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("catalog: open pgx: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrDriverUnsupported, cfg.Driver)
	}
}

// NewBunStore wraps db. A nil logger is replaced by a no-op logger.
func NewBunStore(db *bun.DB, logger interfaces.Logger) *BunStore {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &BunStore{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// EnsureSchema creates the quickstarts table when missing.
func (s *BunStore) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		return errNoDatabase
	}
	if _, err := s.db.NewCreateTable().Model((*recordModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("catalog: create schema: %w", err)
	}
	return nil
}

// Upsert inserts record or replaces the stored row with the same key.
func (s *BunStore) Upsert(ctx context.Context, record *interfaces.QuickstartRecord) error {
	if s.db == nil {
		return errNoDatabase
	}
	if record == nil {
		return ErrRecordRequired
	}

	model, err := modelFromRecord(record, s.now())
	if err != nil {
		return err
	}
	_, err = s.db.NewInsert().
		Model(model).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("title = EXCLUDED.title").
		Set("payload = EXCLUDED.payload").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("catalog: upsert %s: %w", model.ID, err)
	}

	s.logger.Debug("quickstart.catalog.upserted", "id", model.ID, "title", model.Title)
	return nil
}

// Get returns the record stored under id.
func (s *BunStore) Get(ctx context.Context, id string) (*interfaces.QuickstartRecord, error) {
	if s.db == nil {
		return nil, errNoDatabase
	}
	key := strings.TrimSpace(id)
	if key == "" {
		return nil, ErrRecordKeyRequired
	}

	var model recordModel
	if err := s.db.NewSelect().Model(&model).Where("id = ?", key).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return model.record()
}

// List returns every stored record ordered by title.
func (s *BunStore) List(ctx context.Context) ([]*interfaces.QuickstartRecord, error) {
	if s.db == nil {
		return nil, errNoDatabase
	}
	var models []recordModel
	if err := s.db.NewSelect().Model(&models).Order("title ASC", "id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]*interfaces.QuickstartRecord, 0, len(models))
	for i := range models {
		record, err := models[i].record()
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

// Delete removes the record stored under id.
func (s *BunStore) Delete(ctx context.Context, id string) error {
	if s.db == nil {
		return errNoDatabase
	}
	key := strings.TrimSpace(id)
	if key == "" {
		return ErrRecordKeyRequired
	}

	result, err := s.db.NewDelete().Model((*recordModel)(nil)).Where("id = ?", key).Exec(ctx)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrRecordNotFound
	}
	s.logger.Debug("quickstart.catalog.deleted", "id", key)
	return nil
}

type recordModel struct {
	bun.BaseModel `bun:"table:quickstarts"`

	ID        string    `bun:"id,pk"`
	Name      string    `bun:"name"`
	Title     string    `bun:"title"`
	Payload   string    `bun:"payload,notnull"`
	UpdatedAt time.Time `bun:"updated_at"`
}

func modelFromRecord(record *interfaces.QuickstartRecord, now time.Time) (*recordModel, error) {
	stored, key := keyedClone(record)
	payload, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("catalog: encode %s: %w", key, err)
	}
	return &recordModel{
		ID:        key,
		Name:      stored.Name,
		Title:     stored.Title,
		Payload:   string(payload),
		UpdatedAt: now,
	}, nil
}

func (m *recordModel) record() (*interfaces.QuickstartRecord, error) {
	var record interfaces.QuickstartRecord
	if err := json.Unmarshal([]byte(m.Payload), &record); err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w", m.ID, err)
	}
	if record.RelatedResources == nil {
		record.RelatedResources = []any{}
	}
	return &record, nil
}
