package catalog

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/goliatone/go-quickstart/pkg/interfaces"
)

// DefaultCacheSize is the number of records kept by NewCachedStore when
// size is not positive.
const DefaultCacheSize = 256

// CachedStore keeps recently read records in an LRU in front of another
// store. Writes go through and evict the cached entry.
type CachedStore struct {
	next  interfaces.CatalogStore
	cache *lru.Cache[string, *interfaces.QuickstartRecord]
}

// NewCachedStore wraps next with an LRU holding up to size records.
func NewCachedStore(next interfaces.CatalogStore, size int) (*CachedStore, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *interfaces.QuickstartRecord](size)
	if err != nil {
		return nil, err
	}
	return &CachedStore{next: next, cache: cache}, nil
}

func (s *CachedStore) Upsert(ctx context.Context, record *interfaces.QuickstartRecord) error {
	if record == nil {
		return ErrRecordRequired
	}
	if key := RecordKey(record); key != "" {
		s.cache.Remove(key)
	}
	return s.next.Upsert(ctx, record)
}

func (s *CachedStore) Get(ctx context.Context, id string) (*interfaces.QuickstartRecord, error) {
	key := strings.TrimSpace(id)
	if cached, ok := s.cache.Get(key); ok {
		return cloneRecord(cached), nil
	}
	record, err := s.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, cloneRecord(record))
	return record, nil
}

// List always reads through.
func (s *CachedStore) List(ctx context.Context) ([]*interfaces.QuickstartRecord, error) {
	return s.next.List(ctx)
}

func (s *CachedStore) Delete(ctx context.Context, id string) error {
	s.cache.Remove(strings.TrimSpace(id))
	return s.next.Delete(ctx, id)
}

// Len reports the number of cached records.
func (s *CachedStore) Len() int {
	return s.cache.Len()
}
