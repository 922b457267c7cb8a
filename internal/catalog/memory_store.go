package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-quickstart/pkg/interfaces"
)

// MemoryStore keeps records in-memory for tests and previews.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*interfaces.QuickstartRecord
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*interfaces.QuickstartRecord)}
}

func (s *MemoryStore) Upsert(_ context.Context, record *interfaces.QuickstartRecord) error {
	if record == nil {
		return ErrRecordRequired
	}
	stored, key := keyedClone(record)

	s.mu.Lock()
	s.records[key] = stored
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*interfaces.QuickstartRecord, error) {
	key := strings.TrimSpace(id)
	if key == "" {
		return nil, ErrRecordKeyRequired
	}

	s.mu.RLock()
	record, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrRecordNotFound
	}
	return cloneRecord(record), nil
}

func (s *MemoryStore) List(context.Context) ([]*interfaces.QuickstartRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.records))
	for key := range s.records {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		left, right := s.records[keys[i]], s.records[keys[j]]
		if left.Title != right.Title {
			return left.Title < right.Title
		}
		return keys[i] < keys[j]
	})

	out := make([]*interfaces.QuickstartRecord, 0, len(keys))
	for _, key := range keys {
		out = append(out, cloneRecord(s.records[key]))
	}
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	key := strings.TrimSpace(id)
	if key == "" {
		return ErrRecordKeyRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return ErrRecordNotFound
	}
	delete(s.records, key)
	return nil
}
