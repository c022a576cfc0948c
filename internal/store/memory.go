package store

import (
	"errors"
	"sync"
	"time"

	"climate-data-platform/internal/climate"
)

var (
	// ErrNotFound is returned when no field exists for a (variable, date) key.
	ErrNotFound = errors.New("no field data for requested variable and date")
)

// Key returns the canonical index key for a (variable, date) pair.
func Key(variable, date string) string {
	return variable + ":" + date
}

type cachedField struct {
	doc     climate.FieldDocument
	savedAt time.Time
}

// MemoryStore is a concurrency-safe in-memory field cache with optional
// retention limits. It fronts the durable file store on the read path.
type MemoryStore struct {
	mu sync.RWMutex

	// key: Key(variable, date), value: cached document
	data map[string]cachedField

	// retention configuration
	maxFields int           // max number of cached documents
	maxAge    time.Duration // optional max age for cached documents
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxFields is <= 0, it is treated as unlimited.
func NewMemoryStore(maxFields int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:      make(map[string]cachedField),
		maxFields: maxFields,
		maxAge:    maxAge,
	}
}

// Save caches a document and enforces retention.
func (s *MemoryStore) Save(doc climate.FieldDocument) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[Key(doc.Variable, doc.Date)] = cachedField{doc: doc, savedAt: time.Now()}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		for k, v := range s.data {
			if v.savedAt.Before(cutoff) {
				delete(s.data, k)
			}
		}
	}

	// Enforce retention by count, dropping oldest entries first.
	for s.maxFields > 0 && len(s.data) > s.maxFields {
		oldestKey := ""
		var oldest time.Time
		for k, v := range s.data {
			if oldestKey == "" || v.savedAt.Before(oldest) {
				oldestKey = k
				oldest = v.savedAt
			}
		}
		delete(s.data, oldestKey)
	}
	return nil
}

// Get returns the cached document for a (variable, date) pair.
func (s *MemoryStore) Get(variable, date string) (climate.FieldDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[Key(variable, date)]
	if !ok {
		return climate.FieldDocument{}, ErrNotFound
	}
	if s.maxAge > 0 && time.Since(v.savedAt) > s.maxAge {
		return climate.FieldDocument{}, ErrNotFound
	}
	return v.doc, nil
}

// Len reports the number of cached documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
