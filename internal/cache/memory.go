package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps entries in process memory.
// retain bounds how long go-cache holds an entry; freshness is still checked by the reader.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates a memory store; retain <= 0 keeps entries until deleted
func NewMemoryStore(retain time.Duration) *MemoryStore {
	if retain <= 0 {
		return &MemoryStore{cache: gocache.New(gocache.NoExpiration, 0)}
	}
	return &MemoryStore{cache: gocache.New(retain, retain*2)}
}

// Get returns the entry held under key
func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	val, found := s.cache.Get(key)
	if !found {
		return Entry{}, false, nil
	}
	entry, ok := val.(Entry)
	return entry, ok, nil
}

// Put stores entry under key
func (s *MemoryStore) Put(_ context.Context, key string, entry Entry) error {
	s.cache.SetDefault(key, entry)
	return nil
}

// Delete removes key
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

// Clear drops every entry
func (s *MemoryStore) Clear(context.Context) error {
	s.cache.Flush()
	return nil
}

// Len returns the number of held entries
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}
