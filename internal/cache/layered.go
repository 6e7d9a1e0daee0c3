package cache

import (
	"context"
	"errors"
)

// LayeredStore reads memory first, then disk, promoting disk hits into memory
type LayeredStore struct {
	memory Store
	disk   Store
}

// NewLayeredStore combines a fast and a persistent store
func NewLayeredStore(memory, disk Store) *LayeredStore {
	return &LayeredStore{memory: memory, disk: disk}
}

// Get checks memory, then disk, promoting disk hits
func (s *LayeredStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	if entry, found, err := s.memory.Get(ctx, key); err == nil && found {
		return entry, true, nil
	}

	entry, found, err := s.disk.Get(ctx, key)
	if err != nil || !found {
		return Entry{}, false, err
	}
	_ = s.memory.Put(ctx, key, entry)
	return entry, true, nil
}

// Put writes through to both layers
func (s *LayeredStore) Put(ctx context.Context, key string, entry Entry) error {
	if err := s.memory.Put(ctx, key, entry); err != nil {
		return err
	}
	return s.disk.Put(ctx, key, entry)
}

// Delete removes key from both layers
func (s *LayeredStore) Delete(ctx context.Context, key string) error {
	return errors.Join(s.memory.Delete(ctx, key), s.disk.Delete(ctx, key))
}

// Clear empties both layers
func (s *LayeredStore) Clear(ctx context.Context) error {
	return errors.Join(s.memory.Clear(ctx), s.disk.Clear(ctx))
}
