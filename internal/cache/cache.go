package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Entry is a cached value stamped with the time it was written.
// Expiry is the reader's decision: see Entry.Fresh.
type Entry struct {
	TS    time.Time       `json:"ts"`
	Value json.RawMessage `json:"value"`
}

// Fresh reports whether the entry is younger than maxAge at now
func (e Entry) Fresh(now time.Time, maxAge time.Duration) bool {
	return !e.TS.IsZero() && now.Sub(e.TS) <= maxAge
}

// Store is a key -> Entry mapping shared across requests.
// Implementations need not coordinate concurrent writers of the same key.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, key string, entry Entry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Key derives a deterministic store key from its parts
func Key(namespace string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return namespace + ":" + hex.EncodeToString(h.Sum(nil))
}

// Nop is a Store that never holds anything
type Nop struct{}

// Get always misses
func (Nop) Get(context.Context, string) (Entry, bool, error) { return Entry{}, false, nil }

// Put discards the entry
func (Nop) Put(context.Context, string, Entry) error { return nil }

// Delete is a no-op
func (Nop) Delete(context.Context, string) error { return nil }

// Clear is a no-op
func (Nop) Clear(context.Context) error { return nil }
