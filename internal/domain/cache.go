package domain

import (
	"context"
	"time"
)

// Cache is the key-value cache collaborator. Values are opaque bytes;
// a TTL of zero means no expiry. All entries are derived state and may
// vanish at any time: absence is never an error, and callers must treat
// writes as best-effort.
type Cache interface {
	// Get returns the value and true when the key is present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
