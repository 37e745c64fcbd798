package blob

import (
	"context"
	"time"
)

// Store is the remote object store the sync engine and rankings aggregator
// write to. It has no compute: every protocol above it must tolerate
// concurrent whole-object overwrites.
type Store interface {
	// Put uploads data to key, overwriting any existing object.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get downloads the object at key, or models.ErrObjectNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the object at key. Missing objects are not an error.
	Delete(ctx context.Context, key string) error

	// SignedURL returns a time-limited read URL for a private object.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
