package blob

import (
	"context"
	"fmt"
	"time"
)

// Disabled is a Store for installs with no object store configured. Every
// call fails; local mode short-circuits above this layer, so in practice it
// is only hit when a cloud user misconfigures the bucket.
type Disabled struct {
	Reason string
}

// NewDisabled creates a disabled store.
func NewDisabled(reason string) *Disabled {
	return &Disabled{Reason: reason}
}

func (d *Disabled) Put(ctx context.Context, key string, data []byte, contentType string) error {
	return fmt.Errorf("remote storage unavailable: %s", d.Reason)
}

func (d *Disabled) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, fmt.Errorf("remote storage unavailable: %s", d.Reason)
}

func (d *Disabled) Delete(ctx context.Context, key string) error {
	return fmt.Errorf("remote storage unavailable: %s", d.Reason)
}

func (d *Disabled) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "", fmt.Errorf("remote storage unavailable: %s", d.Reason)
}
