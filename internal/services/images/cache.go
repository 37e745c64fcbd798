package images

import (
	"context"
	"sync"
	"time"

	"github.com/bobalog/bobalog/internal/events"
)

// Signer issues time-limited read URLs for private objects. blob.Store
// satisfies it.
type Signer interface {
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// URLCache memoizes signed photo URLs. Entries expire strictly before the
// underlying URL does, so a cached URL handed to the UI stays usable for
// its whole cache lifetime even with some clock skew.
type URLCache struct {
	signer   Signer
	urlTTL   time.Duration
	cacheTTL time.Duration
	logger   *events.Logger
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]cachedURL
}

type cachedURL struct {
	url     string
	expires time.Time
}

// NewURLCache creates a cache. margin must be positive and shorter than
// urlTTL; config validation enforces this.
func NewURLCache(signer Signer, urlTTL, margin time.Duration, logger *events.Logger) *URLCache {
	return &URLCache{
		signer:   signer,
		urlTTL:   urlTTL,
		cacheTTL: urlTTL - margin,
		logger:   logger.WithField("component", "url_cache"),
		now:      time.Now,
		entries:  make(map[string]cachedURL),
	}
}

// SetClock overrides the clock (for tests).
func (c *URLCache) SetClock(now func() time.Time) {
	c.now = now
}

// Get returns a usable signed URL for key, or "" when key is empty or the
// signer fails. A missing image is never fatal to the UI.
func (c *URLCache) Get(ctx context.Context, key string) string {
	if key == "" {
		return ""
	}

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && c.now().Before(entry.expires) {
		c.mu.Unlock()
		return entry.url
	}
	c.mu.Unlock()

	url, err := c.signer.SignedURL(ctx, key, c.urlTTL)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Failed to sign URL")
		return ""
	}

	c.mu.Lock()
	c.entries[key] = cachedURL{url: url, expires: c.now().Add(c.cacheTTL)}
	c.mu.Unlock()

	return url
}

// Invalidate drops the cached URL for key.
func (c *URLCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear drops every cached URL.
func (c *URLCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cachedURL)
}
