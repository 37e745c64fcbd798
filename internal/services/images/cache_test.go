package images_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobalog/bobalog/internal/blob"
	"github.com/bobalog/bobalog/internal/events"
	"github.com/bobalog/bobalog/internal/identity"
	"github.com/bobalog/bobalog/internal/models"
	"github.com/bobalog/bobalog/internal/services/images"
)

func newCache(t *testing.T, signer images.Signer) *images.URLCache {
	t.Helper()
	return images.NewURLCache(signer, 15*time.Minute, time.Minute, events.NewTestLogger(io.Discard))
}

func TestCacheHitWithinTTL(t *testing.T) {
	signer := blob.NewMockStore()
	cache := newCache(t, signer)

	clock := time.Now()
	cache.SetClock(func() time.Time { return clock })

	ctx := context.Background()
	first := cache.Get(ctx, "private/u1/drinks/1_a.jpg")
	require.NotEmpty(t, first)

	second := cache.Get(ctx, "private/u1/drinks/1_a.jpg")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, signer.SignCalls, "second lookup must hit the cache")
}

func TestCacheExpiresBeforeURL(t *testing.T) {
	signer := blob.NewMockStore()
	cache := newCache(t, signer)

	clock := time.Now()
	cache.SetClock(func() time.Time { return clock })

	ctx := context.Background()
	cache.Get(ctx, "k")

	// Past the cache TTL (urlTTL - margin) but before the URL itself dies.
	clock = clock.Add(14*time.Minute + time.Second)
	cache.Get(ctx, "k")
	assert.Equal(t, 2, signer.SignCalls, "expired entry must re-sign")
}

func TestCacheEmptyKey(t *testing.T) {
	signer := blob.NewMockStore()
	cache := newCache(t, signer)

	assert.Empty(t, cache.Get(context.Background(), ""))
	assert.Zero(t, signer.SignCalls)
}

func TestCacheSignerFailureReturnsEmpty(t *testing.T) {
	signer := blob.NewMockStore()
	signer.SignErr = errors.New("denied")
	cache := newCache(t, signer)

	assert.Empty(t, cache.Get(context.Background(), "k"))
}

func TestCacheInvalidateAndClear(t *testing.T) {
	signer := blob.NewMockStore()
	cache := newCache(t, signer)
	ctx := context.Background()

	cache.Get(ctx, "a")
	cache.Get(ctx, "b")
	require.Equal(t, 2, signer.SignCalls)

	cache.Invalidate("a")
	cache.Get(ctx, "a")
	assert.Equal(t, 3, signer.SignCalls)

	cache.Clear()
	cache.Get(ctx, "a")
	cache.Get(ctx, "b")
	assert.Equal(t, 5, signer.SignCalls)
}

func newImageFixture(t *testing.T) (*images.Service, *blob.MockStore, *identity.Resolver) {
	t.Helper()

	dir := t.TempDir()
	logger := events.NewTestLogger(io.Discard)
	blobStore := blob.NewMockStore()
	resolver := identity.NewResolver(
		filepath.Join(dir, "local-mode"),
		filepath.Join(dir, "session.json"),
		logger,
	)
	cache := images.NewURLCache(blobStore, 15*time.Minute, time.Minute, logger)
	return images.NewService(blobStore, resolver, cache, logger), blobStore, resolver
}

func signIn(t *testing.T, r *identity.Resolver, userID string) {
	t.Helper()
	require.NoError(t, r.SaveSession(&identity.Session{
		UserID:    userID,
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour),
	}))
}

func TestAttachUploadsToUserNamespace(t *testing.T) {
	svc, blobStore, resolver := newImageFixture(t)
	signIn(t, resolver, "u1")

	photo := filepath.Join(t.TempDir(), "latte.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("jpeg bytes"), 0600))

	key, err := svc.Attach(context.Background(), photo)
	require.NoError(t, err)
	assert.True(t, blob.OwnedByUser(key, "u1"))
	assert.Contains(t, key, "latte.jpg")

	data, ok := blobStore.Object(key)
	require.True(t, ok)
	assert.Equal(t, []byte("jpeg bytes"), data)
}

func TestAttachLocalModeReturnsSentinel(t *testing.T) {
	svc, blobStore, resolver := newImageFixture(t)
	require.NoError(t, resolver.SetLocalMode(true))

	key, err := svc.Attach(context.Background(), "/nonexistent.jpg")
	require.NoError(t, err)
	assert.Equal(t, models.LocalPhotoKey, key)
	assert.Zero(t, blobStore.PutCalls)
}

func TestRemoveIsBestEffort(t *testing.T) {
	svc, blobStore, resolver := newImageFixture(t)
	signIn(t, resolver, "u1")
	ctx := context.Background()

	require.NoError(t, blobStore.Put(ctx, "private/u1/drinks/1_a.jpg", []byte("x"), "image/jpeg"))

	blobStore.DeleteErr = errors.New("network down")
	svc.Remove(ctx, "private/u1/drinks/1_a.jpg", "u1") // must not panic or fail

	blobStore.DeleteErr = nil
	svc.Remove(ctx, "private/u1/drinks/1_a.jpg", "u1")
	_, ok := blobStore.Object("private/u1/drinks/1_a.jpg")
	assert.False(t, ok)
}

func TestRemoveRefusesForeignNamespace(t *testing.T) {
	svc, blobStore, resolver := newImageFixture(t)
	signIn(t, resolver, "u1")
	ctx := context.Background()

	require.NoError(t, blobStore.Put(ctx, "private/u2/drinks/1_a.jpg", []byte("x"), "image/jpeg"))

	svc.Remove(ctx, "private/u2/drinks/1_a.jpg", "u1")
	_, ok := blobStore.Object("private/u2/drinks/1_a.jpg")
	assert.True(t, ok, "foreign object must not be deleted")
}

func TestURLSkipsLocalAndMissingPhotos(t *testing.T) {
	svc, blobStore, _ := newImageFixture(t)
	ctx := context.Background()

	assert.Empty(t, svc.URL(ctx, &models.DrinkRecord{}))
	assert.Empty(t, svc.URL(ctx, &models.DrinkRecord{S3Key: models.LocalPhotoKey}))
	assert.Zero(t, blobStore.SignCalls)

	assert.NotEmpty(t, svc.URL(ctx, &models.DrinkRecord{S3Key: "private/u1/drinks/1_a.jpg"}))
}
