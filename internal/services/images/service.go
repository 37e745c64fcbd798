package images

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bobalog/bobalog/internal/blob"
	"github.com/bobalog/bobalog/internal/events"
	"github.com/bobalog/bobalog/internal/identity"
	"github.com/bobalog/bobalog/internal/models"
)

// Service handles drink photo objects: upload on add, best-effort delete on
// record removal, and signed URLs for display.
type Service struct {
	blob     blob.Store
	identity *identity.Resolver
	cache    *URLCache
	logger   *events.Logger
	now      func() time.Time
}

// NewService creates a photo service.
func NewService(blobStore blob.Store, resolver *identity.Resolver, cache *URLCache, logger *events.Logger) *Service {
	return &Service{
		blob:     blobStore,
		identity: resolver,
		cache:    cache,
		logger:   logger.WithField("service", "images"),
		now:      time.Now,
	}
}

// Attach uploads the photo at localPath to the current user's namespace and
// returns the object key to store on the record. Local-only users get the
// local sentinel; their photos never leave the device.
func (s *Service) Attach(ctx context.Context, localPath string) (string, error) {
	if s.identity.LocalMode() {
		return models.LocalPhotoKey, nil
	}

	userID, err := s.identity.Current()
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("read photo %s: %w", localPath, err)
	}

	key := blob.ImageKey(userID, filepath.Base(localPath), s.now())
	if err := s.blob.Put(ctx, key, data, contentType(localPath)); err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"key":  key,
		"size": len(data),
	}).Info("Uploaded photo")

	return key, nil
}

// Remove deletes the photo object for a record, best-effort. Failures are
// logged and never block record deletion. Keys outside the owner's private
// namespace are refused.
func (s *Service) Remove(ctx context.Context, s3Key, userID string) {
	if s3Key == "" || s3Key == models.LocalPhotoKey {
		return
	}
	if s.identity.LocalMode() {
		return
	}
	if !blob.OwnedByUser(s3Key, userID) {
		s.logger.WithField("key", s3Key).Warn("Refusing to delete object outside user namespace")
		return
	}

	if err := s.blob.Delete(ctx, s3Key); err != nil {
		s.logger.WithError(err).WithField("key", s3Key).Warn("Failed to delete photo")
	}
	s.cache.Invalidate(s3Key)
}

// URL returns a signed display URL for a record's photo, or "" when there
// is no remote photo or signing fails.
func (s *Service) URL(ctx context.Context, rec *models.DrinkRecord) string {
	if !rec.HasRemotePhoto() {
		return ""
	}
	return s.cache.Get(ctx, rec.S3Key)
}

func contentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".heic":
		return "image/heic"
	default:
		return "image/jpeg"
	}
}
