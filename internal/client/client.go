package client

import (
	"context"
	"fmt"

	"github.com/bobalog/bobalog/internal/blob"
	"github.com/bobalog/bobalog/internal/config"
	"github.com/bobalog/bobalog/internal/events"
	"github.com/bobalog/bobalog/internal/identity"
	"github.com/bobalog/bobalog/internal/services/backup"
	"github.com/bobalog/bobalog/internal/services/images"
	"github.com/bobalog/bobalog/internal/services/journal"
	"github.com/bobalog/bobalog/internal/services/rankings"
	"github.com/bobalog/bobalog/internal/store"
)

// Client provides the high-level API for journal operations.
type Client struct {
	Journal  *journal.Service
	Backup   *backup.Service
	Rankings *rankings.Service
	Images   *images.Service
	Identity *identity.Resolver
	Provider identity.Provider

	store  store.Store
	config *config.Config
	logger *events.Logger
}

// New wires config into a ready client. When no bucket is configured the
// remote side is disabled; local mode never reaches it, and cloud
// operations fail with a clear message instead of a nil panic.
func New(ctx context.Context, cfg *config.Config, logger *events.Logger) (*Client, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	recordStore, err := store.NewSQLiteStore(cfg.Storage.DBFile, logger)
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}

	resolver := identity.NewResolver(cfg.Storage.LocalModeFile, cfg.Storage.SessionFile, logger)

	var blobStore blob.Store
	if cfg.S3.Bucket != "" {
		blobStore, err = blob.NewS3Store(ctx, &cfg.S3, logger)
		if err != nil {
			_ = recordStore.Close()
			return nil, fmt.Errorf("create object store: %w", err)
		}
	} else {
		blobStore = blob.NewDisabled("no s3 bucket configured")
	}

	var provider identity.Provider
	if cfg.Auth.BaseURL != "" {
		provider = identity.NewHTTPProvider(cfg.Auth.BaseURL, cfg.Auth.Timeout, logger)
	}

	backupSvc := backup.NewService(recordStore, blobStore, resolver, logger)
	rankingsSvc := rankings.NewService(blobStore, resolver, logger)
	cache := images.NewURLCache(blobStore, cfg.Images.URLTTL, cfg.Images.CacheMargin, logger)
	imagesSvc := images.NewService(blobStore, resolver, cache, logger)
	journalSvc := journal.NewService(recordStore, backupSvc, rankingsSvc, imagesSvc, resolver, logger)

	return &Client{
		Journal:  journalSvc,
		Backup:   backupSvc,
		Rankings: rankingsSvc,
		Images:   imagesSvc,
		Identity: resolver,
		Provider: provider,
		store:    recordStore,
		config:   cfg,
		logger:   logger,
	}, nil
}

// Restore runs the startup pull for cloud users. It never blocks or fails
// startup: local users skip it and every restore problem is only logged.
func (c *Client) Restore(ctx context.Context) {
	if c.Identity.LocalMode() {
		return
	}

	if err := c.Backup.Pull(ctx); err != nil {
		// Only ErrNotAuthenticated reaches here; a signed-out user simply
		// has nothing to restore.
		c.logger.WithError(err).Debug("Skipping startup restore")
	}
}

// Close releases resources.
func (c *Client) Close() error {
	return c.store.Close()
}
