package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/bobalog/bobalog/internal/blob"
	"github.com/bobalog/bobalog/internal/events"
	"github.com/bobalog/bobalog/internal/identity"
	"github.com/bobalog/bobalog/internal/models"
	"github.com/bobalog/bobalog/internal/store"
)

// Service implements the per-user backup protocol: Push uploads the full
// local record set as one blob, Pull merges a blob back by record identity.
// There is no persisted intermediate state; each run either completes or
// leaves local data untouched.
type Service struct {
	store    store.Store
	blob     blob.Store
	identity *identity.Resolver
	logger   *events.Logger
}

// NewService creates a backup service.
func NewService(recordStore store.Store, blobStore blob.Store, resolver *identity.Resolver, logger *events.Logger) *Service {
	return &Service{
		store:    recordStore,
		blob:     blobStore,
		identity: resolver,
		logger:   logger.WithField("service", "backup"),
	}
}

// Push serializes every record owned by the current identity and overwrites
// the user's backup blob wholesale. On a successful upload the pushed
// records are marked synced in one transaction; an upload failure leaves
// every synced flag untouched and is returned for the caller to retry.
//
// Records owned by a different identity on the same device are neither
// pushed nor deleted.
func (s *Service) Push(ctx context.Context) error {
	if s.identity.LocalMode() {
		s.logger.Debug("Local mode, skipping push")
		return nil
	}

	userID, err := s.identity.Current()
	if err != nil {
		return err
	}

	records, err := s.store.ForUser(userID)
	if err != nil {
		return &models.SyncError{Op: "push", UserID: userID, Err: err}
	}

	// Stable order keeps consecutive pushes of the same set byte-identical.
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	payload := make([]models.BackupRecord, 0, len(records))
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		payload = append(payload, rec.ToBackup())
		ids = append(ids, rec.ID)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return &models.SyncError{Op: "push", UserID: userID, Err: err}
	}

	if err := s.blob.Put(ctx, blob.BackupKey(userID), data, "application/json"); err != nil {
		return &models.SyncError{Op: "push", UserID: userID, Err: err}
	}

	if err := s.store.MarkSynced(ids); err != nil {
		return &models.SyncError{Op: "push", UserID: userID, Err: fmt.Errorf("mark synced: %w", err)}
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"records": len(records),
	}).Info("Pushed backup")

	return nil
}

// Pull merges the user's backup blob into the local store. A missing blob
// (first-time user) is an expected, successful no-op. Only records whose ID
// is absent locally are created, marked synced, with their cloud ID kept
// verbatim; an existing local record always wins over its cloud copy.
//
// Pull is advisory: every failure after the identity check is logged and
// swallowed, so app startup is never blocked by a broken restore.
func (s *Service) Pull(ctx context.Context) error {
	if s.identity.LocalMode() {
		s.logger.Debug("Local mode, skipping pull")
		return nil
	}

	userID, err := s.identity.Current()
	if err != nil {
		return err
	}

	data, err := s.blob.Get(ctx, blob.BackupKey(userID))
	if errors.Is(err, models.ErrObjectNotFound) {
		s.logger.WithField("user_id", userID).Debug("No backup blob yet")
		return nil
	}
	if err != nil {
		s.logger.WithError(err).Warn("Backup download failed, skipping restore")
		return nil
	}

	var candidates []models.BackupRecord
	if err := json.Unmarshal(data, &candidates); err != nil {
		s.logger.WithError(err).Warn("Malformed backup blob, skipping restore")
		return nil
	}

	existing, err := s.store.All()
	if err != nil {
		s.logger.WithError(err).Warn("Local read failed, skipping restore")
		return nil
	}

	known := make(map[string]struct{}, len(existing))
	for _, rec := range existing {
		known[rec.ID] = struct{}{}
	}

	restored := 0
	for i := range candidates {
		if candidates[i].ID == "" {
			continue
		}
		if _, ok := known[candidates[i].ID]; ok {
			continue
		}

		rec := candidates[i].ToRecord()
		rec.Synced = true

		if _, err := s.store.Create(rec); err != nil {
			s.logger.WithError(err).WithField("id", rec.ID).Warn("Failed to restore record")
			continue
		}
		restored++
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":    userID,
		"candidates": len(candidates),
		"restored":   restored,
	}).Info("Pulled backup")

	return nil
}
