package store

import (
	"github.com/bobalog/bobalog/internal/models"
)

// Store manages durable persistence of drink records. It is the single
// source of truth on-device; the sync engine only reads it and flips the
// synced flag after a confirmed upload.
type Store interface {
	// Create persists a new record. An empty ID gets a fresh one assigned;
	// a caller-supplied ID (a record restored from backup) is kept verbatim.
	Create(rec *models.DrinkRecord) (*models.DrinkRecord, error)

	// Find returns the record with the given ID, or models.ErrRecordNotFound.
	Find(id string) (*models.DrinkRecord, error)

	// All returns every record, unordered.
	All() ([]*models.DrinkRecord, error)

	// ForUser returns every record owned by the given identity, unordered.
	ForUser(userID string) ([]*models.DrinkRecord, error)

	// Update applies mutate to the stored record, advances LastModified and
	// clears the synced flag. Fails with models.ErrRecordNotFound if absent.
	Update(id string, mutate func(*models.DrinkRecord)) (*models.DrinkRecord, error)

	// Destroy permanently removes the record. There is no tombstone; the next
	// push re-serializes the remaining set, which drops the record remotely.
	Destroy(id string) error

	// MarkSynced flips the synced flag for all given IDs in one transaction.
	MarkSynced(ids []string) error

	// Close releases resources.
	Close() error
}
