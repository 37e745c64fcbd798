package models

import "time"

// BackupRecord is the wire shape of one drink inside a user's backup blob.
// Device-local fields (photoUrl, synced) are dropped; timestamps travel as
// epoch milliseconds.
type BackupRecord struct {
	ID           string   `json:"id"`
	Flavor       string   `json:"flavor"`
	Price        float64  `json:"price"`
	Store        string   `json:"store"`
	Occasion     string   `json:"occasion"`
	Rating       int      `json:"rating"`
	Date         string   `json:"date"`
	S3Key        string   `json:"s3Key,omitempty"`
	UserID       string   `json:"userId"`
	LastModified int64    `json:"lastModified"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	PlaceID      string   `json:"placeId,omitempty"`
}

// ToBackup flattens a local record into its backup wire shape.
func (r *DrinkRecord) ToBackup() BackupRecord {
	return BackupRecord{
		ID:           r.ID,
		Flavor:       r.Flavor,
		Price:        r.Price,
		Store:        r.Store,
		Occasion:     r.Occasion,
		Rating:       r.Rating,
		Date:         r.Date,
		S3Key:        r.S3Key,
		UserID:       r.UserID,
		LastModified: r.LastModified.UnixMilli(),
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		PlaceID:      r.PlaceID,
	}
}

// ToRecord rebuilds a local record from its backup shape. Synced is set by
// the caller; pulled records are marked synced since they came from the blob.
func (b *BackupRecord) ToRecord() *DrinkRecord {
	return &DrinkRecord{
		ID:           b.ID,
		Flavor:       b.Flavor,
		Price:        b.Price,
		Store:        b.Store,
		Occasion:     b.Occasion,
		Rating:       b.Rating,
		Date:         b.Date,
		S3Key:        b.S3Key,
		UserID:       b.UserID,
		LastModified: time.UnixMilli(b.LastModified),
		Latitude:     b.Latitude,
		Longitude:    b.Longitude,
		PlaceID:      b.PlaceID,
	}
}
