package models

import (
	"time"
)

// LocalPhotoKey marks a record whose photo lives only on the device.
// No remote object exists for it and it must never be signed or deleted
// remotely.
const LocalPhotoKey = "local"

// DrinkRecord is the canonical on-device representation of one logged drink.
type DrinkRecord struct {
	// ID is assigned once at creation and never changes. Records restored
	// from a backup keep their cloud ID verbatim.
	ID string `json:"id"`

	Flavor   string  `json:"flavor"`
	Store    string  `json:"store"`
	Occasion string  `json:"occasion"`
	Price    float64 `json:"price"`
	Rating   int     `json:"rating"`

	// Date is the calendar date of the visit as entered, not a timestamp.
	// It is attached at creation and not advanced on edit.
	Date string `json:"date"`

	// PhotoURL is a device-local reference and never leaves the device.
	PhotoURL string `json:"photoUrl,omitempty"`

	// S3Key is the canonical remote object path for the photo, or
	// LocalPhotoKey for local-only users.
	S3Key string `json:"s3Key,omitempty"`

	UserID string `json:"userId"`

	// Synced is true iff the last known state of this record has been
	// written to the user's backup blob.
	Synced bool `json:"synced"`

	// LastModified advances on every local mutation.
	LastModified time.Time `json:"lastModified"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	PlaceID   string   `json:"placeId,omitempty"`
}

// HasRemotePhoto reports whether the record references an object that
// actually exists in the remote store.
func (r *DrinkRecord) HasRemotePhoto() bool {
	return r.S3Key != "" && r.S3Key != LocalPhotoKey
}

// Touch advances the modification timestamp.
func (r *DrinkRecord) Touch() {
	r.LastModified = time.Now()
}
