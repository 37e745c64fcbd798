package models

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrRecordNotFound   = errors.New("record not found")
	ErrObjectNotFound   = errors.New("object not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrSessionExpired   = errors.New("session expired")
)

// SyncError provides detailed push/pull failure information.
type SyncError struct {
	Op     string // "push" or "pull"
	UserID string
	Err    error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s: user %s: %v", e.Op, e.UserID, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// StoreError wraps a local database failure.
type StoreError struct {
	Op  string
	ID  string
	Err error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("store %s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
