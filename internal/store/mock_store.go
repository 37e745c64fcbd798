package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobalog/bobalog/internal/models"
)

// MockStore provides an in-memory Store for testing.
type MockStore struct {
	mu      sync.RWMutex
	records map[string]*models.DrinkRecord

	// Failure injection
	CreateErr     error
	MarkSyncedErr error
}

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{
		records: make(map[string]*models.DrinkRecord),
	}
}

// Create persists a new record.
func (m *MockStore) Create(rec *models.DrinkRecord) (*models.DrinkRecord, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r := *rec
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.LastModified.IsZero() {
		r.LastModified = time.Now()
	}

	m.records[r.ID] = &r
	out := r
	return &out, nil
}

// Find returns a record by ID.
func (m *MockStore) Find(id string) (*models.DrinkRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	out := *rec
	return &out, nil
}

// All returns every record.
func (m *MockStore) All() ([]*models.DrinkRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []*models.DrinkRecord
	for _, rec := range m.records {
		out := *rec
		records = append(records, &out)
	}
	return records, nil
}

// ForUser returns records owned by userID.
func (m *MockStore) ForUser(userID string) ([]*models.DrinkRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []*models.DrinkRecord
	for _, rec := range m.records {
		if rec.UserID == userID {
			out := *rec
			records = append(records, &out)
		}
	}
	return records, nil
}

// Update applies mutate to the stored record.
func (m *MockStore) Update(id string, mutate func(*models.DrinkRecord)) (*models.DrinkRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}

	mutate(rec)
	rec.ID = id
	rec.Synced = false
	rec.LastModified = time.Now()

	out := *rec
	return &out, nil
}

// Destroy removes a record.
func (m *MockStore) Destroy(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return models.ErrRecordNotFound
	}
	delete(m.records, id)
	return nil
}

// MarkSynced flips the synced flag for the given IDs.
func (m *MockStore) MarkSynced(ids []string) error {
	if m.MarkSyncedErr != nil {
		return m.MarkSyncedErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range ids {
		if rec, ok := m.records[id]; ok {
			rec.Synced = true
		}
	}
	return nil
}

// Close is a no-op.
func (m *MockStore) Close() error {
	return nil
}

// Clear removes all records (for test setup).
func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(map[string]*models.DrinkRecord)
}

// Count returns the number of stored records.
func (m *MockStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
