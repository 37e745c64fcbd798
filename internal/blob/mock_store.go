package blob

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bobalog/bobalog/internal/models"
)

// MockStore provides an in-memory Store for testing.
type MockStore struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// Failure injection
	PutErr    error
	GetErr    error
	DeleteErr error
	SignErr   error

	// Call counters
	PutCalls    int
	GetCalls    int
	DeleteCalls int
	SignCalls   int
}

// NewMockStore creates an empty in-memory object store.
func NewMockStore() *MockStore {
	return &MockStore{
		objects: make(map[string][]byte),
	}
}

// Put stores data under key.
func (m *MockStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PutCalls++
	if m.PutErr != nil {
		return m.PutErr
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[key] = buf
	return nil
}

// Get returns the object at key.
func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls++
	if m.GetErr != nil {
		return nil, m.GetErr
	}

	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrObjectNotFound, key)
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Delete removes the object at key. Missing keys are not an error.
func (m *MockStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	delete(m.objects, key)
	return nil
}

// SignedURL returns a deterministic fake URL.
func (m *MockStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SignCalls++
	if m.SignErr != nil {
		return "", m.SignErr
	}

	return fmt.Sprintf("https://signed.example.com/%s?calls=%d", key, m.SignCalls), nil
}

// Object returns the stored bytes for key (for test assertions).
func (m *MockStore) Object(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[key]
	return data, ok
}

// Keys returns every stored key.
func (m *MockStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}
