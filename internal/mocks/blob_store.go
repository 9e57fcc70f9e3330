package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/phrazzld/projpool-api/internal/blob"
)

// MockBlobStore implements blob.Store for testing
type MockBlobStore struct {
	PutFn    func(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	DeleteFn func(ctx context.Context, objectPath string) error

	mu      sync.Mutex
	put     []string
	deleted []string
}

var _ blob.Store = (*MockBlobStore)(nil)

// Put implements blob.Store. Without PutFn it drains r and returns
// gs://test-bucket/<name>.
func (m *MockBlobStore) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	m.mu.Lock()
	m.put = append(m.put, name)
	m.mu.Unlock()

	if m.PutFn != nil {
		return m.PutFn(ctx, name, contentType, r)
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	return "gs://test-bucket/" + name, nil
}

// Delete implements blob.Store
func (m *MockBlobStore) Delete(ctx context.Context, objectPath string) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, objectPath)
	m.mu.Unlock()

	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, objectPath)
	}
	return nil
}

// PutNames returns the object names passed to Put
func (m *MockBlobStore) PutNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.put...)
}

// Deleted returns the object paths passed to Delete
func (m *MockBlobStore) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}
