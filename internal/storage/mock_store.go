package storage

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"
)

// MockStore is an in-memory implementation of ArtifactStore for testing.
type MockStore struct {
	mu      sync.RWMutex
	objects map[string]*Object
	calls   MockCalls

	// PutErr, when set, is returned by every Put.
	PutErr error
}

// MockCalls tracks method invocations for test verification.
type MockCalls struct {
	Put    int
	Get    int
	Exists int
	Delete int
	List   int
}

// NewMockStore creates an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{objects: make(map[string]*Object)}
}

// Put stores a copy of the object.
func (m *MockStore) Put(_ context.Context, obj *Object) (string, error) {
	if err := checkName(obj.Name); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Put++

	if m.PutErr != nil {
		return "", m.PutErr
	}

	hash := ContentHash(obj.Data)
	m.objects[obj.Name] = &Object{
		Name:        obj.Name,
		ContentType: obj.ContentType,
		Data:        slices.Clone(obj.Data),
		Hash:        hash,
		Metadata: Metadata{
			ModifiedAt: time.Now(),
			Custom:     maps.Clone(obj.Metadata.Custom),
		},
	}
	obj.Hash = hash
	return hash, nil
}

// Get retrieves a copy of an object by name.
func (m *MockStore) Get(_ context.Context, name string) (*Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Get++

	obj, ok := m.objects[name]
	if !ok {
		return nil, ErrNotFound{Name: name}
	}
	cp := *obj
	cp.Data = slices.Clone(obj.Data)
	cp.Metadata.Custom = maps.Clone(obj.Metadata.Custom)
	return &cp, nil
}

// Exists checks if an object with the given name exists.
func (m *MockStore) Exists(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Exists++

	_, ok := m.objects[name]
	return ok, nil
}

// Delete removes an object by name.
func (m *MockStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Delete++

	delete(m.objects, name)
	return nil
}

// List returns all object names, sorted.
func (m *MockStore) List(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.List++

	return slices.Sorted(maps.Keys(m.objects)), nil
}

// Location identifies the mock in logs.
func (m *MockStore) Location() string { return "memory" }

// Close releases resources (no-op for mock).
func (m *MockStore) Close() error {
	return nil
}

// GetCalls returns the number of times each method was called.
func (m *MockStore) GetCalls() MockCalls {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

// Reset clears all stored objects and call counts.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects = make(map[string]*Object)
	m.calls = MockCalls{}
}

// Size returns the number of stored objects.
func (m *MockStore) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// String returns a string representation for debugging.
func (m *MockStore) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fmt.Sprintf("MockStore{objects: %d, calls: %+v}", len(m.objects), m.calls)
}

var _ ArtifactStore = (*MockStore)(nil)
