// Package memstore provides an in-process storage medium.
// It backs the session cache scope and is handy in tests.
package memstore

import (
	"context"
	"sync"

	"github.com/stockdesk/console/internal/ports"
)

var _ ports.StorageMedium = (*Medium)(nil)

// Medium is a map-backed ports.StorageMedium safe for concurrent use.
type Medium struct {
	mu    sync.RWMutex
	items map[string]string
}

// New creates an empty Medium.
func New() *Medium {
	return &Medium{items: make(map[string]string)}
}

// GetItem returns the value stored under key.
func (m *Medium) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

// SetItem stores value under key, replacing any previous value.
func (m *Medium) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

// RemoveItem deletes key if present.
func (m *Medium) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// Len returns the number of stored entries.
func (m *Medium) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Clear drops every entry, as when the host discards the scope.
func (m *Medium) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]string)
}
